package export

import (
	"context"
	"testing"
	"time"

	"bilancio/internal/core"
)

func TestYearPrefixedName(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"Balance", "2026 Balance"},
		{"  Balance  ", "2026 Balance"},
		{"2025 Balance", "2025 Balance"},
		{"", ""},
		{"Bala", "2026 Bala"},
	}
	for _, tc := range cases {
		if got := yearPrefixedName(tc.base, 2026); got != tc.want {
			t.Errorf("yearPrefixedName(%q)=%q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestSnapshotRow(t *testing.T) {
	taken := time.Date(2026, 7, 8, 6, 0, 0, 0, time.UTC)
	snap := core.BalanceSnapshot{
		AsOf:         core.NewDate(2026, 7, 8),
		BalanceCents: 270000,
		IncomeCents:  250000,
		ExpenseCents: 80000,
		TakenAt:      taken,
	}

	row := snapshotRow(snap)
	if len(row) != 5 {
		t.Fatalf("row length=%d, want 5", len(row))
	}
	if row[0] != "2026-07-08" {
		t.Fatalf("date cell=%v", row[0])
	}
	if row[1] != 2700.0 || row[2] != 2500.0 || row[3] != 800.0 {
		t.Fatalf("amount cells=%v %v %v", row[1], row[2], row[3])
	}
	if row[4] != "2026-07-08T06:00:00Z" {
		t.Fatalf("timestamp cell=%v", row[4])
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{SpreadsheetID: "abc"})
	if err == nil {
		t.Fatal("expected error without credentials")
	}

	_, err = NewClient(context.Background(), Config{})
	if err == nil {
		t.Fatal("expected error without spreadsheet id")
	}
}

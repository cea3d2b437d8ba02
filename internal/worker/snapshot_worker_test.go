package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/storage"
)

type fakeStore struct {
	input     storage.CalcInput
	loadErr   error
	insertErr error
	snapshots []core.BalanceSnapshot
}

func (f *fakeStore) LoadCalcInput(ctx context.Context) (storage.CalcInput, error) {
	if f.loadErr != nil {
		return storage.CalcInput{}, f.loadErr
	}
	return f.input, nil
}

func (f *fakeStore) InsertSnapshot(ctx context.Context, s core.BalanceSnapshot) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.snapshots = append(f.snapshots, s)
	return nil
}

type fakeExporter struct {
	exported []core.BalanceSnapshot
	err      error
}

func (f *fakeExporter) AppendSnapshot(ctx context.Context, snap core.BalanceSnapshot) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.exported = append(f.exported, snap)
	return "Balance!A2:E2", nil
}

func referenceInput() storage.CalcInput {
	return storage.CalcInput{
		Items: []core.RecurringItem{
			{ID: 1, Kind: core.Income, Label: "Salary", Amount: core.Money{Cents: 250000}, DayOfMonth: 5, Frequency: core.Monthly},
			{ID: 2, Kind: core.Expense, Label: "Rent", Amount: core.Money{Cents: 80000}, DayOfMonth: 1, Frequency: core.Monthly},
		},
		BaseCents: 100000,
	}
}

func fixedClock(w *SnapshotWorker) {
	w.now = func() time.Time {
		return time.Date(2026, 7, 8, 6, 0, 0, 0, time.UTC)
	}
}

func TestTakeSnapshot(t *testing.T) {
	store := &fakeStore{input: referenceInput()}
	w := NewSnapshotWorker(store, nil, time.Hour)
	fixedClock(w)

	if err := w.TakeSnapshot(context.Background()); err != nil {
		t.Fatalf("TakeSnapshot: %v", err)
	}

	if len(store.snapshots) != 1 {
		t.Fatalf("snapshots=%d, want 1", len(store.snapshots))
	}
	snap := store.snapshots[0]
	// 1000 + 2500 - 800 as of July 8th
	if snap.BalanceCents != 270000 {
		t.Fatalf("balance=%d, want 270000", snap.BalanceCents)
	}
	if snap.IncomeCents != 250000 || snap.ExpenseCents != 80000 {
		t.Fatalf("income=%d expense=%d", snap.IncomeCents, snap.ExpenseCents)
	}
	if !snap.AsOf.SameDay(core.NewDate(2026, 7, 8)) {
		t.Fatalf("as_of=%v", snap.AsOf)
	}
}

func TestTakeSnapshotExports(t *testing.T) {
	store := &fakeStore{input: referenceInput()}
	exp := &fakeExporter{}
	w := NewSnapshotWorker(store, exp, time.Hour)
	fixedClock(w)

	if err := w.TakeSnapshot(context.Background()); err != nil {
		t.Fatalf("TakeSnapshot: %v", err)
	}
	if len(exp.exported) != 1 {
		t.Fatalf("exported=%d, want 1", len(exp.exported))
	}
}

func TestExportFailureKeepsLocalSnapshot(t *testing.T) {
	store := &fakeStore{input: referenceInput()}
	exp := &fakeExporter{err: errors.New("quota exceeded")}
	w := NewSnapshotWorker(store, exp, time.Hour)
	fixedClock(w)

	if err := w.TakeSnapshot(context.Background()); err != nil {
		t.Fatalf("export failure should not fail the snapshot: %v", err)
	}
	if len(store.snapshots) != 1 {
		t.Fatalf("snapshots=%d, want 1", len(store.snapshots))
	}
}

func TestHandleBudgetChanged(t *testing.T) {
	store := &fakeStore{input: referenceInput()}
	w := NewSnapshotWorker(store, nil, time.Hour)
	fixedClock(w)

	msg := amqp.NewBudgetChangedMessage(amqp.EntityRecurringItem, 1, amqp.ActionCreated)
	if err := w.HandleBudgetChanged(context.Background(), msg); err != nil {
		t.Fatalf("HandleBudgetChanged: %v", err)
	}
	if len(store.snapshots) != 1 {
		t.Fatalf("snapshots=%d, want 1", len(store.snapshots))
	}

	store.loadErr = errors.New("db closed")
	if err := w.HandleBudgetChanged(context.Background(), msg); err == nil {
		t.Fatal("expected error when load fails")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{input: referenceInput()}
	w := NewSnapshotWorker(store, nil, time.Hour)
	fixedClock(w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	// The startup snapshot still happened
	if len(store.snapshots) != 1 {
		t.Fatalf("snapshots=%d, want 1", len(store.snapshots))
	}
}

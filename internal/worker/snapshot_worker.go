// Package worker records periodic balance snapshots. It reacts to
// budget change events from AMQP and ticks on a fixed interval as a
// backstop, so history keeps accruing even when nothing changes.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/forecast"
	"bilancio/internal/storage"
)

// SnapshotStore is the slice of storage the worker writes through.
type SnapshotStore interface {
	LoadCalcInput(ctx context.Context) (storage.CalcInput, error)
	InsertSnapshot(ctx context.Context, s core.BalanceSnapshot) error
}

// SnapshotExporter pushes a recorded snapshot to an external sink.
type SnapshotExporter interface {
	AppendSnapshot(ctx context.Context, snap core.BalanceSnapshot) (string, error)
}

// SnapshotWorker recomputes the balance and persists it as a snapshot.
// The exporter is optional; a nil exporter keeps snapshots local only.
type SnapshotWorker struct {
	store    SnapshotStore
	exporter SnapshotExporter
	interval time.Duration

	now func() time.Time
}

func NewSnapshotWorker(store SnapshotStore, exporter SnapshotExporter, interval time.Duration) *SnapshotWorker {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &SnapshotWorker{
		store:    store,
		exporter: exporter,
		interval: interval,
		now:      time.Now,
	}
}

// HandleBudgetChanged processes a single budget change event from AMQP.
// Every mutation of the budget produces a fresh snapshot.
func (w *SnapshotWorker) HandleBudgetChanged(ctx context.Context, msg *amqp.BudgetChangedMessage) error {
	slog.InfoContext(ctx, "Processing budget change",
		"entity", msg.Entity,
		"id", msg.ID,
		"action", msg.Action)

	if err := w.TakeSnapshot(ctx); err != nil {
		return fmt.Errorf("snapshot after %s %s: %w", msg.Entity, msg.Action, err)
	}
	return nil
}

// TakeSnapshot computes the balance for today and records it.
func (w *SnapshotWorker) TakeSnapshot(ctx context.Context) error {
	input, err := w.store.LoadCalcInput(ctx)
	if err != nil {
		return fmt.Errorf("load balance input: %w", err)
	}

	nowT := w.now()
	today := core.NewDate(nowT.Year(), int(nowT.Month()), nowT.Day())
	res := forecast.ComputeBalance(input.Items, input.Planned, input.BaseCents, today)

	snap := core.BalanceSnapshot{
		AsOf:         today,
		BalanceCents: res.CurrentBalanceCents,
		IncomeCents:  res.IncomeAppliedCents,
		ExpenseCents: res.ExpenseAppliedCents,
		TakenAt:      nowT,
	}

	if err := w.store.InsertSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Balance snapshot recorded",
		"as_of", today.Format("2006-01-02"),
		"balance_cents", snap.BalanceCents)

	if w.exporter != nil {
		ref, err := w.exporter.AppendSnapshot(ctx, snap)
		if err != nil {
			// Export is best effort, the local snapshot already exists
			slog.ErrorContext(ctx, "Snapshot export failed", "error", err)
			return nil
		}
		slog.InfoContext(ctx, "Snapshot exported", "ref", ref)
	}

	return nil
}

// Run blocks, taking a snapshot on every tick until the context ends.
// One snapshot is taken up front so a fresh deployment has history
// immediately.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	if err := w.TakeSnapshot(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup snapshot failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.TakeSnapshot(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic snapshot failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

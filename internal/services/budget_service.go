// Package services orchestrates storage, the calculation core and event
// publishing behind the HTTP layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/forecast"
	"bilancio/internal/storage"
)

// EventPublisher is the notification side of the service. A nil
// publisher disables events without changing behavior.
type EventPublisher interface {
	PublishBudgetChanged(ctx context.Context, entity string, id int64, action string) error
}

// BudgetService coordinates persistence and the calculation core.
// Balance and projection results are cached until the next mutation;
// inputs are expected to be validated by the HTTP boundary.
type BudgetService struct {
	repo      *storage.SQLiteRepository
	publisher EventPublisher

	balanceCache    *cache.LRUCache[forecast.BalanceResult]
	projectionCache *cache.LRUCache[[]forecast.ProjectionPoint]
}

func NewBudgetService(repo *storage.SQLiteRepository, publisher EventPublisher, cacheTTL time.Duration) *BudgetService {
	return &BudgetService{
		repo:            repo,
		publisher:       publisher,
		balanceCache:    cache.NewLRUCache[forecast.BalanceResult](64, cacheTTL),
		projectionCache: cache.NewLRUCache[[]forecast.ProjectionPoint](32, cacheTTL),
	}
}

// Caches returns the service caches for cleanup registration.
func (s *BudgetService) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.balanceCache, s.projectionCache}
}

func (s *BudgetService) invalidate() {
	s.balanceCache.Purge()
	s.projectionCache.Purge()
}

func (s *BudgetService) publish(ctx context.Context, entity string, id int64, action string) {
	if s.publisher == nil {
		return
	}
	// Best effort: the write already succeeded, a lost event only delays
	// the next snapshot.
	if err := s.publisher.PublishBudgetChanged(ctx, entity, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget change",
			"entity", entity,
			"id", id,
			"action", action,
			"error", err)
	}
}

// --- recurring items ---

func (s *BudgetService) CreateRecurring(ctx context.Context, item core.RecurringItem) (int64, error) {
	id, err := s.repo.CreateRecurringItem(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("create recurring item: %w", err)
	}
	s.invalidate()
	s.publish(ctx, amqp.EntityRecurringItem, id, amqp.ActionCreated)
	return id, nil
}

func (s *BudgetService) ListRecurring(ctx context.Context, kind core.ItemKind) ([]core.RecurringItem, error) {
	return s.repo.ListRecurringItems(ctx, kind)
}

func (s *BudgetService) GetRecurring(ctx context.Context, id int64) (core.RecurringItem, error) {
	return s.repo.GetRecurringItem(ctx, id)
}

func (s *BudgetService) UpdateRecurring(ctx context.Context, item core.RecurringItem) error {
	if err := s.repo.UpdateRecurringItem(ctx, item); err != nil {
		return fmt.Errorf("update recurring item: %w", err)
	}
	s.invalidate()
	s.publish(ctx, amqp.EntityRecurringItem, item.ID, amqp.ActionUpdated)
	return nil
}

func (s *BudgetService) DeleteRecurring(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRecurringItem(ctx, id); err != nil {
		return fmt.Errorf("delete recurring item: %w", err)
	}
	s.invalidate()
	s.publish(ctx, amqp.EntityRecurringItem, id, amqp.ActionDeleted)
	return nil
}

// --- planned expenses ---

func (s *BudgetService) CreatePlanned(ctx context.Context, pe core.PlannedExpense) (int64, error) {
	id, err := s.repo.CreatePlannedExpense(ctx, pe)
	if err != nil {
		return 0, fmt.Errorf("create planned expense: %w", err)
	}
	s.invalidate()
	s.publish(ctx, amqp.EntityPlannedExpense, id, amqp.ActionCreated)
	return id, nil
}

func (s *BudgetService) ListPlanned(ctx context.Context) ([]core.PlannedExpense, error) {
	return s.repo.ListPlannedExpenses(ctx)
}

func (s *BudgetService) UpdatePlanned(ctx context.Context, pe core.PlannedExpense) error {
	if err := s.repo.UpdatePlannedExpense(ctx, pe); err != nil {
		return fmt.Errorf("update planned expense: %w", err)
	}
	s.invalidate()
	s.publish(ctx, amqp.EntityPlannedExpense, pe.ID, amqp.ActionUpdated)
	return nil
}

func (s *BudgetService) DeletePlanned(ctx context.Context, id int64) error {
	if err := s.repo.DeletePlannedExpense(ctx, id); err != nil {
		return fmt.Errorf("delete planned expense: %w", err)
	}
	s.invalidate()
	s.publish(ctx, amqp.EntityPlannedExpense, id, amqp.ActionDeleted)
	return nil
}

func (s *BudgetService) SetPlannedSpent(ctx context.Context, id int64, spent bool) error {
	if err := s.repo.SetPlannedSpent(ctx, id, spent); err != nil {
		return fmt.Errorf("set planned spent: %w", err)
	}
	s.invalidate()
	s.publish(ctx, amqp.EntityPlannedExpense, id, amqp.ActionUpdated)
	return nil
}

// --- balance ---

func (s *BudgetService) InitialBalance(ctx context.Context) (int64, error) {
	return s.repo.InitialBalance(ctx)
}

func (s *BudgetService) SetInitialBalance(ctx context.Context, cents int64) error {
	if err := s.repo.SetInitialBalance(ctx, cents); err != nil {
		return fmt.Errorf("set initial balance: %w", err)
	}
	s.invalidate()
	s.publish(ctx, amqp.EntityBalance, 0, amqp.ActionUpdated)
	return nil
}

func (s *BudgetService) CreateAdjustment(ctx context.Context, a core.Adjustment) (int64, error) {
	id, err := s.repo.CreateAdjustment(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("create adjustment: %w", err)
	}
	s.invalidate()
	s.publish(ctx, amqp.EntityBalance, id, amqp.ActionUpdated)
	return id, nil
}

func (s *BudgetService) ListAdjustments(ctx context.Context) ([]core.Adjustment, error) {
	return s.repo.ListAdjustments(ctx)
}

// Balance computes the current balance as of ref, serving repeated
// requests for the same date from cache.
func (s *BudgetService) Balance(ctx context.Context, ref core.Date) (forecast.BalanceResult, error) {
	key := ref.Format("2006-01-02")
	if cached, ok := s.balanceCache.Get(key); ok {
		return cached, nil
	}

	input, err := s.repo.LoadCalcInput(ctx)
	if err != nil {
		return forecast.BalanceResult{}, fmt.Errorf("load balance input: %w", err)
	}

	res := forecast.ComputeBalance(input.Items, input.Planned, input.BaseCents, ref)
	s.balanceCache.Set(key, res)
	return res, nil
}

// Projection walks the balance forward from start over horizonDays.
func (s *BudgetService) Projection(ctx context.Context, start core.Date, horizonDays int) ([]forecast.ProjectionPoint, error) {
	key := start.Format("2006-01-02") + ":" + strconv.Itoa(horizonDays)
	if cached, ok := s.projectionCache.Get(key); ok {
		return cached, nil
	}

	input, err := s.repo.LoadCalcInput(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projection input: %w", err)
	}

	points := forecast.Project(input.Items, input.Planned, input.BaseCents, start, horizonDays)
	s.projectionCache.Set(key, points)
	return points, nil
}

// Overview aggregates monthly-equivalent figures for all active items.
func (s *BudgetService) Overview(ctx context.Context) (core.RecurringOverview, error) {
	items, err := s.repo.ListRecurringItems(ctx, "")
	if err != nil {
		return core.RecurringOverview{}, fmt.Errorf("load overview input: %w", err)
	}
	return forecast.BuildOverview(items), nil
}

// History returns stored balance snapshots, newest first.
func (s *BudgetService) History(ctx context.Context, limit int) ([]core.BalanceSnapshot, error) {
	return s.repo.ListSnapshots(ctx, limit)
}

// Close closes the underlying repository.
func (s *BudgetService) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

var ErrNotFound = errors.New("not found")

// CalcInput is the immutable snapshot the calculation core consumes:
// all active items plus the effective starting balance (configured
// initial balance with manual adjustments folded in).
type CalcInput struct {
	Items     []core.RecurringItem
	Planned   []core.PlannedExpense
	BaseCents int64
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func formatDate(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format(dateLayout)
}

func parseDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

// --- recurring items ---

func (r *SQLiteRepository) CreateRecurringItem(ctx context.Context, item core.RecurringItem) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_items (kind, label, category, amount_cents, day_of_month, frequency, months, one_time_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(item.Kind), item.Label, item.Category, item.Amount.Cents,
		item.DayOfMonth, string(item.Frequency), core.FormatMonthSet(item.Months),
		formatDate(item.OneTimeDate))
	if err != nil {
		return 0, fmt.Errorf("create recurring item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Recurring item saved",
		"id", id,
		"kind", item.Kind,
		"label", item.Label,
		"amount_cents", item.Amount.Cents,
		"frequency", item.Frequency)
	return id, nil
}

func scanRecurringItem(rows *sql.Rows) (core.RecurringItem, error) {
	var (
		item      core.RecurringItem
		kind      string
		frequency string
		months    string
		oneTime   sql.NullString
	)
	if err := rows.Scan(&item.ID, &kind, &item.Label, &item.Category,
		&item.Amount.Cents, &item.DayOfMonth, &frequency, &months, &oneTime); err != nil {
		return item, fmt.Errorf("scan recurring item: %w", err)
	}
	item.Kind = core.ItemKind(kind)
	item.Frequency = core.Frequency(frequency)

	parsed, err := core.ParseMonthSet(months)
	if err != nil {
		return item, fmt.Errorf("item %d: %w", item.ID, err)
	}
	item.Months = parsed

	if oneTime.Valid {
		d, err := parseDate(oneTime.String)
		if err != nil {
			return item, fmt.Errorf("item %d: %w", item.ID, err)
		}
		item.OneTimeDate = d
	}
	return item, nil
}

const recurringItemColumns = `id, kind, label, category, amount_cents, day_of_month, frequency, months, one_time_date`

// ListRecurringItems returns all active items, or only those of the
// given kind when kind is non-empty.
func (r *SQLiteRepository) ListRecurringItems(ctx context.Context, kind core.ItemKind) ([]core.RecurringItem, error) {
	query := `SELECT ` + recurringItemColumns + ` FROM recurring_items WHERE deleted_at IS NULL`
	args := []any{}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}
	defer rows.Close()

	var items []core.RecurringItem
	for rows.Next() {
		item, err := scanRecurringItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}
	return items, nil
}

func (r *SQLiteRepository) GetRecurringItem(ctx context.Context, id int64) (core.RecurringItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recurringItemColumns+`
		FROM recurring_items WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return core.RecurringItem{}, fmt.Errorf("get recurring item: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.RecurringItem{}, fmt.Errorf("get recurring item: %w", err)
		}
		return core.RecurringItem{}, ErrNotFound
	}
	return scanRecurringItem(rows)
}

func (r *SQLiteRepository) UpdateRecurringItem(ctx context.Context, item core.RecurringItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_items
		SET kind = ?, label = ?, category = ?, amount_cents = ?, day_of_month = ?,
		    frequency = ?, months = ?, one_time_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		string(item.Kind), item.Label, item.Category, item.Amount.Cents,
		item.DayOfMonth, string(item.Frequency), core.FormatMonthSet(item.Months),
		formatDate(item.OneTimeDate), item.ID)
	if err != nil {
		return fmt.Errorf("update recurring item: %w", err)
	}
	return requireRowAffected(res, "recurring item")
}

func (r *SQLiteRepository) DeleteRecurringItem(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_items SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete recurring item: %w", err)
	}
	if err := requireRowAffected(res, "recurring item"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Recurring item deleted", "id", id)
	return nil
}

// --- planned expenses ---

func (r *SQLiteRepository) CreatePlannedExpense(ctx context.Context, pe core.PlannedExpense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO planned_expenses (label, amount_cents, due_date, spent)
		VALUES (?, ?, ?, ?)`,
		pe.Label, pe.Amount.Cents, formatDate(pe.Date), boolToInt(pe.Spent))
	if err != nil {
		return 0, fmt.Errorf("create planned expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Planned expense saved",
		"id", id,
		"label", pe.Label,
		"amount_cents", pe.Amount.Cents,
		"due_date", formatDate(pe.Date))
	return id, nil
}

func (r *SQLiteRepository) ListPlannedExpenses(ctx context.Context) ([]core.PlannedExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label, amount_cents, due_date, spent
		FROM planned_expenses WHERE deleted_at IS NULL ORDER BY due_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list planned expenses: %w", err)
	}
	defer rows.Close()

	var out []core.PlannedExpense
	for rows.Next() {
		var (
			pe      core.PlannedExpense
			dueDate string
			spent   int
		)
		if err := rows.Scan(&pe.ID, &pe.Label, &pe.Amount.Cents, &dueDate, &spent); err != nil {
			return nil, fmt.Errorf("scan planned expense: %w", err)
		}
		d, err := parseDate(dueDate)
		if err != nil {
			return nil, fmt.Errorf("planned expense %d: %w", pe.ID, err)
		}
		pe.Date = d
		pe.Spent = spent != 0
		out = append(out, pe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list planned expenses: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdatePlannedExpense(ctx context.Context, pe core.PlannedExpense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE planned_expenses
		SET label = ?, amount_cents = ?, due_date = ?, spent = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		pe.Label, pe.Amount.Cents, formatDate(pe.Date), boolToInt(pe.Spent), pe.ID)
	if err != nil {
		return fmt.Errorf("update planned expense: %w", err)
	}
	return requireRowAffected(res, "planned expense")
}

func (r *SQLiteRepository) DeletePlannedExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE planned_expenses SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete planned expense: %w", err)
	}
	if err := requireRowAffected(res, "planned expense"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Planned expense deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) SetPlannedSpent(ctx context.Context, id int64, spent bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE planned_expenses SET spent = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`, boolToInt(spent), id)
	if err != nil {
		return fmt.Errorf("set planned spent: %w", err)
	}
	return requireRowAffected(res, "planned expense")
}

// --- balance settings and adjustments ---

func (r *SQLiteRepository) InitialBalance(ctx context.Context) (int64, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT initial_balance_cents FROM balance_settings WHERE id = 1`).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("get initial balance: %w", err)
	}
	return cents, nil
}

func (r *SQLiteRepository) SetInitialBalance(ctx context.Context, cents int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE balance_settings SET initial_balance_cents = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`, cents)
	if err != nil {
		return fmt.Errorf("set initial balance: %w", err)
	}
	slog.InfoContext(ctx, "Initial balance updated", "cents", cents)
	return nil
}

func (r *SQLiteRepository) CreateAdjustment(ctx context.Context, a core.Adjustment) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO balance_adjustments (amount_cents, description, reason)
		VALUES (?, ?, ?)`, a.AmountCents, a.Description, a.Reason)
	if err != nil {
		return 0, fmt.Errorf("create adjustment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Balance adjustment saved",
		"id", id,
		"amount_cents", a.AmountCents,
		"reason", a.Reason)
	return id, nil
}

func (r *SQLiteRepository) ListAdjustments(ctx context.Context) ([]core.Adjustment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_cents, description, reason, created_at
		FROM balance_adjustments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []core.Adjustment
	for rows.Next() {
		var a core.Adjustment
		if err := rows.Scan(&a.ID, &a.AmountCents, &a.Description, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) adjustmentTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM balance_adjustments`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum adjustments: %w", err)
	}
	return total, nil
}

// LoadCalcInput collects everything a calculation pass needs in one
// place, so callers hand the core a single consistent snapshot.
func (r *SQLiteRepository) LoadCalcInput(ctx context.Context) (CalcInput, error) {
	items, err := r.ListRecurringItems(ctx, "")
	if err != nil {
		return CalcInput{}, err
	}
	planned, err := r.ListPlannedExpenses(ctx)
	if err != nil {
		return CalcInput{}, err
	}
	initial, err := r.InitialBalance(ctx)
	if err != nil {
		return CalcInput{}, err
	}
	adjustments, err := r.adjustmentTotal(ctx)
	if err != nil {
		return CalcInput{}, err
	}
	return CalcInput{Items: items, Planned: planned, BaseCents: initial + adjustments}, nil
}

// --- balance snapshots ---

func (r *SQLiteRepository) InsertSnapshot(ctx context.Context, s core.BalanceSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO balance_snapshots (as_of, balance_cents, income_cents, expense_cents)
		VALUES (?, ?, ?, ?)`,
		formatDate(s.AsOf), s.BalanceCents, s.IncomeCents, s.ExpenseCents)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSnapshots(ctx context.Context, limit int) ([]core.BalanceSnapshot, error) {
	if limit <= 0 {
		limit = 90
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, as_of, balance_cents, income_cents, expense_cents, taken_at
		FROM balance_snapshots ORDER BY taken_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []core.BalanceSnapshot
	for rows.Next() {
		var (
			s    core.BalanceSnapshot
			asOf string
		)
		if err := rows.Scan(&s.ID, &asOf, &s.BalanceCents, &s.IncomeCents, &s.ExpenseCents, &s.TakenAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		d, err := parseDate(asOf)
		if err != nil {
			return nil, fmt.Errorf("snapshot %d: %w", s.ID, err)
		}
		s.AsOf = d
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

func requireRowAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

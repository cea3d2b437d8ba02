package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/forecast"
	"bilancio/internal/storage"
)

// fakeAPI is an in-memory BudgetAPI for handler tests.
type fakeAPI struct {
	items   []core.RecurringItem
	planned []core.PlannedExpense
	adjs    []core.Adjustment
	initial int64
	nextID  int64

	lastHorizon int
	failErr     error
}

func (f *fakeAPI) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeAPI) CreateRecurring(ctx context.Context, item core.RecurringItem) (int64, error) {
	if f.failErr != nil {
		return 0, f.failErr
	}
	item.ID = f.id()
	f.items = append(f.items, item)
	return item.ID, nil
}

func (f *fakeAPI) ListRecurring(ctx context.Context, kind core.ItemKind) ([]core.RecurringItem, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	var out []core.RecurringItem
	for _, it := range f.items {
		if kind == "" || it.Kind == kind {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetRecurring(ctx context.Context, id int64) (core.RecurringItem, error) {
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return core.RecurringItem{}, storage.ErrNotFound
}

func (f *fakeAPI) UpdateRecurring(ctx context.Context, item core.RecurringItem) error {
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = item
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeAPI) DeleteRecurring(ctx context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeAPI) CreatePlanned(ctx context.Context, pe core.PlannedExpense) (int64, error) {
	pe.ID = f.id()
	f.planned = append(f.planned, pe)
	return pe.ID, nil
}

func (f *fakeAPI) ListPlanned(ctx context.Context) ([]core.PlannedExpense, error) {
	return f.planned, nil
}

func (f *fakeAPI) UpdatePlanned(ctx context.Context, pe core.PlannedExpense) error {
	for i := range f.planned {
		if f.planned[i].ID == pe.ID {
			f.planned[i] = pe
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeAPI) DeletePlanned(ctx context.Context, id int64) error {
	for i := range f.planned {
		if f.planned[i].ID == id {
			f.planned = append(f.planned[:i], f.planned[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeAPI) SetPlannedSpent(ctx context.Context, id int64, spent bool) error {
	for i := range f.planned {
		if f.planned[i].ID == id {
			f.planned[i].Spent = spent
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeAPI) InitialBalance(ctx context.Context) (int64, error) {
	return f.initial, nil
}

func (f *fakeAPI) SetInitialBalance(ctx context.Context, cents int64) error {
	f.initial = cents
	return nil
}

func (f *fakeAPI) CreateAdjustment(ctx context.Context, a core.Adjustment) (int64, error) {
	a.ID = f.id()
	f.adjs = append(f.adjs, a)
	return a.ID, nil
}

func (f *fakeAPI) ListAdjustments(ctx context.Context) ([]core.Adjustment, error) {
	return f.adjs, nil
}

func (f *fakeAPI) base() int64 {
	total := f.initial
	for _, a := range f.adjs {
		total += a.AmountCents
	}
	return total
}

func (f *fakeAPI) Balance(ctx context.Context, ref core.Date) (forecast.BalanceResult, error) {
	if f.failErr != nil {
		return forecast.BalanceResult{}, f.failErr
	}
	return forecast.ComputeBalance(f.items, f.planned, f.base(), ref), nil
}

func (f *fakeAPI) Projection(ctx context.Context, start core.Date, horizonDays int) ([]forecast.ProjectionPoint, error) {
	f.lastHorizon = horizonDays
	return forecast.Project(f.items, f.planned, f.base(), start, horizonDays), nil
}

func (f *fakeAPI) Overview(ctx context.Context) (core.RecurringOverview, error) {
	return forecast.BuildOverview(f.items), nil
}

func (f *fakeAPI) History(ctx context.Context, limit int) ([]core.BalanceSnapshot, error) {
	return nil, nil
}

func newTestServer(api *fakeAPI) *Server {
	return NewServer(":0", api, Options{RequestsPerMinute: 10000})
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(&fakeAPI{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv := newTestServer(&fakeAPI{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
	srv.Handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options=%q, want nosniff", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options=%q, want DENY", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeAPI{})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/api/balance"},
		{http.MethodPut, "/api/projection"},
		{http.MethodPost, "/api/recurring/overview"},
		{http.MethodDelete, "/api/balance/history"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s status=%d, want 405", tc.method, tc.path, rr.Code)
		}
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	srv := NewServer(":0", &fakeAPI{}, Options{RequestsPerMinute: 2})

	// Reads are never limited
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			t.Fatalf("GET request %d was rate limited", i)
		}
	}

	// Writes hit the limit after the configured budget
	limited := false
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/adjustments", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatal("expected POST requests to be rate limited")
	}
}

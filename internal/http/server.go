package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"bilancio/internal/core"
	"bilancio/internal/forecast"
	"bilancio/internal/middleware/ratelimit"
	"bilancio/internal/middleware/security"
	"bilancio/internal/middleware/trace"
)

// BudgetAPI is the slice of the budget service the HTTP layer needs.
type BudgetAPI interface {
	CreateRecurring(ctx context.Context, item core.RecurringItem) (int64, error)
	ListRecurring(ctx context.Context, kind core.ItemKind) ([]core.RecurringItem, error)
	GetRecurring(ctx context.Context, id int64) (core.RecurringItem, error)
	UpdateRecurring(ctx context.Context, item core.RecurringItem) error
	DeleteRecurring(ctx context.Context, id int64) error

	CreatePlanned(ctx context.Context, pe core.PlannedExpense) (int64, error)
	ListPlanned(ctx context.Context) ([]core.PlannedExpense, error)
	UpdatePlanned(ctx context.Context, pe core.PlannedExpense) error
	DeletePlanned(ctx context.Context, id int64) error
	SetPlannedSpent(ctx context.Context, id int64, spent bool) error

	InitialBalance(ctx context.Context) (int64, error)
	SetInitialBalance(ctx context.Context, cents int64) error
	CreateAdjustment(ctx context.Context, a core.Adjustment) (int64, error)
	ListAdjustments(ctx context.Context) ([]core.Adjustment, error)

	Balance(ctx context.Context, ref core.Date) (forecast.BalanceResult, error)
	Projection(ctx context.Context, start core.Date, horizonDays int) ([]forecast.ProjectionPoint, error)
	Overview(ctx context.Context) (core.RecurringOverview, error)
	History(ctx context.Context, limit int) ([]core.BalanceSnapshot, error)
}

// Options tunes per-server behavior without touching the route table.
type Options struct {
	DefaultHorizonDays int
	MaxHorizonDays     int
	RequestsPerMinute  int
}

type Server struct {
	http.Server
	api BudgetAPI

	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	detector *security.Detector

	defaultHorizon int
	maxHorizon     int

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, api BudgetAPI, opts Options) *Server {
	if opts.DefaultHorizonDays <= 0 {
		opts.DefaultHorizonDays = 90
	}
	if opts.MaxHorizonDays <= 0 {
		opts.MaxHorizonDays = 366
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 60
	}

	detector := security.NewDetector()
	s := &Server{
		api:            api,
		limiter:        ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		tracer:         trace.NewMiddleware(detector.ExtractClientIP),
		detector:       detector,
		defaultHorizon: opts.DefaultHorizonDays,
		maxHorizon:     opts.MaxHorizonDays,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/incomes", s.recurringHandler(core.Income))
	mux.HandleFunc("/api/expenses", s.recurringHandler(core.Expense))
	mux.HandleFunc("/api/planned", s.handlePlanned)
	mux.HandleFunc("/api/planned/spent", s.handlePlannedSpent)
	mux.HandleFunc("/api/balance", s.handleBalance)
	mux.HandleFunc("/api/balance/initial", s.handleInitialBalance)
	mux.HandleFunc("/api/balance/history", s.handleHistory)
	mux.HandleFunc("/api/adjustments", s.handleAdjustments)
	mux.HandleFunc("/api/projection", s.handleProjection)
	mux.HandleFunc("/api/recurring/overview", s.handleOverview)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(detector.ExtractClientIP, nil)

	handler := s.detectSuspicious(limitWrites(limit, mux))
	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(headers.Middleware(handler)),
	}
	return s
}

// detectSuspicious logs requests that match known probe patterns.
// Detection never blocks, the request still reaches its handler.
func (s *Server) detectSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_ip", s.detector.ExtractClientIP(r),
			)
		}
		next.ServeHTTP(w, r)
	})
}

// limitWrites applies the rate limiter to mutating methods only, reads
// stay unthrottled.
func limitWrites(limit func(http.Handler) http.Handler, next http.Handler) http.Handler {
	limited := limit(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

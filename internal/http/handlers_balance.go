package http

import (
	"log/slog"
	"net/http"

	"bilancio/internal/core"
)

// handleBalance returns the computed balance for a reference date,
// defaulting to today.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}

	ref, ok := queryDate(r, "date")
	if !ok {
		BadRequestError("invalid date, expected YYYY-MM-DD").Write(w)
		return
	}

	res, err := s.api.Balance(r.Context(), ref)
	if err != nil {
		slog.ErrorContext(r.Context(), "Balance computation failed", "error", err, "ref", dateString(ref))
		InternalServerError("could not compute balance").Write(w)
		return
	}

	NewJSONResponse().Body(toBalanceDTO(res)).Write(w)
}

// handleInitialBalance reads or replaces the configured starting balance.
func (s *Server) handleInitialBalance(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cents, err := s.api.InitialBalance(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Read initial balance failed", "error", err)
			InternalServerError("could not read initial balance").Write(w)
			return
		}
		NewJSONResponse().Body(initialBalanceDTO{AmountCents: cents, Amount: core.FormatCents(cents)}).Write(w)

	case http.MethodPut, http.MethodPost:
		p, errResp := ParseBodyOrFail(r)
		if errResp != nil {
			errResp.Write(w)
			return
		}
		if !p.Has("amount_cents") {
			UnprocessableEntityError("missing amount_cents").Write(w)
			return
		}
		cents := p.GetInt64("amount_cents", 0)

		if err := s.api.SetInitialBalance(r.Context(), cents); err != nil {
			slog.ErrorContext(r.Context(), "Set initial balance failed", "error", err, "amount_cents", cents)
			InternalServerError("could not set initial balance").Write(w)
			return
		}
		NewJSONResponse().Body(initialBalanceDTO{AmountCents: cents, Amount: core.FormatCents(cents)}).Write(w)

	default:
		MethodNotAllowedError("GET, PUT, POST").Write(w)
	}
}

// handleAdjustments lists or records manual balance corrections.
// Amounts are signed cents, negative for money that left unnoticed.
func (s *Server) handleAdjustments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.api.ListAdjustments(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List adjustments failed", "error", err)
			InternalServerError("could not load adjustments").Write(w)
			return
		}
		NewJSONResponse().Body(toAdjustmentDTOs(list)).Write(w)

	case http.MethodPost:
		p, errResp := ParseBodyOrFail(r)
		if errResp != nil {
			errResp.Write(w)
			return
		}

		adj := core.Adjustment{
			AmountCents: p.GetInt64("amount_cents", 0),
			Description: p.Get("description"),
			Reason:      p.Get("reason"),
		}
		if err := adj.Validate(); err != nil {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}

		id, err := s.api.CreateAdjustment(r.Context(), adj)
		if err != nil {
			slog.ErrorContext(r.Context(), "Create adjustment failed", "error", err)
			InternalServerError("could not save adjustment").Write(w)
			return
		}
		NewJSONResponse().Status(http.StatusCreated).Body(createdDTO{ID: id}).Write(w)

	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// handleHistory returns recorded balance snapshots, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}

	limit, ok := queryInt(r, "limit", 0)
	if !ok || limit < 0 {
		BadRequestError("invalid limit").Write(w)
		return
	}

	list, err := s.api.History(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "List balance history failed", "error", err)
		InternalServerError("could not load history").Write(w)
		return
	}

	NewJSONResponse().Body(toSnapshotDTOs(list)).Write(w)
}

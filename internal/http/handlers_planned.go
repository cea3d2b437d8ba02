package http

import (
	"errors"
	"log/slog"
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

func (s *Server) handlePlanned(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPlanned(w, r)
	case http.MethodPost:
		s.createPlanned(w, r)
	case http.MethodPut:
		s.updatePlanned(w, r)
	case http.MethodDelete:
		s.deletePlanned(w, r)
	default:
		MethodNotAllowedError("GET, POST, PUT, DELETE").Write(w)
	}
}

func (s *Server) listPlanned(w http.ResponseWriter, r *http.Request) {
	list, err := s.api.ListPlanned(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List planned expenses failed", "error", err)
		InternalServerError("could not load planned expenses").Write(w)
		return
	}
	NewJSONResponse().Body(toPlannedDTOs(list)).Write(w)
}

func parsePlannedExpense(p *RequestBodyParser) (core.PlannedExpense, *JSONResponseBuilder) {
	cents, err := core.ParseDecimalToCents(p.Get("amount"))
	if err != nil {
		return core.PlannedExpense{}, UnprocessableEntityError("invalid amount")
	}

	date, err := parseDate(p.Get("date"))
	if err != nil {
		return core.PlannedExpense{}, UnprocessableEntityError("invalid date")
	}

	pe := core.PlannedExpense{
		Label:  p.Get("label"),
		Amount: core.Money{Cents: cents},
		Date:   date,
		Spent:  p.GetBool("spent", false),
	}
	if err := pe.Validate(); err != nil {
		return core.PlannedExpense{}, UnprocessableEntityError(err.Error())
	}
	return pe, nil
}

func (s *Server) createPlanned(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	pe, errResp := parsePlannedExpense(p)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	id, err := s.api.CreatePlanned(r.Context(), pe)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create planned expense failed", "error", err, "label", pe.Label)
		InternalServerError("could not save planned expense").Write(w)
		return
	}

	NewJSONResponse().Status(http.StatusCreated).Body(createdDTO{ID: id}).Write(w)
}

func (s *Server) updatePlanned(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		BadRequestError("missing or invalid id").Write(w)
		return
	}

	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	pe, errResp := parsePlannedExpense(p)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	pe.ID = id

	if err := s.api.UpdatePlanned(r.Context(), pe); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("planned expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Update planned expense failed", "error", err, "id", id)
		InternalServerError("could not update planned expense").Write(w)
		return
	}

	NewJSONResponse().Body(toPlannedDTO(pe)).Write(w)
}

func (s *Server) deletePlanned(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		BadRequestError("missing or invalid id").Write(w)
		return
	}

	if err := s.api.DeletePlanned(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("planned expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Delete planned expense failed", "error", err, "id", id)
		InternalServerError("could not delete planned expense").Write(w)
		return
	}

	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handlePlannedSpent toggles the spent flag on a planned expense.
func (s *Server) handlePlannedSpent(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodPost, http.MethodPut); errResp != nil {
		errResp.Write(w)
		return
	}

	id, ok := queryID(r)
	if !ok {
		BadRequestError("missing or invalid id").Write(w)
		return
	}

	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	spent := p.GetBool("spent", true)

	if err := s.api.SetPlannedSpent(r.Context(), id, spent); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("planned expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Set planned spent failed", "error", err, "id", id, "spent", spent)
		InternalServerError("could not update planned expense").Write(w)
		return
	}

	NewJSONResponse().Body(map[string]any{"id": id, "spent": spent}).Write(w)
}

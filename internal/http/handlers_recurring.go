package http

import (
	"errors"
	"log/slog"
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// recurringHandler serves one kind of recurring item. Incomes and
// expenses share the same shape, only the kind differs.
func (s *Server) recurringHandler(kind core.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("id") != "" {
				s.getRecurring(w, r, kind)
			} else {
				s.listRecurring(w, r, kind)
			}
		case http.MethodPost:
			s.createRecurring(w, r, kind)
		case http.MethodPut:
			s.updateRecurring(w, r, kind)
		case http.MethodDelete:
			s.deleteRecurring(w, r)
		default:
			MethodNotAllowedError("GET, POST, PUT, DELETE").Write(w)
		}
	}
}

func (s *Server) listRecurring(w http.ResponseWriter, r *http.Request, kind core.ItemKind) {
	items, err := s.api.ListRecurring(r.Context(), kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "List recurring items failed", "error", err, "kind", kind)
		InternalServerError("could not load items").Write(w)
		return
	}
	NewJSONResponse().Body(toRecurringDTOs(items)).Write(w)
}

// getRecurring serves a single item. Items of the other kind live on
// their own route and report not found here.
func (s *Server) getRecurring(w http.ResponseWriter, r *http.Request, kind core.ItemKind) {
	id, ok := queryID(r)
	if !ok {
		BadRequestError("missing or invalid id").Write(w)
		return
	}

	item, err := s.api.GetRecurring(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("item not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Get recurring item failed", "error", err, "id", id)
		InternalServerError("could not load item").Write(w)
		return
	}
	if item.Kind != kind {
		NotFoundError("item not found").Write(w)
		return
	}

	NewJSONResponse().Body(toRecurringDTO(item)).Write(w)
}

// parseRecurringItem builds a RecurringItem from a request body. The
// amount travels as a decimal string, months as a comma-separated set.
func parseRecurringItem(p *RequestBodyParser, kind core.ItemKind) (core.RecurringItem, *JSONResponseBuilder) {
	cents, err := core.ParseDecimalToCents(p.Get("amount"))
	if err != nil {
		return core.RecurringItem{}, UnprocessableEntityError("invalid amount")
	}

	months, err := core.ParseMonthSet(p.Get("months"))
	if err != nil {
		return core.RecurringItem{}, UnprocessableEntityError("invalid months")
	}

	item := core.RecurringItem{
		Kind:       kind,
		Label:      p.Get("label"),
		Category:   p.Get("category"),
		Amount:     core.Money{Cents: cents},
		DayOfMonth: p.GetInt("day_of_month", 0),
		Frequency:  core.Frequency(p.Get("frequency")),
		Months:     months,
	}

	if v := p.Get("one_time_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return core.RecurringItem{}, UnprocessableEntityError("invalid one_time_date")
		}
		item.OneTimeDate = d
	}

	if err := item.Validate(); err != nil {
		return core.RecurringItem{}, UnprocessableEntityError(err.Error())
	}
	return item, nil
}

func (s *Server) createRecurring(w http.ResponseWriter, r *http.Request, kind core.ItemKind) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	item, errResp := parseRecurringItem(p, kind)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	id, err := s.api.CreateRecurring(r.Context(), item)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create recurring item failed", "error", err, "label", item.Label)
		InternalServerError("could not save item").Write(w)
		return
	}

	NewJSONResponse().Status(http.StatusCreated).Body(createdDTO{ID: id}).Write(w)
}

func (s *Server) updateRecurring(w http.ResponseWriter, r *http.Request, kind core.ItemKind) {
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

	item, errResp := parseRecurringItem(p, kind)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	item.ID = id

	if err := s.api.UpdateRecurring(r.Context(), item); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("item not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Update recurring item failed", "error", err, "id", id)
		InternalServerError("could not update item").Write(w)
		return
	}

	NewJSONResponse().Body(toRecurringDTO(item)).Write(w)
}

func (s *Server) deleteRecurring(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		BadRequestError("missing or invalid id").Write(w)
		return
	}

	if err := s.api.DeleteRecurring(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("item not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Delete recurring item failed", "error", err, "id", id)
		InternalServerError("could not delete item").Write(w)
		return
	}

	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

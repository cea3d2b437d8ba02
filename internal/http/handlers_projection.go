package http

import (
	"log/slog"
	"net/http"
)

// handleProjection returns the day-by-day forward projection. The
// horizon is clamped to the configured maximum; day 0 always equals
// the current balance for the same date.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}

	start, ok := queryDate(r, "date")
	if !ok {
		BadRequestError("invalid date, expected YYYY-MM-DD").Write(w)
		return
	}

	days, ok := queryInt(r, "days", s.defaultHorizon)
	if !ok || days <= 0 {
		BadRequestError("invalid days").Write(w)
		return
	}
	if days > s.maxHorizon {
		days = s.maxHorizon
	}

	points, err := s.api.Projection(r.Context(), start, days)
	if err != nil {
		slog.ErrorContext(r.Context(), "Projection failed", "error", err, "start", dateString(start), "days", days)
		InternalServerError("could not compute projection").Write(w)
		return
	}

	NewJSONResponse().Body(toProjectionDTOs(points)).Write(w)
}

// handleOverview returns the monthly-equivalent summary of recurring
// items, split by kind and category.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}

	ov, err := s.api.Overview(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Recurring overview failed", "error", err)
		InternalServerError("could not compute overview").Write(w)
		return
	}

	NewJSONResponse().Body(toOverviewDTO(ov)).Write(w)
}

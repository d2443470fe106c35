package competitionhandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	competitionservice "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/application"
	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	"github.com/Black-And-White-Club/golf-club-portal/app/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	// MaxDashboardLimit caps the "limit" query parameter of the dashboard.
	MaxDashboardLimit = 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// HandleHTTPScorecard serves the computed scorecard of a competition as JSON.
func (h *CompetitionHandlers) HandleHTTPScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompetitionHandlers.HandleHTTPScorecard")
	defer span.End()
	r = r.WithContext(observability.WithCorrelationID(ctx, middleware.GetReqID(ctx)))

	competitionID, ok := h.competitionID(w, r)
	if !ok {
		return
	}

	card, err := h.service.GetScorecard(r.Context(), competitionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, newScorecardResponse(card))
}

// HandleHTTPStandingsChart serves the standings chart of a competition as PNG.
func (h *CompetitionHandlers) HandleHTTPStandingsChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompetitionHandlers.HandleHTTPStandingsChart")
	defer span.End()
	r = r.WithContext(observability.WithCorrelationID(ctx, middleware.GetReqID(ctx)))

	competitionID, ok := h.competitionID(w, r)
	if !ok {
		return
	}

	png, err := h.service.RenderStandingsChart(r.Context(), competitionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}

// HandleHTTPScorecardExport serves the scorecard as an XLSX download.
func (h *CompetitionHandlers) HandleHTTPScorecardExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompetitionHandlers.HandleHTTPScorecardExport")
	defer span.End()
	r = r.WithContext(observability.WithCorrelationID(ctx, middleware.GetReqID(ctx)))

	competitionID, ok := h.competitionID(w, r)
	if !ok {
		return
	}

	workbook, err := h.service.ExportScorecard(r.Context(), competitionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="scorecard-%s.xlsx"`, competitionID))
	_, _ = w.Write(workbook)
}

// HandleHTTPDashboard serves the summaries of the latest finished competitions.
//
// Query parameters: limit (1..MaxDashboardLimit) and as_of, which accepts an
// RFC3339 timestamp, a date or a phrase such as "yesterday".
func (h *CompetitionHandlers) HandleHTTPDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompetitionHandlers.HandleHTTPDashboard")
	defer span.End()
	ctx = observability.WithCorrelationID(ctx, middleware.GetReqID(ctx))

	limit := h.defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxDashboardLimit {
			http.Error(w, fmt.Sprintf("limit must be between 1 and %d", MaxDashboardLimit), http.StatusBadRequest)
			return
		}
		limit = n
	}

	asOf, err := h.asOf.Parse(r.URL.Query().Get("as_of"), h.now())
	if err != nil {
		http.Error(w, "invalid as_of", http.StatusBadRequest)
		return
	}

	summaries, err := h.service.GetDashboardResults(ctx, asOf, limit)
	if err != nil {
		h.writeError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, summaries)
}

func (h *CompetitionHandlers) competitionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		http.Error(w, "invalid competition id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *CompetitionHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, competitionservice.ErrCompetitionNotFound):
		http.Error(w, "competition not found", http.StatusNotFound)
	case errors.Is(err, competitionservice.ErrNoScores), errors.Is(err, competitiondomain.ErrNoEntries):
		http.Error(w, "competition has no scores", http.StatusNotFound)
	default:
		h.logger.ErrorContext(ctx, "Request failed",
			slog.String("path", r.URL.Path),
			observability.CorrelationAttr(ctx),
			observability.ErrorAttr(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

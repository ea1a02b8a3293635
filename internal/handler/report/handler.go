package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maumlog/maum/backend/internal/analysis/filter"
	"github.com/maumlog/maum/backend/internal/analysis/report"
	"github.com/maumlog/maum/backend/internal/middleware"
	modelchat "github.com/maumlog/maum/backend/internal/model/chat"
	"github.com/maumlog/maum/backend/pkg/utils"
)

const recentInsightCount = 5

// Handler serves the aggregate emotion report over a user's stored
// sessions. Every endpoint honors the same filter parameters as the
// history listing.
type Handler struct {
	catalogSize int
}

func New(catalogSize int) *Handler {
	return &Handler{catalogSize: catalogSize}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/report/distribution", h.handleDistribution)
	r.Get("/report/histogram", h.handleHistogram)
	r.Get("/report/bands", h.handleBands)
	r.Get("/report/insights", h.handleInsights)
}

func (h *Handler) handleDistribution(w http.ResponseWriter, r *http.Request) {
	sessions, ok := h.filteredSessions(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, report.Distribute(sessions))
}

func (h *Handler) handleHistogram(w http.ResponseWriter, r *http.Request) {
	sessions, ok := h.filteredSessions(w, r)
	if !ok {
		return
	}

	period := report.PeriodWeek
	switch r.URL.Query().Get("period") {
	case "", "week":
	case "month":
		period = report.PeriodMonth
	default:
		utils.RespondError(w, http.StatusBadRequest, "period must be week or month")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"period":  period,
		"buckets": report.Histogram(sessions, period),
	})
}

func (h *Handler) handleBands(w http.ResponseWriter, r *http.Request) {
	sessions, ok := h.filteredSessions(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"bands":    report.Bands(),
		"crosstab": report.BandCrosstab(sessions),
	})
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	sessions, ok := h.filteredSessions(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, report.Summarize(sessions, recentInsightCount, h.catalogSize))
}

func (h *Handler) filteredSessions(w http.ResponseWriter, r *http.Request) ([]modelchat.Session, bool) {
	acct, ok := middleware.AccountFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	criteria, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return filter.Apply(acct.ListSessions(r.Context()), criteria), true
}

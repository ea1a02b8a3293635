package history

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maumlog/maum/backend/internal/analysis/filter"
	"github.com/maumlog/maum/backend/internal/middleware"
	modelchat "github.com/maumlog/maum/backend/internal/model/chat"
	"github.com/maumlog/maum/backend/internal/service/registry"
	"github.com/maumlog/maum/backend/pkg/utils"
)

// Handler serves the stored session history: listing with filters, single
// session detail, resumption and deletion.
type Handler struct{}

func New() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions", h.handleListSessions)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Post("/sessions/{sessionID}/resume", h.handleResumeSession)
	r.Delete("/sessions/{sessionID}", h.handleDeleteSession)
}

// summary is the list-view shape: no message bodies, just enough to render
// a history row.
type summary struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Emotion      string    `json:"emotion,omitempty"`
	Preview      string    `json:"preview"`
	MessageCount int       `json:"messageCount"`
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	criteria, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessions := filter.Apply(acct.ListSessions(r.Context()), criteria)
	filter.SortByDateDesc(sessions)

	out := make([]summary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, summary{
			ID:           s.ID,
			Date:         s.Date,
			Emotion:      s.Emotion,
			Preview:      s.Preview,
			MessageCount: len(s.VisibleMessages()),
		})
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessions": out,
		"total":    len(out),
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	session, err := acct.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if errors.Is(err, registry.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, detail(session))
}

func (h *Handler) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	view, err := acct.ResumeSession(r.Context(), chi.URLParam(r, "sessionID"))
	if errors.Is(err, registry.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		log.Printf("[history] resume failed user=%s: %v", acct.Username, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to resume session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := acct.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		log.Printf("[history] delete failed user=%s: %v", acct.Username, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}

	// Deleting an absent session is a success: the end state is the same.
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func detail(s modelchat.Session) map[string]any {
	return map[string]any{
		"id":       s.ID,
		"date":     s.Date,
		"emotion":  s.Emotion,
		"preview":  s.Preview,
		"messages": s.VisibleMessages(),
	}
}

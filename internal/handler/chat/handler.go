package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maumlog/maum/backend/internal/middleware"
	chatService "github.com/maumlog/maum/backend/internal/service/chat"
	"github.com/maumlog/maum/backend/pkg/utils"
)

// Handler drives the live conversation for the authenticated account.
type Handler struct{}

func New() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/start", h.handleStart)
	r.Post("/chat/messages", h.handleSendMessage)
	r.Post("/chat/end", h.handleEnd)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		Emotion string `json:"emotion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	greeting, sessionID, err := acct.StartConversation(r.Context(), payload.Emotion)
	switch {
	case errors.Is(err, chatService.ErrUnknownEmotion):
		utils.RespondError(w, http.StatusBadRequest, "unknown emotion")
		return
	case err != nil:
		log.Printf("[chat] start failed user=%s: %v", acct.Username, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to start conversation")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"sessionId": sessionID,
		"greeting":  greeting,
	})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, view, err := acct.SendMessage(r.Context(), payload.Message)
	switch {
	case errors.Is(err, chatService.ErrNoActiveSession):
		utils.RespondError(w, http.StatusConflict, "no active conversation")
		return
	case errors.Is(err, chatService.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	case errors.Is(err, chatService.ErrReplierUnavailable):
		utils.RespondError(w, http.StatusServiceUnavailable, "counselor is unavailable")
		return
	case err != nil:
		log.Printf("[chat] send failed user=%s: %v", acct.Username, err)
		utils.RespondError(w, http.StatusBadGateway, "failed to generate a reply")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reply":        reply,
		"conversation": view,
	})
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := acct.EndConversation(r.Context()); err != nil {
		log.Printf("[chat] end failed user=%s: %v", acct.Username, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to save conversation")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

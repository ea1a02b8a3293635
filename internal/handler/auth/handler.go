package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maumlog/maum/backend/internal/service/account"
	authService "github.com/maumlog/maum/backend/internal/service/auth"
	"github.com/maumlog/maum/backend/pkg/utils"
)

// Handler serves registration, login and logout.
type Handler struct {
	authSvc  *authService.Service
	accounts *account.Manager
}

func New(authSvc *authService.Service, accounts *account.Manager) *Handler {
	return &Handler{authSvc: authSvc, accounts: accounts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.authSvc.Register(payload.Username, payload.Name, payload.Email, payload.Password)
	switch {
	case errors.Is(err, authService.ErrUserExists):
		utils.RespondError(w, http.StatusConflict, "username already taken")
		return
	case errors.Is(err, authService.ErrInvalidInput):
		utils.RespondError(w, http.StatusBadRequest, "username and password are required")
		return
	case err != nil:
		log.Printf("[auth] register failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, name, err := h.authSvc.Login(payload.Username, payload.Password)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if _, err := h.accounts.Attach(r.Context(), payload.Username); err != nil {
		h.authSvc.Logout(token)
		log.Printf("[auth] attach failed user=%s: %v", payload.Username, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load account")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"username": payload.Username,
		"name":     name,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)
	if token == "" {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	username, ok := h.authSvc.Verify(token)
	h.authSvc.Logout(token)
	if ok {
		if err := h.accounts.Detach(r.Context(), username); err != nil {
			// The token is revoked either way; report that the final
			// commit did not land.
			utils.RespondError(w, http.StatusInternalServerError, "logout saved with errors")
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func tokenFromRequest(r *http.Request) string {
	if token := r.Header.Get("X-Auth-Token"); token != "" {
		return token
	}
	const prefix = "Bearer "
	if header := r.Header.Get("Authorization"); len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

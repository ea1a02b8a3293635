package emotion

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maumlog/maum/backend/internal/model/emotion"
	"github.com/maumlog/maum/backend/pkg/utils"
)

// Handler serves the emotion catalog.
type Handler struct {
	catalog *emotion.Catalog
}

func New(catalog *emotion.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/emotions", h.handleListEmotions)
}

func (h *Handler) handleListEmotions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.List())
}

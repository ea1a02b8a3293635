package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authHandler "github.com/maumlog/maum/backend/internal/handler/auth"
	chatHandler "github.com/maumlog/maum/backend/internal/handler/chat"
	emotionHandler "github.com/maumlog/maum/backend/internal/handler/emotion"
	historyHandler "github.com/maumlog/maum/backend/internal/handler/history"
	reportHandler "github.com/maumlog/maum/backend/internal/handler/report"
	middlewarePkg "github.com/maumlog/maum/backend/internal/middleware"
	emotionModel "github.com/maumlog/maum/backend/internal/model/emotion"
	"github.com/maumlog/maum/backend/internal/service/account"
	authService "github.com/maumlog/maum/backend/internal/service/auth"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(authSvc *authService.Service, accounts *account.Manager, catalog *emotionModel.Catalog) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		authHandler.New(authSvc, accounts).RegisterRoutes(api)
		emotionHandler.New(catalog).RegisterRoutes(api)

		// Everything below acts on the caller's own account.
		api.Group(func(private chi.Router) {
			private.Use(middlewarePkg.RequireAccount(authSvc, accounts))

			chatHandler.New().RegisterRoutes(private)
			historyHandler.New().RegisterRoutes(private)
			reportHandler.New(catalog.Size()).RegisterRoutes(private)
		})
	})

	return r
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidbz/skill4green/internal/http/middleware"
)

// NewRouter registers every route behind the middleware chain.
func NewRouter(handler *Handler, middlewares middleware.Middleware) http.Handler {
	r := chi.NewRouter()

	if middlewares != nil {
		r.Use(middlewares)
	}

	r.Get("/health", handler.HandleHealth)

	r.Route("/ai", func(r chi.Router) {
		r.Post("/recommendations", handler.HandleRecommendations)
		r.Post("/recommendations/refresh", handler.HandleRefreshRecommendations)
		r.Post("/motivation", handler.HandleMotivation)
	})

	r.Route("/cv", func(r chi.Router) {
		r.Post("/compare", handler.HandleCompare)
		r.Post("/verify", handler.HandleVerify)
	})

	return r
}

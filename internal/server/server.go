// Package server assembles the HTTP API: routing, middleware, and the
// JSON handlers for the group endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tsoares/amigo-secreto/internal/auth"
	"github.com/tsoares/amigo-secreto/internal/metrics"
	"github.com/tsoares/amigo-secreto/internal/middleware"
	"github.com/tsoares/amigo-secreto/internal/service"
)

// New builds the router. Group pages are public to anyone holding the group
// link; draw and delete additionally require the creator's admin token.
func New(svc *service.GroupService, jwtManager *auth.JWTManager) http.Handler {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/groups", func(r chi.Router) {
		r.Post("/", h.CreateGroup)

		r.Route("/{groupID}", func(r chi.Router) {
			r.Get("/", h.GetGroup)
			r.Post("/confirm", h.Confirm)
			r.Post("/reveal", h.Reveal)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireGroupAdmin(jwtManager))
				r.Post("/draw", h.Draw)
				r.Delete("/", h.DeleteGroup)
			})
		})
	})

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/password-reset", s.passwordReset)

			r.Group(func(r chi.Router) {
				r.Use(s.authenticate(true))
				r.Get("/me", s.me)
				r.Put("/me", s.updateMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate(s.cfg.RequireAuth))

			r.Route("/entities/{entity}", func(r chi.Router) {
				r.Get("/", s.listEntities)
				r.Post("/", s.createEntity)
				r.Get("/{id}", s.getEntity)
				r.Put("/{id}", s.updateEntity)
				r.Delete("/{id}", s.deleteEntity)
			})

			r.Post("/files/upload", s.uploadFile)
			r.Get("/files/{id}", s.downloadFile)
		})
	})

	return r
}

// Package server sets up the HTTP server and registers API routes for go-stamppdf.
//
// RegisterRoutes returns an http.Handler with the health probe and the stamping endpoints.
//
// Expected outputs:
// - Stamping endpoints are available under /pdf
// - CORS, logging and panic recovery middleware are enabled
package server

import (
	"net"
	"net/http"

	_ "go-stamppdf/docs"
	"go-stamppdf/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Only allow requests from localhost to /swagger/*
func localhostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, _ := net.SplitHostPort(r.RemoteAddr)
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) RegisterRoutes() http.Handler {
	origins := s.Origins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))
	r.With(localhostOnly).Get("/swagger/*", httpSwagger.WrapHandler)

	h := handlers.NewAPIHandler(s.Store, s.Retention, s.MaxUploadSize)
	r.Get("/", h.Health)
	r.Get("/health", h.Health)
	r.Route("/pdf", func(api chi.Router) {
		api.Post("/stamp", h.StampPDF)
		api.Post("/stamp/multi", h.StampPDFMulti)
	})

	return r
}

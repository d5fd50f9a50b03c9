// Package api serves the bookshelf HTTP API.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ademuri/bookshelf-tools/internal/auth"
	"github.com/ademuri/bookshelf-tools/internal/recommend"
	"github.com/ademuri/bookshelf-tools/internal/store"
)

// Server holds the API's dependencies.
type Server struct {
	store    *store.Store
	jwt      *auth.JWTManager
	logger   zerolog.Logger
	validate *validator.Validate
	cfg      recommend.Config
}

func NewServer(st *store.Store, jwt *auth.JWTManager, logger zerolog.Logger) *Server {
	return &Server{
		store:    st,
		jwt:      jwt,
		logger:   logger.With().Str("component", "api").Logger(),
		validate: validator.New(),
		cfg:      recommend.DefaultConfig(),
	}
}

// Routes builds the router. Everything under /api/v1 except user registration
// and login requires a bearer token.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/comfort-levels", s.handleComfortLevels)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/users/me", s.handleMe)

			r.Get("/readings", s.handleListReadings)
			r.Post("/readings", s.handleSetReading)

			r.Get("/preferences", s.handleGetPreferences)
			r.Put("/preferences", s.handleSetPreferences)

			r.Get("/profile", s.handleProfile)

			r.Get("/recommendations", s.handleRecommendations)
			r.Get("/recommendations/compare", s.handleCompare)

			r.Get("/books", s.handleListBooks)
			r.Post("/books", s.handleCreateBook)
			r.Get("/books/{id}", s.handleGetBook)
			r.Get("/books/{id}/similar", s.handleSimilar)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

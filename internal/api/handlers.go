package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ademuri/bookshelf-tools/internal/auth"
	"github.com/ademuri/bookshelf-tools/internal/recommend"
	"github.com/ademuri/bookshelf-tools/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps engine and store errors to HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, recommend.ErrInvalidComfortLevel),
		errors.Is(err, recommend.ErrInvalidFilter):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode unmarshals and validates a JSON request body.
func (s *Server) decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return s.validate.Struct(v)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if _, err := s.store.GetUserByEmail(req.Email); err == nil {
		respondError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("hashing password")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	id, err := s.store.CreateUser(req.Email, req.Name, hash)
	if err != nil {
		s.logger.Error().Err(err).Msg("creating user")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    id,
		"email": req.Email,
		"name":  req.Name,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := s.store.GetUserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("generating token")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(userID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

func (s *Server) handleComfortLevels(w http.ResponseWriter, r *http.Request) {
	levels := recommend.Levels()
	out := make([]map[string]interface{}, len(levels))
	for i, level := range levels {
		weights, err := recommend.WeightsFor(level)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		out[i] = map[string]interface{}{
			"name": level,
			"weights": map[string]float64{
				"genre":      weights.Genre,
				"author":     weights.Author,
				"rating":     weights.Rating,
				"page_count": weights.PageCount,
			},
			"familiarity": weights.Familiarity,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

type readingRequest struct {
	BookID int64    `json:"book_id" validate:"required"`
	Status string   `json:"status" validate:"required,oneof=want_to_read reading completed abandoned"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Review string   `json:"review"`
}

func (s *Server) handleSetReading(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	err := s.store.SetReading(userID(r), req.BookID, recommend.ReadingStatus(req.Status), req.Rating, req.Review)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	readings, err := s.store.GetReadings(userID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]interface{}, len(readings))
	for i, rd := range readings {
		entry := map[string]interface{}{
			"book":   rd.Book,
			"status": rd.Status,
			"review": rd.Review,
		}
		if rd.HasRating {
			entry["rating"] = rd.Rating
		}
		out[i] = entry
	}
	respondJSON(w, http.StatusOK, out)
}

type preferencesRequest struct {
	Genres  []string `json:"genres"`
	Authors []string `json:"authors"`
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	prefs := recommend.Preferences{Genres: req.Genres, Authors: req.Authors}
	if err := s.store.SetPreferences(userID(r), prefs); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.store.GetPreferences(userID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.buildProfile(userID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) buildProfile(uid int64) (recommend.TasteProfile, error) {
	history, err := s.store.GetHistory(uid)
	if err != nil {
		return recommend.TasteProfile{}, err
	}
	prefs, err := s.store.GetPreferences(uid)
	if err != nil {
		return recommend.TasteProfile{}, err
	}
	return recommend.BuildProfile(history, prefs, s.cfg), nil
}

// parseRequest reads comfort level, filters, and limit from query parameters.
func parseRequest(r *http.Request) (recommend.Request, error) {
	req := recommend.Request{
		Comfort: recommend.ComfortLevel(r.URL.Query().Get("comfort_level")),
		Filters: recommend.Filters{
			Genre:  r.URL.Query().Get("genre"),
			Author: r.URL.Query().Get("author"),
		},
	}

	query := r.URL.Query()
	if v := query.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, err
		}
		req.Filters.MinRating = f
	}
	if v := query.Get("min_pages"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, err
		}
		req.Filters.MinPages = n
	}
	if v := query.Get("max_pages"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, err
		}
		req.Filters.MaxPages = n
	}
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, err
		}
		req.Limit = n
	}
	return req, nil
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r)
	profile, err := s.buildProfile(uid)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	pool, err := s.store.GetCandidateBooks(uid)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	recs, err := recommend.Recommend(r.Context(), pool, profile, req, s.cfg)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"comfort_level":   req.Comfort,
		"recommendations": recs,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r)
	profile, err := s.buildProfile(uid)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	pool, err := s.store.GetCandidateBooks(uid)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	results, err := recommend.CompareAllLevels(r.Context(), pool, profile, req, s.cfg)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, books)
}

type createBookRequest struct {
	Title           string   `json:"title" validate:"required"`
	ISBN            string   `json:"isbn"`
	PublicationYear int      `json:"publication_year"`
	Description     string   `json:"description"`
	PageCount       int      `json:"page_count" validate:"gte=0"`
	AverageRating   float64  `json:"average_rating" validate:"gte=0,lte=5"`
	RatingsCount    int      `json:"ratings_count" validate:"gte=0"`
	Language        string   `json:"language"`
	Publisher       string   `json:"publisher"`
	Authors         []string `json:"authors"`
	Genres          []string `json:"genres"`
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	err := s.store.AddBooks([]store.BookImport{{
		Title:           req.Title,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		PageCount:       req.PageCount,
		AverageRating:   req.AverageRating,
		RatingsCount:    req.RatingsCount,
		Language:        req.Language,
		Publisher:       req.Publisher,
		Authors:         req.Authors,
		Genres:          req.Genres,
	}})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	book, err := s.store.FindBookByTitle(req.Title)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, book)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	book, err := s.store.GetBook(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	req, err := parseRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r)
	base, err := s.store.GetBook(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	profile, err := s.buildProfile(uid)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	pool, err := s.store.GetCandidateBooks(uid)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	recs, err := recommend.SimilarTo(r.Context(), pool, base, profile, req, s.cfg)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"base":            base,
		"comfort_level":   req.Comfort,
		"recommendations": recs,
	})
}

// validationMessage flattens validator errors for API responses.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid field: " + verrs[0].Field()
	}
	return err.Error()
}

package server

import (
	"net/http"

	"github.com/gameversehub/gameverse/internal/trivia"
)

// handleTriviaQuestions fetches a processed question batch.
// GET /api/trivia/questions?count=&category=&difficulty=&type=
func (s *Server) handleTriviaQuestions(w http.ResponseWriter, r *http.Request) {
	filter := trivia.QuestionFilter{
		Count:      parseIntParam(r, "count", 10),
		Category:   parseIntParam(r, "category", 0),
		Difficulty: r.URL.Query().Get("difficulty"),
		Type:       r.URL.Query().Get("type"),
	}

	questions, err := s.trivia.Questions(r.Context(), filter)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, questions)
}

// handleTriviaCategories lists the provider's categories.
// GET /api/trivia/categories
func (s *Server) handleTriviaCategories(w http.ResponseWriter, r *http.Request) {
	var cached []trivia.Category
	if s.cache.get(r.Context(), "lookup:trivia-categories", &cached) {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	cats, err := s.trivia.Categories(r.Context())
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	s.cache.set(r.Context(), "lookup:trivia-categories", cats)
	respondJSON(w, http.StatusOK, cats)
}

// handleTriviaToken requests a session token from the provider.
// GET /api/trivia/token
func (s *Server) handleTriviaToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.trivia.SessionToken(r.Context())
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

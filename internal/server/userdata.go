package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gameversehub/gameverse/internal/store"
)

// handleListFavorites lists the user's saved games.
// GET /api/users/favorites
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.users.Favorites(r.Context(), userID(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load favorites")
		return
	}
	respondJSON(w, http.StatusOK, favorites)
}

// handleAddFavorite saves a game for the user.
// POST /api/users/favorites
func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var f store.Favorite
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if f.GameID <= 0 || strings.TrimSpace(f.Name) == "" {
		respondError(w, http.StatusBadRequest, "id and name are required")
		return
	}

	if err := s.users.AddFavorite(r.Context(), userID(r), f); err != nil {
		if errors.Is(err, store.ErrExists) {
			respondError(w, http.StatusConflict, "game already in favorites")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save favorite")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// handleRemoveFavorite deletes a saved game.
// DELETE /api/users/favorites/{id}
func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || gameID <= 0 {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	if err := s.users.RemoveFavorite(r.Context(), userID(r), gameID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "game not in favorites")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to remove favorite")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleListSearches lists the user's recent catalog searches.
// GET /api/users/searches
func (s *Server) handleListSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := s.users.Searches(r.Context(), userID(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load search history")
		return
	}
	respondJSON(w, http.StatusOK, searches)
}

// handleAddSearch records a catalog search.
// POST /api/users/searches
func (s *Server) handleAddSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Term = strings.TrimSpace(body.Term)
	if body.Term == "" {
		respondError(w, http.StatusBadRequest, "term is required")
		return
	}

	if err := s.users.AddSearch(r.Context(), userID(r), body.Term); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record search")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// handleListQuizzes lists the user's quiz history.
// GET /api/users/quizzes
func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	results, err := s.users.QuizResults(r.Context(), userID(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load quiz history")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// handleAddQuiz records a completed trivia round.
// POST /api/users/quizzes
func (s *Server) handleAddQuiz(w http.ResponseWriter, r *http.Request) {
	var result store.QuizResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if result.Total <= 0 || result.Correct < 0 || result.Correct > result.Total {
		respondError(w, http.StatusBadRequest, "correct must be between 0 and total")
		return
	}

	if err := s.users.AddQuizResult(r.Context(), userID(r), result); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record quiz result")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

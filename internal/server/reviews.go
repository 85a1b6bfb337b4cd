package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gameversehub/gameverse/internal/logging"
)

// handleSubmitReview accepts a game review, logs it, and acknowledges.
// There is intentionally no durable review store.
// POST /api/reviews
func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GameID int64  `json:"gameId"`
		UserID string `json:"userId"`
		Review string `json:"review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.GameID <= 0 || body.UserID == "" || strings.TrimSpace(body.Review) == "" {
		respondError(w, http.StatusBadRequest, "gameId, userId and review are required")
		return
	}

	logging.Info("review received",
		"game_id", body.GameID,
		"user_id", body.UserID,
		"length", len(body.Review),
	)

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

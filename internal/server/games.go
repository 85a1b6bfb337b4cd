package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gameversehub/gameverse/internal/igdb"
)

// handleSearchGames searches the catalog.
// GET /api/games?query=&limit=&offset=
func (s *Server) handleSearchGames(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("query")
	if term == "" {
		// The original SPA sends "q" from the search box.
		term = r.URL.Query().Get("q")
	}

	q := igdb.SearchQuery{
		Term:   term,
		Limit:  parseIntParam(r, "limit", 20),
		Offset: parseIntParam(r, "offset", 0),
	}

	games, err := s.games.Search(r.Context(), q)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, games)
}

// handleGameByID fetches one game with the expanded field set.
// GET /api/games/{id}
func (s *Server) handleGameByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	game, err := s.games.GetByID(r.Context(), id)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if game == nil {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// handleGenres lists the genre lookup, served from the cache when warm.
// GET /api/genres
func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	s.handleLookup(w, r, "lookup:genres", s.games.Genres)
}

// handlePlatforms lists the platform lookup.
// GET /api/platforms
func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	s.handleLookup(w, r, "lookup:platforms", s.games.Platforms)
}

// handleLookup serves a small fixed lookup, consulting the redis cache
// first and falling back to the provider.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request, key string,
	fetch func(ctx context.Context) ([]igdb.NamedRef, error)) {

	var cached []igdb.NamedRef
	if s.cache.get(r.Context(), key, &cached) {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	refs, err := fetch(r.Context())
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	s.cache.set(r.Context(), key, refs)
	respondJSON(w, http.StatusOK, refs)
}

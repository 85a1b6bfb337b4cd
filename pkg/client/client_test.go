package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameversehub/gameverse/internal/trivia"
)

func TestAPIURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"empty base yields relative path", "", "/api/games", "/api/games"},
		{"plain host", "http://localhost:8080", "/api/games", "http://localhost:8080/api/games"},
		{"trailing slash trimmed", "http://localhost:8080/", "/api/games", "http://localhost:8080/api/games"},
		{"base already ends in /api", "https://gv.example.com/api", "/api/games", "https://gv.example.com/api/games"},
		{"base ends in /api, trailing slash", "https://gv.example.com/api/", "/api/trivia/token", "https://gv.example.com/api/trivia/token"},
		{"path without leading slash", "http://localhost:8080", "health", "http://localhost:8080/health"},
		{"non-api path under /api base", "https://gv.example.com/api", "/health", "https://gv.example.com/api/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.base)
			assert.Equal(t, tt.want, c.apiURL(tt.path))
		})
	}
}

func TestSearchGames(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1942,"name":"Battlefield"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	games, err := c.SearchGames(context.Background(), "battlefield", 5, 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, int64(1942), games[0].ID)
	assert.Equal(t, "/api/games", gotPath)
	assert.Contains(t, gotQuery, "query=battlefield")
	assert.Contains(t, gotQuery, "limit=5")
	assert.Contains(t, gotQuery, "offset=10")
}

func TestSearchGames_NeverNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	games, err := New(srv.URL).SearchGames(context.Background(), "x", 0, 0)
	require.NoError(t, err)
	require.NotNil(t, games)
	assert.Empty(t, games)
}

func TestSearchGames_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).SearchGames(context.Background(), "x", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestGameByID_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"game not found"}`))
	}))
	defer srv.Close()

	game, err := New(srv.URL).GameByID(context.Background(), 999999)
	require.NoError(t, err)
	assert.Nil(t, game)
}

func TestGameByID_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"name":"Okami","gameModes":["Single player"]}`))
	}))
	defer srv.Close()

	game, err := New(srv.URL).GameByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, "Okami", game.Name)
	assert.Equal(t, []string{"Single player"}, game.GameModes)
}

func TestAPIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"upstream credentials not configured"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Genres(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "upstream credentials not configured", apiErr.Message)
}

func TestTriviaQuestions_ParamsAndDecode(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"category":"Video Games","question":"Q & A?","options":["a","b"],"correctIndex":1,"correctAnswer":"b"}]`))
	}))
	defer srv.Close()

	questions, err := New(srv.URL).TriviaQuestions(context.Background(), trivia.QuestionFilter{
		Count:      5,
		Category:   15,
		Difficulty: "easy",
	})
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0].CorrectIndex)
	assert.Equal(t, "b", questions[0].CorrectAnswer)

	assert.Contains(t, gotQuery, "count=5")
	assert.Contains(t, gotQuery, "category=15")
	assert.Contains(t, gotQuery, "difficulty=easy")
	assert.NotContains(t, gotQuery, "type=")
}

func TestTriviaToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/trivia/token", r.URL.Path)
		_, _ = w.Write([]byte(`{"token":"session-abc"}`))
	}))
	defer srv.Close()

	token, err := New(srv.URL).TriviaToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "session-abc", token)
}

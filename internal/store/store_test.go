package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFavorites_AddListRemove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	favorites, err := s.Favorites(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, favorites)

	err = s.AddFavorite(ctx, "user-1", Favorite{
		GameID: 42, Name: "Battlefield", CoverURL: "//cover.jpg", Rating: 81.5,
	})
	require.NoError(t, err)

	err = s.AddFavorite(ctx, "user-1", Favorite{GameID: 7, Name: "Okami"})
	require.NoError(t, err)

	favorites, err = s.Favorites(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, int64(7), favorites[0].GameID, "newest first")
	assert.Equal(t, int64(42), favorites[1].GameID)
	assert.Equal(t, "Battlefield", favorites[1].Name)
	assert.False(t, favorites[0].AddedAt.IsZero())

	err = s.RemoveFavorite(ctx, "user-1", 42)
	require.NoError(t, err)

	favorites, err = s.Favorites(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
}

func TestAddFavorite_Duplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddFavorite(ctx, "user-1", Favorite{GameID: 42, Name: "Battlefield"}))

	err := s.AddFavorite(ctx, "user-1", Favorite{GameID: 42, Name: "Battlefield"})
	assert.ErrorIs(t, err, ErrExists)

	// Same game for a different user is fine.
	assert.NoError(t, s.AddFavorite(ctx, "user-2", Favorite{GameID: 42, Name: "Battlefield"}))
}

func TestRemoveFavorite_NotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.RemoveFavorite(context.Background(), "user-1", 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchHistory_Cap(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < searchHistoryCap+1; i++ {
		require.NoError(t, s.AddSearch(ctx, "user-1", fmt.Sprintf("term-%d", i)))
	}

	entries, err := s.Searches(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, searchHistoryCap)
	assert.Equal(t, fmt.Sprintf("term-%d", searchHistoryCap), entries[0].Term, "newest kept")
	assert.Equal(t, "term-1", entries[len(entries)-1].Term, "oldest dropped")
}

func TestSearchHistory_PerUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddSearch(ctx, "user-1", "zelda"))
	require.NoError(t, s.AddSearch(ctx, "user-2", "mario"))

	entries, err := s.Searches(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "zelda", entries[0].Term)
}

func TestQuizHistory_Cap(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < quizHistoryCap+1; i++ {
		require.NoError(t, s.AddQuizResult(ctx, "user-1", QuizResult{
			Category: "Video Games", Difficulty: "easy",
			Total: 10, Correct: i % 11, Score: float64(i%11) * 10,
		}))
	}

	results, err := s.QuizResults(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, results, quizHistoryCap)
}

func TestQuizHistory_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddQuizResult(ctx, "user-1", QuizResult{
		Category: "Video Games", Difficulty: "hard",
		Total: 10, Correct: 8, Score: 80,
	}))

	results, err := s.QuizResults(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "Video Games", r.Category)
	assert.Equal(t, "hard", r.Difficulty)
	assert.Equal(t, 10, r.Total)
	assert.Equal(t, 8, r.Correct)
	assert.Equal(t, 80.0, r.Score)
	assert.False(t, r.PlayedAt.IsZero())
}

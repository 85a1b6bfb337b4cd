// Package store persists per-user catalog data (favorites, search
// history, quiz history) in SQLite. Identity is an opaque user id
// supplied by the external identity provider; this package never
// interprets it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Sentinel errors for stable handler mapping.
var (
	// ErrExists indicates the favorite is already present.
	ErrExists = errors.New("already in favorites")

	// ErrNotFound indicates the requested entry does not exist.
	ErrNotFound = errors.New("not found")
)

// History caps, matching the limits the original client enforced.
const (
	searchHistoryCap = 20
	quizHistoryCap   = 50
)

// Favorite is one saved game.
type Favorite struct {
	GameID   int64     `json:"id"`
	Name     string    `json:"name"`
	CoverURL string    `json:"coverUrl,omitempty"`
	Rating   float64   `json:"rating,omitempty"`
	AddedAt  time.Time `json:"addedAt"`
}

// SearchEntry is one recorded catalog search.
type SearchEntry struct {
	Term       string    `json:"term"`
	SearchedAt time.Time `json:"searchedAt"`
}

// QuizResult is one completed trivia round.
type QuizResult struct {
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	Total      int       `json:"total"`
	Correct    int       `json:"correct"`
	Score      float64   `json:"score"`
	PlayedAt   time.Time `json:"playedAt"`
}

// Store wraps a SQLite database holding user data.
type Store struct {
	conn *sql.DB
}

// Open opens or creates the database at path and runs migrations.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Conn returns the underlying database connection.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

func (s *Store) migrate() error {
	if _, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	if err := s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) migrateV1() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS favorites (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			game_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			cover_url TEXT NOT NULL DEFAULT '',
			rating REAL NOT NULL DEFAULT 0,
			added_at INTEGER NOT NULL,
			UNIQUE(user_id, game_id)
		)`,
		`CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			term TEXT NOT NULL,
			searched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_user ON search_history(user_id, id)`,
		`CREATE TABLE IF NOT EXISTS quiz_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL DEFAULT '',
			total INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			score REAL NOT NULL DEFAULT 0,
			played_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_history_user ON quiz_history(user_id, id)`,
		`INSERT INTO schema_version (version) VALUES (1)`,
	}
	for _, stmt := range stmts {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migration v1 failed: %w", err)
		}
	}
	return nil
}

// Favorites lists a user's saved games, newest first.
func (s *Store) Favorites(ctx context.Context, userID string) ([]Favorite, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT game_id, name, cover_url, rating, added_at
		FROM favorites WHERE user_id = ? ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	favorites := []Favorite{}
	for rows.Next() {
		var f Favorite
		var addedAt int64
		if err := rows.Scan(&f.GameID, &f.Name, &f.CoverURL, &f.Rating, &addedAt); err != nil {
			return nil, err
		}
		f.AddedAt = time.Unix(addedAt, 0).UTC()
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// AddFavorite saves a game for the user. Duplicate game ids are
// rejected with ErrExists.
func (s *Store) AddFavorite(ctx context.Context, userID string, f Favorite) error {
	var exists int
	err := s.conn.QueryRowContext(ctx,
		"SELECT 1 FROM favorites WHERE user_id = ? AND game_id = ?",
		userID, f.GameID).Scan(&exists)
	if err == nil {
		return ErrExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO favorites (user_id, game_id, name, cover_url, rating, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, f.GameID, f.Name, f.CoverURL, f.Rating, time.Now().Unix())
	return err
}

// RemoveFavorite deletes a saved game, reporting ErrNotFound when the
// game was never saved.
func (s *Store) RemoveFavorite(ctx context.Context, userID string, gameID int64) error {
	res, err := s.conn.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = ? AND game_id = ?", userID, gameID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddSearch records a search term, keeping only the newest entries.
func (s *Store) AddSearch(ctx context.Context, userID, term string) error {
	if _, err := s.conn.ExecContext(ctx, `
		INSERT INTO search_history (user_id, term, searched_at) VALUES (?, ?, ?)
	`, userID, term, time.Now().Unix()); err != nil {
		return err
	}
	return s.trim(ctx, "search_history", userID, searchHistoryCap)
}

// Searches lists a user's search history, newest first.
func (s *Store) Searches(ctx context.Context, userID string) ([]SearchEntry, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT term, searched_at FROM search_history
		WHERE user_id = ? ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := []SearchEntry{}
	for rows.Next() {
		var e SearchEntry
		var searchedAt int64
		if err := rows.Scan(&e.Term, &searchedAt); err != nil {
			return nil, err
		}
		e.SearchedAt = time.Unix(searchedAt, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddQuizResult records a completed trivia round, keeping only the
// newest entries.
func (s *Store) AddQuizResult(ctx context.Context, userID string, r QuizResult) error {
	if _, err := s.conn.ExecContext(ctx, `
		INSERT INTO quiz_history (user_id, category, difficulty, total, correct, score, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, userID, r.Category, r.Difficulty, r.Total, r.Correct, r.Score, time.Now().Unix()); err != nil {
		return err
	}
	return s.trim(ctx, "quiz_history", userID, quizHistoryCap)
}

// QuizResults lists a user's quiz history, newest first.
func (s *Store) QuizResults(ctx context.Context, userID string) ([]QuizResult, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT category, difficulty, total, correct, score, played_at
		FROM quiz_history WHERE user_id = ? ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	results := []QuizResult{}
	for rows.Next() {
		var r QuizResult
		var playedAt int64
		if err := rows.Scan(&r.Category, &r.Difficulty, &r.Total, &r.Correct, &r.Score, &playedAt); err != nil {
			return nil, err
		}
		r.PlayedAt = time.Unix(playedAt, 0).UTC()
		results = append(results, r)
	}
	return results, rows.Err()
}

// trim drops a user's oldest rows beyond cap.
func (s *Store) trim(ctx context.Context, table, userID string, cap int) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE user_id = ? AND id NOT IN (
			SELECT id FROM %s WHERE user_id = ? ORDER BY id DESC LIMIT %d
		)
	`, table, table, cap)
	_, err := s.conn.ExecContext(ctx, query, userID, userID)
	return err
}

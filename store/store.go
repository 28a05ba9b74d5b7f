// Package store persists finished games in SQLite
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

//go:embed schema.sql
var schema string

// DefaultLimit bounds Top when no limit is given
const DefaultLimit = 20

// Result is one finished game
type Result struct {
	Session    string    `json:"session"`
	Score      int       `json:"score"`
	Placed     int       `json:"placed"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store is a score table; safe for concurrent use
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates or opens the database at path and applies the schema
func Open(path string, log zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.Info().Str("path", path).Msg("Score store opened")
	return &Store{db: db, log: log}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a finished game
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (session, score, placed) VALUES (?, ?, ?)`,
		r.Session, r.Score, r.Placed,
	)
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	s.log.Debug().Str("session", r.Session).Int("score", r.Score).Msg("Score recorded")
	return nil
}

// Top returns the best results, highest score first, earliest first on ties
func (s *Store) Top(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT session, score, placed, finished_at
        FROM scores
        ORDER BY score DESC, finished_at ASC, id ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Session, &r.Score, &r.Placed, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

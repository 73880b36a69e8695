package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pdfcheck/internal/check"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store keeps an audit trail of completed checks in sqlite. It is an
// observability artifact: write failures are the caller's to log, never to
// surface to clients.
type Store struct {
	db *sql.DB
}

// Record is one completed check.
type Record struct {
	ID        string             `json:"id"`
	Filename  string             `json:"filename"`
	Rules     []string           `json:"rules"`
	Results   []check.RuleResult `json:"results"`
	CreatedAt int64              `json:"created_at"`
}

// Open creates the database file (and its directory) if needed and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	const schema = `
	CREATE TABLE IF NOT EXISTS checks (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		rules TEXT NOT NULL,
		results TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts one completed check and returns its generated ID.
func (s *Store) Record(ctx context.Context, filename string, rules []string, results []check.RuleResult) (string, error) {
	if s == nil || s.db == nil {
		return "", nil
	}
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return "", fmt.Errorf("encode rules: %w", err)
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checks(id, filename, rules, results, created_at) VALUES(?, ?, ?, ?, ?)`,
		id, filename, string(rulesJSON), string(resultsJSON), time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert check: %w", err)
	}
	return id, nil
}

// Recent returns the newest checks first, at most limit of them.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, rules, results, created_at FROM checks ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select checks: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var rulesJSON, resultsJSON string
		if err := rows.Scan(&rec.ID, &rec.Filename, &rulesJSON, &resultsJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		if err := json.Unmarshal([]byte(rulesJSON), &rec.Rules); err != nil {
			return nil, fmt.Errorf("decode rules: %w", err)
		}
		if err := json.Unmarshal([]byte(resultsJSON), &rec.Results); err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

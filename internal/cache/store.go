// Package cache persists API responses keyed by endpoint and request
// parameters, with per-entry TTL expiry. The backing store is an
// embedded SQLite database so cached responses survive restarts.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a cache entry is absent or expired.
var ErrNotFound = errors.New("cache entry not found or expired")

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	endpoint   TEXT NOT NULL,
	params     TEXT NOT NULL,
	response   TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_responses_created ON responses(created_at DESC);
`

// Store is a TTL response cache backed by SQLite. All methods are safe
// for use from concurrently handled connections; SQLite serializes the
// writes.
type Store struct {
	db *sql.DB
}

// Activity describes one cached entry for the recent-activity view.
type Activity struct {
	Endpoint  string    `json:"endpoint"`
	Params    string    `json:"params"`
	CreatedAt time.Time `json:"created_at"`
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key derives the deterministic cache key for an endpoint and its
// parameters. Params are sorted by name first, so the caller's map
// iteration order never affects the key.
func Key(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return endpoint + "__" + strings.Join(parts, "__")
}

// Get returns the cached response for (endpoint, params), or
// ErrNotFound on a miss. Expired entries are deleted on the way out.
func (s *Store) Get(endpoint string, params map[string]string) (string, error) {
	key := Key(endpoint, params)

	var response string
	var expiresAt int64
	row := s.db.QueryRow(`SELECT response, expires_at FROM responses WHERE key = ?`, key)
	if err := row.Scan(&response, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read cache entry: %w", err)
	}

	if time.Now().UnixMilli() >= expiresAt {
		_, _ = s.db.Exec(`DELETE FROM responses WHERE key = ?`, key)
		return "", ErrNotFound
	}

	return response, nil
}

// Put upserts the response for (endpoint, params) with the given TTL.
// An existing entry under the same key is replaced.
func (s *Store) Put(endpoint string, params map[string]string, response string, ttl time.Duration) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode cache params: %w", err)
	}

	now := time.Now()
	_, err = s.db.Exec(`
		INSERT INTO responses (key, endpoint, params, response, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			response   = excluded.response,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		Key(endpoint, params), endpoint, string(paramsJSON), response,
		now.UnixMilli(), now.Add(ttl).UnixMilli())
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for (endpoint, params) and reports whether
// one existed.
func (s *Store) Delete(endpoint string, params map[string]string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM responses WHERE key = ?`, Key(endpoint, params))
	if err != nil {
		return false, fmt.Errorf("delete cache entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAll removes every cached entry.
func (s *Store) DeleteAll() error {
	if _, err := s.db.Exec(`DELETE FROM responses`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Recent returns the most recently created entries, newest first.
func (s *Store) Recent(limit int) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT endpoint, params, created_at FROM responses
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent cache entries: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		var createdAt int64
		if err := rows.Scan(&a.Endpoint, &a.Params, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt = time.UnixMilli(createdAt)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// Package persist stores drafts and user settings in SQLite, the
// server-side stand-in for the browser's local storage.
package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a draft or setting does not exist.
var ErrNotFound = errors.New("not found")

// Draft is a saved working document.
type Draft struct {
	ID        string
	Title     string
	Body      string
	Template  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store handles persistence of drafts and settings using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a SQLite-backed store at the given path.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			body        TEXT NOT NULL,
			template    TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS settings (
			key    TEXT PRIMARY KEY,
			value  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_drafts_updated ON drafts(updated_at);
	`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDraft inserts a new draft (empty ID) or updates an existing one.
// It returns the draft with ID and timestamps filled in.
func (s *Store) SaveDraft(d Draft) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339)

	if d.ID == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = now
		d.UpdatedAt = now
		_, err := s.db.Exec(
			`INSERT INTO drafts (id, title, body, template, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, d.Title, d.Body, d.Template, nowStr, nowStr,
		)
		if err != nil {
			return Draft{}, fmt.Errorf("failed to insert draft: %w", err)
		}
		return d, nil
	}

	res, err := s.db.Exec(
		`UPDATE drafts SET title = ?, body = ?, template = ?, updated_at = ? WHERE id = ?`,
		d.Title, d.Body, d.Template, nowStr, d.ID,
	)
	if err != nil {
		return Draft{}, fmt.Errorf("failed to update draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Draft{}, err
	}
	if n == 0 {
		return Draft{}, ErrNotFound
	}
	d.UpdatedAt = now
	return d, nil
}

// GetDraft loads one draft by id.
func (s *Store) GetDraft(id string) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		`SELECT id, title, body, template, created_at, updated_at FROM drafts WHERE id = ?`, id,
	)
	return scanDraft(row)
}

// ListDrafts returns all drafts, most recently updated first.
func (s *Store) ListDrafts() ([]Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, title, body, template, created_at, updated_at FROM drafts ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// DeleteDraft removes one draft by id.
func (s *Store) DeleteDraft(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
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

// PruneDraftsBefore deletes drafts not updated since the cutoff and
// returns how many were removed.
func (s *Store) PruneDraftsBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`DELETE FROM drafts WHERE updated_at < ?`, cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune drafts: %w", err)
	}
	return res.RowsAffected()
}

// GetSetting reads one setting value.
func (s *Store) GetSetting(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting: %w", err)
	}
	return value, nil
}

// PutSetting writes one setting value, replacing any previous one.
func (s *Store) PutSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write setting: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (Draft, error) {
	var d Draft
	var createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.Title, &d.Body, &d.Template, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("failed to scan draft: %w", err)
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return d, nil
}

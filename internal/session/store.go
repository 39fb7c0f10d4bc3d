// Package session provides per-visitor storage that outlives a single page
// load, scoped by a session cookie.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/booknav/internal/db"
	"github.com/ziadkadry99/booknav/internal/sidebar"
)

// timeLayout matches SQLite's datetime() output so stored timestamps compare
// as strings.
const timeLayout = "2006-01-02 15:04:05"

// Sessions hands out storage scoped to one session id.
type Sessions interface {
	Scope(sessionID string) sidebar.ScrollStore
	// Purge drops entries not written since before and returns how many.
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// Store is a SQLite-backed Sessions.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Scope returns the storage of one session.
func (s *Store) Scope(sessionID string) sidebar.ScrollStore {
	return &scoped{store: s, id: sessionID}
}

// Purge deletes entries last written before the cutoff.
func (s *Store) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM session_storage WHERE updated_at < ?`,
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged rows: %w", err)
	}
	return n, nil
}

type scoped struct {
	store *Store
	id    string
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.store.db.QueryRowContext(ctx,
		`SELECT value FROM session_storage WHERE session_id = ? AND key = ?`,
		s.id, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO session_storage (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		s.id, key, value, s.store.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *scoped) Remove(ctx context.Context, key string) error {
	_, err := s.store.db.ExecContext(ctx,
		`DELETE FROM session_storage WHERE session_id = ? AND key = ?`,
		s.id, key,
	)
	if err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Take deletes the entry and returns the value it held in one statement.
func (s *scoped) Take(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.store.db.QueryRowContext(ctx,
		`DELETE FROM session_storage WHERE session_id = ? AND key = ? RETURNING value`,
		s.id, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("taking %s: %w", key, err)
	}
	return value, true, nil
}

// MemorySessions keeps session storage in process. Used by `serve --memory`
// and tests.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	now      func() time.Time
}

type memorySession struct {
	store   *sidebar.MemoryStore
	touched time.Time
}

// NewMemorySessions returns an empty MemorySessions.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]*memorySession), now: time.Now}
}

func (m *MemorySessions) Scope(sessionID string) sidebar.ScrollStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		sess = &memorySession{store: sidebar.NewMemoryStore()}
		m.sessions[sessionID] = sess
	}
	sess.touched = m.now()
	return sess.store
}

func (m *MemorySessions) Purge(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, sess := range m.sessions {
		if sess.touched.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

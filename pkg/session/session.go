// Package session persists explorer sessions: the chosen station pair,
// the brushed table rows and the last hovered hour.
//
// The server keeps a live explorer per session in memory and writes the
// session through a [Store] after every change, so a restarted server (or
// another instance behind the same Redis) can rebuild it. The terminal
// explorer uses a [FileStore] to reopen the last viewed pair.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and single-instance serving
//   - [FileStore]: JSON files under ~/.config/yourcommute/sessions/
//   - [RedisStore]: shared across server instances
//
// Usage:
//
//	sess := session.New(session.DefaultTTL)
//	sess.From, sess.To = "place-knncl", "place-sstat"
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 12 * time.Hour

// CLISessionID is the fixed session used by the terminal explorer.
const CLISessionID = "cli"

// Session is the persisted part of an explorer.
type Session struct {
	ID        string    `json:"id"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Line      string    `json:"line,omitempty"`
	Rows      []string  `json:"rows,omitempty"`
	Hour      float64   `json:"hour,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a session with a random UUID.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records an update and extends the expiry by ttl.
func (s *Session) Touch(ttl time.Duration) {
	s.UpdatedAt = time.Now()
	s.ExpiresAt = s.UpdatedAt.Add(ttl)
}

// ValidID reports whether id is a UUID or the CLI session ID. Store
// implementations reject anything else before touching the backend.
func ValidID(id string) bool {
	if id == CLISessionID {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session until its ExpiresAt.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Package session keeps track of who is signed in. The session is stored in
// the settings table so it survives restarts; logout clears it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const key = "session"

var ErrNoSession = errors.New("no active session")

// Store is the slice of settings.Repository a session needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Session struct {
	UserID    int64     `json:"user_id"`
	IsGuest   bool      `json:"is_guest"`
	StartedAt time.Time `json:"started_at"`
}

// New starts a session for userID.
func New(userID int64, guest bool) *Session {
	return &Session{UserID: userID, IsGuest: guest, StartedAt: time.Now().UTC()}
}

// Load reads the persisted session. ErrNoSession when nobody is signed in.
func Load(ctx context.Context, st Store) (*Session, error) {
	raw, err := st.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		return nil, ErrNoSession
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.UserID <= 0 {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save persists s, replacing any previous session.
func (s *Session) Save(ctx context.Context, st Store) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := st.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear forgets the current session. Clearing with nobody signed in is fine.
func Clear(ctx context.Context, st Store) error {
	if err := st.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

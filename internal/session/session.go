package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Duration is how long a client session stays valid after signin.
const Duration = 10 * time.Minute

type State int

const (
	Anonymous State = iota
	Authenticated
	Expired
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Expired:
		return "expired"
	default:
		return "anonymous"
	}
}

// Session is the explicit client-side session object. Callers pass it around
// and derive its state from the expiry timestamp; there is no global session
// flag anywhere.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func New(email, token string, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Email:     email,
		Token:     token,
		StartedAt: now,
		ExpiresAt: now.Add(Duration),
	}
}

// State reports the session lifecycle position at the given instant.
func (s *Session) State(now time.Time) State {
	if s == nil || s.Token == "" {
		return Anonymous
	}
	if now.After(s.ExpiresAt) {
		return Expired
	}
	return Authenticated
}

// Remaining returns how long the session stays authenticated, zero otherwise.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.State(now) != Authenticated {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// Load reads a stored session. A missing file is an anonymous session, not an
// error.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Clear discards the stored session, moving the client back to anonymous.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

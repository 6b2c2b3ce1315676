package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var none *Session
	assert.Equal(t, Anonymous, none.State(now))

	s := New("ann@x.com", "nyatToken", now)
	assert.Equal(t, Authenticated, s.State(now))
	assert.Equal(t, Authenticated, s.State(now.Add(Duration-time.Second)))
	assert.Equal(t, Expired, s.State(now.Add(Duration+time.Second)))

	assert.Equal(t, Duration, s.Remaining(now))
	assert.Equal(t, time.Duration(0), s.Remaining(now.Add(Duration+time.Second)))

	// A session without a token never counts as signed in.
	s.Token = ""
	assert.Equal(t, Anonymous, s.State(now))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "expired", Expired.String())
}

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	now := time.Now()

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	s := New("ann@x.com", "nyatToken", now)
	require.NoError(t, s.Save(path))

	loaded, err = Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, s.Email, loaded.Email)
	assert.Equal(t, s.Token, loaded.Token)
	assert.Equal(t, Authenticated, loaded.State(now))

	require.NoError(t, Clear(path))
	loaded, err = Load(path)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing twice is fine.
	require.NoError(t, Clear(path))
}

package user

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nykka/internal/database"
	"nykka/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&database.User{}, &database.AccessToken{}))

	return db
}

func TestCreate(t *testing.T) {
	s := NewService(newTestDB(t))

	user, err := s.Create("Ann", "ann@x.com", "pw1234")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.Equal(t, 0, user.LoginCount)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NotEqual(t, "pw1234", user.PasswordHash)
	assert.True(t, utils.VerifyPassword("pw1234", user.PasswordHash))
}

func TestCreateDuplicateEmail(t *testing.T) {
	s := NewService(newTestDB(t))

	_, err := s.Create("Ann", "ann@x.com", "pw1234")
	require.NoError(t, err)

	// Other field values do not matter, only the email does.
	_, err = s.Create("Bob", "ann@x.com", "different")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// The address is normalized before the uniqueness check.
	_, err = s.Create("Bob", "  Ann@X.com ", "different")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetRoundTrip(t *testing.T) {
	s := NewService(newTestDB(t))

	created, err := s.Create("Ann", "ann@x.com", "pw1234")
	require.NoError(t, err)

	got, err := s.GetByID(created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Email, got.Email)
	assert.Equal(t, created.LoginCount, got.LoginCount)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)
}

func TestNotFound(t *testing.T) {
	s := NewService(newTestDB(t))

	_, err := s.GetByID(42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(42, "Ann", "ann@x.com", "pw1234")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Delete(42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.First()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := NewService(newTestDB(t))

	users, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = s.Create("Ann", "ann@x.com", "pw1234")
	require.NoError(t, err)
	_, err = s.Create("Bob", "bob@x.com", "pw1234")
	require.NoError(t, err)

	users, err = s.List()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	s := NewService(newTestDB(t))

	created, err := s.Create("Ann", "ann@x.com", "pw1234")
	require.NoError(t, err)

	updated, err := s.Update(created.ID, "Anne", "anne@x.com", "pw1234")
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Anne", updated.Name)
	assert.Equal(t, "anne@x.com", updated.Email)
	// The password is re-hashed even when unchanged; bcrypt salts differ.
	assert.NotEqual(t, created.PasswordHash, updated.PasswordHash)
	assert.True(t, utils.VerifyPassword("pw1234", updated.PasswordHash))
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	s := NewService(newTestDB(t))

	_, err := s.Create("Ann", "ann@x.com", "pw1234")
	require.NoError(t, err)
	bob, err := s.Create("Bob", "bob@x.com", "pw1234")
	require.NoError(t, err)

	_, err = s.Update(bob.ID, "Bob", "ann@x.com", "pw1234")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Keeping your own email is not a collision.
	_, err = s.Update(bob.ID, "Bobby", "bob@x.com", "pw1234")
	assert.NoError(t, err)
}

func TestDeleteReturnsSnapshot(t *testing.T) {
	s := NewService(newTestDB(t))

	created, err := s.Create("Ann", "ann@x.com", "pw1234")
	require.NoError(t, err)

	deleted, err := s.Delete(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "ann@x.com", deleted.Email)

	_, err = s.GetByID(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	s := NewService(newTestDB(t))

	created, err := s.Create("Ann", "ann@x.com", "pw1234")
	require.NoError(t, err)

	_, err = s.Authenticate("ann@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate("nobody@x.com", "pw1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Failed attempts must not move the counter.
	got, err := s.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LoginCount)

	user, err := s.Authenticate("ann@x.com", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, 1, user.LoginCount)
	assert.Equal(t, created.Name, user.Name)
	assert.Equal(t, created.Email, user.Email)
	assert.Equal(t, created.PasswordHash, user.PasswordHash)
	assert.WithinDuration(t, created.CreatedAt, user.CreatedAt, time.Second)

	user, err = s.Authenticate("ann@x.com", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, 2, user.LoginCount)
}

func TestFirst(t *testing.T) {
	s := NewService(newTestDB(t))

	ann, err := s.Create("Ann", "ann@x.com", "pw1234")
	require.NoError(t, err)
	_, err = s.Create("Bob", "bob@x.com", "pw1234")
	require.NoError(t, err)

	first, err := s.First()
	require.NoError(t, err)
	assert.Equal(t, ann.ID, first.ID)
}

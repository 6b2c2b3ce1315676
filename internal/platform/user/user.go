package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"nykka/internal/database"
	"nykka/pkg/utils"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService owns the user-record invariants: one record per email, hashed
// passwords only, and a login counter that moves only on successful signin.
type UserService struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Create(name, email, password string) (*database.User, error) {
	email = normalizeEmail(email)

	var count int64
	if err := s.db.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := database.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// Two concurrent creates can both pass the count check; the unique
		// index on email decides the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return &user, nil
}

func (s *UserService) GetByID(userID int) (*database.User, error) {
	var user database.User
	result := s.db.First(&user, "id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (s *UserService) GetByEmail(email string) (*database.User, error) {
	var user database.User
	result := s.db.First(&user, "email = ?", normalizeEmail(email))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// List returns all users in storage order. Callers must not assume any
// particular ordering.
func (s *UserService) List() ([]database.User, error) {
	var users []database.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update replaces name, email and password wholesale; there are no partial
// update semantics and the password is re-hashed even when unchanged. An email
// already owned by a different user is rejected.
func (s *UserService) Update(userID int, name, email, password string) (*database.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	email = normalizeEmail(email)

	var count int64
	if err := s.db.Model(&database.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email
	user.PasswordHash = hash

	if err := s.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

// Delete removes the user and returns the pre-delete snapshot.
func (s *UserService) Delete(userID int) (*database.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(&database.User{}, userID).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies credentials and counts the signin. On success the
// login counter is incremented by exactly one and the fresh record returned;
// nothing else changes. No session artifact is produced here.
func (s *UserService) Authenticate(email, password string) (*database.User, error) {
	user, err := s.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	result := s.db.Model(user).UpdateColumn("login_count", gorm.Expr("login_count + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}

	return s.GetByID(user.ID)
}

// First returns the first user in storage order.
func (s *UserService) First() (*database.User, error) {
	var user database.User
	result := s.db.First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

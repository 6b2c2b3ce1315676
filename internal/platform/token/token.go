package token

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"nykka/internal/database"
	"nykka/pkg/utils"
)

const accessTokenExp = 3600

var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies opaque bearer tokens. Tokens are stored
// rows, not signed payloads; an expired row simply stops verifying.
type TokenService struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *TokenService {
	return &TokenService{db: db}
}

func (s *TokenService) Issue(user *database.User) (*database.AccessToken, error) {
	accessToken := database.AccessToken{
		Token:     fmt.Sprintf("nyat%s", utils.GenerateRandomString(40)),
		UserID:    user.ID,
		IssuedAt:  time.Now(),
		ExpiredAt: time.Now().Add(accessTokenExp * time.Second),
	}

	if err := s.db.Create(&accessToken).Error; err != nil {
		return nil, err
	}

	return &accessToken, nil
}

func (s *TokenService) Verify(token string) (*database.User, error) {
	var accessToken database.AccessToken
	result := s.db.First(&accessToken, "token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, result.Error
	}

	if time.Now().After(accessToken.ExpiredAt) {
		return nil, ErrInvalidToken
	}

	var user database.User
	result = s.db.First(&user, "id = ?", accessToken.UserID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, result.Error
	}

	return &user, nil
}

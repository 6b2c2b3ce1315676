package database

import "time"

type User struct {
	ID           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	LoginCount   int       `json:"login_count" gorm:"not null;default:0"`
}

func (u *User) TableName() string {
	return "users"
}

type AccessToken struct {
	Token     string    `json:"access_token" gorm:"primaryKey"`
	UserID    int       `json:"user_id" gorm:"not null;index"`
	IssuedAt  time.Time `json:"-"`
	ExpiredAt time.Time `json:"expires_at"`
}

func (t *AccessToken) TableName() string {
	return "access_token"
}

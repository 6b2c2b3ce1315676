package database

import (
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nykka/internal/config"
)

// Connect opens the database from the configured URL and migrates the schema.
// A postgres:// URL selects the postgres driver, anything else is treated as
// an embedded sqlite file path. TranslateError is enabled so the unique index
// on users.email surfaces as gorm.ErrDuplicatedKey on both drivers; the index
// is the enforcement point for concurrent creates against the same email.
func Connect(c *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		dialector = postgres.Open(c.DatabaseURL)
	} else {
		dialector = sqlite.Open(c.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&User{}, &AccessToken{}); err != nil {
		return nil, err
	}

	log.Debug("GORM connected to database")

	return db, nil
}

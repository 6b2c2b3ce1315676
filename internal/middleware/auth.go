package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nykka/internal/platform/token"
)

// AuthMiddleware verifies the bearer token when one is presented and stores
// the resolved user in request locals. Requests without an Authorization
// header pass through anonymously; a presented but invalid or expired token
// is rejected.
func AuthMiddleware(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	user, err := token.NewService(db).Verify(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	c.Locals("user", *user)

	return c.Next()
}

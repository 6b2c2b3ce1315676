package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nykka/internal/config"
	ptoken "nykka/internal/platform/token"
	puser "nykka/internal/platform/user"
)

// SigninWithPassword verifies form-encoded credentials, counts the login and
// issues an opaque bearer token alongside the greeting.
func SigninWithPassword(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	userService := puser.NewService(db)

	type LoginInput struct {
		Email    string `json:"email" form:"email" validate:"required,email"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	user, err := userService.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, puser.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	accessToken, err := ptoken.NewService(db).Issue(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(fiber.Map{
		"message":      fmt.Sprintf("Welcome %s!", user.Name),
		"login_count":  user.LoginCount,
		"access_token": accessToken.Token,
		"token_type":   "Bearer",
		"expires_at":   accessToken.ExpiredAt,
	})
}

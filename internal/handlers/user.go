package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"nykka/internal/config"
	"nykka/internal/database"
	"nykka/internal/mail"
	puser "nykka/internal/platform/user"
)

type UserInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func CreateUser(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	db := c.Locals("db").(*gorm.DB)

	userService := puser.NewService(db)

	var input UserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	user, err := userService.Create(input.Name, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, puser.ErrDuplicateEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	if cfg.MailEnabled() {
		mailer := mail.NewMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase)
		welcome := mail.Email{
			Subject: "Welcome to Nykka",
			Body:    fmt.Sprintf("Hi %s, your account is ready.", user.Name),
			From:    cfg.MailFrom,
			To:      []string{user.Email},
		}
		if err := mailer.SendMail(&welcome); err != nil {
			log.Warnf("welcome mail to %s failed: %v", user.Email, err)
		}
	}

	return c.JSON(user)
}

func GetAllUsers(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	users, err := puser.NewService(db).List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(users)
}

func GetUser(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	user, err := puser.NewService(db).GetByID(userID)
	if err != nil {
		if errors.Is(err, puser.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(user)
}

func UpdateUser(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	userService := puser.NewService(db)

	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var input UserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	user, err := userService.Update(userID, input.Name, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, puser.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		if errors.Is(err, puser.ErrDuplicateEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(user)
}

func DeleteUser(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	user, err := puser.NewService(db).Delete(userID)
	if err != nil {
		if errors.Is(err, puser.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(user)
}

// GetCurrentUser returns the user bound to the presented bearer token. With no
// Authorization header it falls back to the first record in storage order, the
// legacy "current user" stand-in kept for anonymous dashboard clients.
func GetCurrentUser(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	if user, ok := c.Locals("user").(database.User); ok {
		return c.JSON(user)
	}

	user, err := puser.NewService(db).First()
	if err != nil {
		if errors.Is(err, puser.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No users found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(user)
}

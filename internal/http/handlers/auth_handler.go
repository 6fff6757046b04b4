package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/services"
	"tradepost/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var body credsBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "signup.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	username, ok := validate.Username(body.Username)
	if !ok {
		return fail(c, "signup.validate", fmt.Errorf("%w: username must be 3-30 word characters", domain.ErrValidation))
	}
	if !validate.Password(body.Password) {
		return fail(c, "signup.validate", fmt.Errorf("%w: password must be 8-64 characters", domain.ErrValidation))
	}
	id, err := h.Auth.Signup(username, body.Password)
	if err != nil {
		return fail(c, "signup", err)
	}
	applog.Audit(c, "signup", map[string]any{"user_id": id})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "user created", "user_id": id})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body credsBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "login.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	u, err := h.Auth.Login(body.Username, body.Password)
	if err != nil {
		return fail(c, "login", err)
	}
	applog.Info(c, "login", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"message": "login successful", "user_id": u.ID})
}

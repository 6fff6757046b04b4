package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/domain"
	"tradepost/internal/services"
)

type ProfileHandler struct {
	Profile *services.ProfileService
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return fail(c, "profile.get", fmt.Errorf("%w: bad user id", domain.ErrValidation))
	}
	view, err := h.Profile.Get(int64(userID))
	if err != nil {
		return fail(c, "profile.get", err)
	}
	return c.JSON(view)
}

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartBody struct {
	UserID    int64 `json:"user_id"`
	ListingID int64 `json:"listing_id"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return fail(c, "cart.view", fmt.Errorf("%w: bad user id", domain.ErrValidation))
	}
	rows, err := h.Cart.View(int64(userID))
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(rows)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var body cartBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "cart.add.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	if err := h.Cart.Add(body.UserID, body.ListingID, body.Quantity); err != nil {
		return fail(c, "cart.add", err)
	}
	applog.Info(c, "cart.add", map[string]any{"user_id": body.UserID, "listing_id": body.ListingID})
	return c.JSON(fiber.Map{"message": "item added to cart"})
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var body cartBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "cart.remove.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	if err := h.Cart.Remove(body.UserID, body.ListingID); err != nil {
		return fail(c, "cart.remove", err)
	}
	return c.JSON(fiber.Map{"message": "removed from cart"})
}

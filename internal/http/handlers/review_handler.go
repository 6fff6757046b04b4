package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("listing_id")
	if err != nil {
		return fail(c, "review.list", fmt.Errorf("%w: bad listing id", domain.ErrValidation))
	}
	reviews, err := h.Reviews.List(int64(listingID))
	if err != nil {
		return fail(c, "review.list", err)
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) Post(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("listing_id")
	if err != nil {
		return fail(c, "review.post", fmt.Errorf("%w: bad listing id", domain.ErrValidation))
	}
	var body struct {
		UserID  int64  `json:"user_id"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "review.post.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	id, err := h.Reviews.Post(body.UserID, int64(listingID), body.Rating, body.Comment)
	if err != nil {
		return fail(c, "review.post", err)
	}
	applog.Info(c, "review.post", map[string]any{"review_id": id, "listing_id": listingID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "review submitted", "review_id": id})
}

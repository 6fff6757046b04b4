package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/services"
	"tradepost/internal/validate"
)

type ListingHandler struct {
	Catalog *services.CatalogService
}

type listingBody struct {
	UserID      int64        `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Price       domain.Cents `json:"price"`
	ImageURL    string       `json:"image_url"`
	Quantity    int          `json:"quantity"`
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var body listingBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "listing.create.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	title, ok := validate.Title(body.Title)
	if !ok {
		return fail(c, "listing.create.validate", fmt.Errorf("%w: title must be 1-100 characters", domain.ErrValidation))
	}
	id, err := h.Catalog.Create(body.UserID, title, body.Description, body.Price, body.ImageURL, body.Quantity)
	if err != nil {
		return fail(c, "listing.create", err)
	}
	applog.Audit(c, "listing.create", map[string]any{"listing_id": id, "user_id": body.UserID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "listing created", "listing_id": id})
}

func (h *ListingHandler) List(c *fiber.Ctx) error {
	listings, err := h.Catalog.ListOpen()
	if err != nil {
		return fail(c, "listing.list", err)
	}
	return c.JSON(listings)
}

func (h *ListingHandler) Random(c *fiber.Ctx) error {
	listings, err := h.Catalog.Random(c.QueryInt("n", 5))
	if err != nil {
		return fail(c, "listing.random", err)
	}
	return c.JSON(listings)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, "listing.get", fmt.Errorf("%w: bad listing id", domain.ErrValidation))
	}
	l, err := h.Catalog.Get(int64(id))
	if err != nil {
		return fail(c, "listing.get", err)
	}
	return c.JSON(l)
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, "listing.update", fmt.Errorf("%w: bad listing id", domain.ErrValidation))
	}
	var body listingBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "listing.update.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	if err := h.Catalog.Update(int64(id), body.UserID, body.Title, body.Description, body.Price, body.ImageURL); err != nil {
		return fail(c, "listing.update", err)
	}
	applog.Audit(c, "listing.update", map[string]any{"listing_id": id, "user_id": body.UserID})
	return c.JSON(fiber.Map{"message": "listing updated"})
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, "listing.delete", fmt.Errorf("%w: bad listing id", domain.ErrValidation))
	}
	var body struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "listing.delete.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	if err := h.Catalog.Delete(int64(id), body.UserID); err != nil {
		return fail(c, "listing.delete", err)
	}
	applog.Audit(c, "listing.delete", map[string]any{"listing_id": id, "user_id": body.UserID})
	return c.JSON(fiber.Map{"message": "listing deleted"})
}

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/services"
	"tradepost/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type buyBody struct {
	UserID          int64  `json:"user_id"`
	Quantity        int    `json:"quantity"`
	ShippingAddress string `json:"shipping_address"`
	IdempotencyKey  string `json:"idempotency_key"`
}

func (h *OrderHandler) Buy(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("listing_id")
	if err != nil {
		return fail(c, "order.buy", fmt.Errorf("%w: bad listing id", domain.ErrValidation))
	}
	var body buyBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "order.buy.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	addr, ok := validate.Address(body.ShippingAddress)
	if !ok {
		return fail(c, "order.buy.validate", fmt.Errorf("%w: shipping address required", domain.ErrValidation))
	}

	res, err := h.Orders.Purchase(services.PurchaseInput{
		ListingID:       int64(listingID),
		BuyerID:         body.UserID,
		Quantity:        validate.Qty(body.Quantity),
		ShippingAddress: addr,
		IdempotencyKey:  body.IdempotencyKey,
	})
	if err != nil {
		return fail(c, "order.buy", err)
	}
	applog.Audit(c, "order.buy", map[string]any{
		"transaction_id": res.TransactionID,
		"ref":            res.Ref,
		"listing_id":     listingID,
		"buyer_id":       body.UserID,
	})
	return c.JSON(fiber.Map{
		"message":           "purchase complete",
		"transaction_id":    res.TransactionID,
		"ref":               res.Ref,
		"delivery_estimate": res.DeliveryEstimate,
	})
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("transaction_id")
	if err != nil {
		return fail(c, "order.cancel", fmt.Errorf("%w: bad transaction id", domain.ErrValidation))
	}
	if err := h.Orders.Cancel(int64(id)); err != nil {
		return fail(c, "order.cancel", err)
	}
	applog.Audit(c, "order.cancel", map[string]any{"transaction_id": id})
	return c.JSON(fiber.Map{"message": "order cancelled and refunded"})
}

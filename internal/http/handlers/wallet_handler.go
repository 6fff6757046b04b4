package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/services"
)

type WalletHandler struct {
	Wallet *services.WalletService
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	var body struct {
		UserID int64        `json:"user_id"`
		Amount domain.Cents `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "wallet.deposit.parse", fmt.Errorf("%w: bad request body", domain.ErrValidation))
	}
	balance, err := h.Wallet.Deposit(body.UserID, body.Amount)
	if err != nil {
		return fail(c, "wallet.deposit", err)
	}
	applog.Audit(c, "wallet.deposit", map[string]any{"user_id": body.UserID, "amount": body.Amount.String()})
	return c.JSON(fiber.Map{"message": "deposit successful", "new_balance": balance})
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/services"
)

// statusFor maps the error taxonomy onto HTTP statuses. Business-rule and
// not-found failures are expected caller errors; integrity failures are
// internal and should alert.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientInventory),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInvalidParty),
		errors.Is(err, domain.ErrDuplicateCartItem):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrBadCreds):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrCancellationNotAllowed),
		errors.Is(err, domain.ErrCancellationWindowExpired):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUsernameTaken):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail logs and renders an error. 5xx bodies stay generic so internals
// never leak; expected errors echo their message.
func fail(c *fiber.Ctx, action string, err error) error {
	st := statusFor(err)
	if st >= fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		return c.Status(st).JSON(fiber.Map{"error": "internal error"})
	}
	applog.Security(c, action, map[string]any{"error": err.Error()})
	return c.Status(st).JSON(fiber.Map{"error": err.Error()})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/services"
)

// PayHandler settles a due by card and returns the receipt
func (h *Handler) PayHandler(c *fiber.Ctx) error {
	user, err := caller(c) // Set by AuthMiddleware
	if err != nil {
		return err
	}
	var request services.PaymentInput
	if err := parseBody(c, &request); err != nil {
		return err
	}

	receipt, err := h.ledger.Pay(c.UserContext(), user, request)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "receipt": receipt})
}

// ListPaymentsHandler lists the payments visible to the caller
func (h *Handler) ListPaymentsHandler(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}

	payments, err := h.ledger.ListPayments(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"payments": payments})
}

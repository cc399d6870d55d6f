package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/services"
)

// ListDuesHandler returns the caller's dues; admins see every apartment
func (h *Handler) ListDuesHandler(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}

	period := c.Query("period") // Optional YYYY-MM filter
	dues, err := h.ledger.ListDues(c.UserContext(), user, period)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"dues": dues})
}

// ApplyDuesHandler creates the dues of a period for occupied apartments
func (h *Handler) ApplyDuesHandler(c *fiber.Ctx) error {
	var request services.ApplyDuesInput
	if err := parseBody(c, &request); err != nil {
		return err
	}

	created, err := h.ledger.ApplyDues(c.UserContext(), request)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "created": created})
}

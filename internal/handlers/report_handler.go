package handlers

import "github.com/gofiber/fiber/v2"

// SummaryHandler returns ledger wide totals
func (h *Handler) SummaryHandler(c *fiber.Ctx) error {
	summary, err := h.ledger.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// MonthlyHandler returns due totals per period
func (h *Handler) MonthlyHandler(c *fiber.Ctx) error {
	monthly, err := h.ledger.Monthly(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"monthly": monthly})
}

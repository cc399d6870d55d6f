package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/services"
)

// ListExpensesHandler lists building expenses
func (h *Handler) ListExpensesHandler(c *fiber.Ctx) error {
	expenses, err := h.ledger.ListExpenses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"expenses": expenses})
}

// CreateExpenseHandler records a building expense
func (h *Handler) CreateExpenseHandler(c *fiber.Ctx) error {
	var request services.ExpenseInput
	if err := parseBody(c, &request); err != nil {
		return err
	}

	expense, err := h.ledger.CreateExpense(c.UserContext(), request)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "expense": expense})
}

// ListAnnouncementsHandler lists announcements, newest first
func (h *Handler) ListAnnouncementsHandler(c *fiber.Ctx) error {
	announcements, err := h.ledger.ListAnnouncements(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"announcements": announcements})
}

// CreateAnnouncementHandler publishes an announcement
func (h *Handler) CreateAnnouncementHandler(c *fiber.Ctx) error {
	var request services.AnnouncementInput
	if err := parseBody(c, &request); err != nil {
		return err
	}

	announcement, err := h.ledger.CreateAnnouncement(c.UserContext(), request)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "announcement": announcement})
}

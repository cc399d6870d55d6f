package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/services"
)

// ListApartmentsHandler lists apartments with their occupant
func (h *Handler) ListApartmentsHandler(c *fiber.Ctx) error {
	apartments, err := h.ledger.ListApartments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"apartments": apartments})
}

// CreateApartmentHandler adds an apartment
func (h *Handler) CreateApartmentHandler(c *fiber.Ctx) error {
	var request services.ApartmentInput
	if err := parseBody(c, &request); err != nil {
		return err
	}

	apartment, err := h.ledger.CreateApartment(c.UserContext(), request)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"apartment": apartment})
}

// UpdateApartmentHandler changes number or occupant of an apartment
func (h *Handler) UpdateApartmentHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return services.ErrApartmentNotFound
	}
	var request services.ApartmentInput
	if err := parseBody(c, &request); err != nil {
		return err
	}

	if err := h.ledger.UpdateApartment(c.UserContext(), id, request); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

// DeleteApartmentHandler removes an apartment and its dues
func (h *Handler) DeleteApartmentHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return services.ErrApartmentNotFound
	}

	if err := h.ledger.DeleteApartment(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

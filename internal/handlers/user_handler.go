package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/services"
)

// ListUsersHandler lists every user without credentials
func (h *Handler) ListUsersHandler(c *fiber.Ctx) error {
	users, err := h.ledger.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users})
}

// CreateUserHandler registers a new resident or admin
func (h *Handler) CreateUserHandler(c *fiber.Ctx) error {
	var request services.UserInput
	if err := parseBody(c, &request); err != nil {
		return err
	}

	user, err := h.ledger.CreateUser(c.UserContext(), request)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateUserHandler changes the fields present in the body
func (h *Handler) UpdateUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return services.ErrUserNotFound
	}
	var request services.UserInput
	if err := parseBody(c, &request); err != nil {
		return err
	}

	if err := h.ledger.UpdateUser(c.UserContext(), id, request); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

// DeleteUserHandler removes a user and ends their sessions
func (h *Handler) DeleteUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return services.ErrUserNotFound
	}

	if err := h.ledger.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	h.sessions.RevokeUser(id) // Tokens of a deleted user must stop working
	return c.JSON(fiber.Map{"ok": true})
}

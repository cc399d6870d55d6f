package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/middleware"
)

// LoginHandler checks phone and password and opens a session
func (h *Handler) LoginHandler(c *fiber.Ctx) error {
	var request struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &request); err != nil {
		return err
	}

	user, err := h.ledger.Login(c.UserContext(), request.Phone, request.Password)
	if err != nil {
		return err
	}

	token, err := h.sessions.Issue(user.ID) // Opaque token, lost on restart
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"token": token, "user": user.Public()})
}

// LogoutHandler revokes the bearer token of the current session
func (h *Handler) LogoutHandler(c *fiber.Ctx) error {
	h.sessions.Revoke(middleware.Token(c))
	return c.JSON(fiber.Map{"ok": true})
}

// MeHandler returns the authenticated user
func (h *Handler) MeHandler(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user.Public()})
}

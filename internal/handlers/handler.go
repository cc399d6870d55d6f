package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/arzan03/CondoLedger/internal/middleware"
	"github.com/arzan03/CondoLedger/internal/models"
	"github.com/arzan03/CondoLedger/internal/services"
	"github.com/arzan03/CondoLedger/internal/session"
)

type Handler struct {
	ledger   *services.Ledger
	sessions session.Registry
	log      *logrus.Logger
}

func NewHandler(ledger *services.Ledger, sessions session.Registry, log *logrus.Logger) *Handler {
	return &Handler{ledger: ledger, sessions: sessions, log: log}
}

var errInvalidBody = &services.Error{Kind: services.KindValidation, Message: "invalid request body"}

// parseBody decodes a JSON body. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}

func caller(c *fiber.Ctx) (models.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return models.User{}, services.ErrUnauthenticated
	}
	return user, nil
}

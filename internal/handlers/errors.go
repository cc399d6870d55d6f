package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/services"
)

var kindStatus = map[services.Kind]int{
	services.KindValidation:      http.StatusBadRequest,
	services.KindUnauthenticated: http.StatusUnauthorized,
	services.KindForbidden:       http.StatusForbidden,
	services.KindNotFound:        http.StatusNotFound,
	services.KindConflict:        http.StatusConflict,
	services.KindInternal:        http.StatusInternalServerError,
}

// classify turns err into a status code, an error kind and a message that is
// safe to return to the client.
func classify(err error) (int, services.Kind, string) {
	var se *services.Error
	if errors.As(err, &se) {
		return kindStatus[se.Kind], se.Kind, se.Message
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return fe.Code, services.KindNotFound, "endpoint not found"
		case fiber.StatusRequestEntityTooLarge:
			return fe.Code, services.KindValidation, "request body too large"
		case fiber.StatusRequestTimeout:
			return fe.Code, services.KindValidation, "request timed out"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, services.KindValidation, fe.Message
		}
	}

	switch {
	case errors.Is(err, db.ErrStoreUnavailable):
		return fiber.StatusInternalServerError, services.KindInternal, "ledger storage is unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusServiceUnavailable, services.KindInternal, "request was cancelled"
	}
	return fiber.StatusInternalServerError, services.KindInternal, "internal server error"
}

// ErrorHandler renders every failed request as {"error": ..., "code": ...}.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, kind, msg := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.WithError(err).
				WithField("method", c.Method()).
				WithField("path", c.Path()).
				Error("request failed")
		}
		return c.Status(status).JSON(fiber.Map{"error": msg, "code": kind})
	}
}

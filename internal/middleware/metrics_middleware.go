package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/metrics"
)

// MetricsMiddleware counts requests by method and final status code. Errors
// from the chain are rendered here so the recorded status is the one sent.
func MetricsMiddleware(c *fiber.Ctx) error {
	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	metrics.HTTPRequests.WithLabelValues(c.Method(), strconv.Itoa(c.Response().StatusCode())).Inc()
	return nil
}

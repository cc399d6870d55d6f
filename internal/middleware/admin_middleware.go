package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/services"
)

// AdminMiddleware ensures that only users with the admin role reach the route.
// It must run after AuthMiddleware.
func AdminMiddleware(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return services.ErrUnauthenticated
	}
	if !user.IsAdmin() {
		return services.ErrAdminRequired
	}
	return c.Next()
}

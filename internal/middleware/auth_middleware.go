package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/models"
	"github.com/arzan03/CondoLedger/internal/services"
	"github.com/arzan03/CondoLedger/internal/session"
)

const (
	localUser  = "user"
	localToken = "token"
)

// UserResolver loads the live user behind a session.
type UserResolver interface {
	CurrentUser(ctx context.Context, id int) (models.User, error)
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthMiddleware resolves the bearer token to a live user and stores it for
// the next handlers. Sessions of deleted users are rejected.
func AuthMiddleware(sessions session.Registry, users UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return services.ErrUnauthenticated
		}

		userID, err := sessions.Resolve(token)
		if err != nil {
			return services.ErrUnauthenticated
		}

		user, err := users.CurrentUser(c.UserContext(), userID)
		if err != nil {
			if services.KindOf(err) == services.KindUnauthenticated {
				sessions.Revoke(token)
			}
			return err
		}

		c.Locals(localUser, user)
		c.Locals(localToken, token)
		return c.Next()
	}
}

// CurrentUser returns the caller stored by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(localUser).(models.User)
	return user, ok
}

// Token returns the bearer token stored by AuthMiddleware.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}

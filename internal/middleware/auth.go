package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sabbir-ahmed/garage-server/internal/httperr"
	"github.com/sabbir-ahmed/garage-server/internal/services"
)

// RequireAuth validates the bearer token and stores the decoded email in the
// request context for the handlers behind it. A missing credential is a 401;
// a bad one is a 403.
func RequireAuth(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return httperr.Unauthorized("unauthorized access")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		email, err := tokens.Verify(tokenString)
		if err != nil {
			return httperr.Forbidden("forbidden access")
		}

		c.Locals("email", email)
		return c.Next()
	}
}

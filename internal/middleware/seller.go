package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sabbir-ahmed/garage-server/internal/httperr"
	"github.com/sabbir-ahmed/garage-server/internal/models"
)

// RequireSeller gates a route to users whose stored role is "seller". The
// role comes from the user collection, not the token, so a role change takes
// effect on the next request. Runs behind RequireAuth.
func RequireSeller(users *mongo.Collection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, _ := c.Locals("email").(string)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var user models.User
		err := users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return httperr.Forbidden("forbidden access")
			}
			return httperr.Unavailable("service unavailable")
		}

		if user.Role != "seller" {
			return httperr.Forbidden("forbidden access")
		}
		return c.Next()
	}
}

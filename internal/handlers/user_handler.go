package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sabbir-ahmed/garage-server/internal/httperr"
	"github.com/sabbir-ahmed/garage-server/internal/models"
)

type UserHandler struct {
	users *mongo.Collection
}

func NewUserHandler(db *mongo.Database) *UserHandler {
	return &UserHandler{users: db.Collection("users")}
}

// ListAll returns every user document.
func (h *UserHandler) ListAll(c *fiber.Ctx) error {
	return h.list(c, bson.M{})
}

// ListByRole returns a handler listing users with the given stored role.
func (h *UserHandler) ListByRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.list(c, bson.M{"role": role})
	}
}

func (h *UserHandler) list(c *fiber.Ctx, filter bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := h.users.Find(ctx, filter)
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	defer cursor.Close(ctx)

	users := []bson.M{}
	if err := cursor.All(ctx, &users); err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(users)
}

// Create inserts the posted document as-is. There is no uniqueness check on
// email; the last created document wins lookups by insertion order.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var user bson.M
	if err := c.BodyParser(&user); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.users.InsertOne(ctx, user)
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(fiber.Map{"acknowledged": true, "insertedId": result.InsertedID})
}

// IsAdmin reports whether the stored role for an email is "admin". An
// unknown email answers false, not an error.
func (h *UserHandler) IsAdmin(c *fiber.Ctx) error {
	role, err := h.roleOf(c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"isAdmin": role == "admin"})
}

// IsSeller reports whether the stored role for an email is "seller".
func (h *UserHandler) IsSeller(c *fiber.Ctx) error {
	role, err := h.roleOf(c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"isSeller": role == "seller"})
}

func (h *UserHandler) roleOf(email string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := h.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", httperr.Unavailable("service unavailable")
	}
	return user.Role, nil
}

// Delete removes one user by id.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httperr.BadRequest("invalid id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.users.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(fiber.Map{"acknowledged": true, "deletedCount": result.DeletedCount})
}

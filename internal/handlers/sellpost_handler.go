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
)

type SellPostHandler struct {
	sellposts *mongo.Collection
}

func NewSellPostHandler(db *mongo.Database) *SellPostHandler {
	return &SellPostHandler{sellposts: db.Collection("sellpost")}
}

// ListAll returns every sell post.
func (h *SellPostHandler) ListAll(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := h.sellposts.Find(ctx, bson.M{})
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	defer cursor.Close(ctx)

	posts := []bson.M{}
	if err := cursor.All(ctx, &posts); err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(posts)
}

// ListByOwner returns the authenticated seller's own posts. The email query
// parameter must match the token identity even though the seller gate already
// ran; the mismatch check is kept on purpose.
func (h *SellPostHandler) ListByOwner(c *fiber.Ctx) error {
	email := c.Query("email")
	decodedEmail, _ := c.Locals("email").(string)
	if email != decodedEmail {
		return httperr.Forbidden("forbidden access")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := h.sellposts.Find(ctx, bson.M{"email": email})
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	defer cursor.Close(ctx)

	posts := []bson.M{}
	if err := cursor.All(ctx, &posts); err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(posts)
}

// GetByID fetches one sell post. An absent document answers null, matching
// the findOne contract clients already depend on.
func (h *SellPostHandler) GetByID(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httperr.BadRequest("invalid id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post bson.M
	err = h.sellposts.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(nil)
		}
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(post)
}

// Create inserts the posted document as-is.
func (h *SellPostHandler) Create(c *fiber.Ctx) error {
	var post bson.M
	if err := c.BodyParser(&post); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.sellposts.InsertOne(ctx, post)
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(fiber.Map{"acknowledged": true, "insertedId": result.InsertedID})
}

// Delete removes one sell post by id. Deleting an absent id is not an error;
// the acknowledgment carries deletedCount 0.
func (h *SellPostHandler) Delete(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httperr.BadRequest("invalid id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.sellposts.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(fiber.Map{"acknowledged": true, "deletedCount": result.DeletedCount})
}

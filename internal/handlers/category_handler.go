package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sabbir-ahmed/garage-server/internal/httperr"
)

type CategoryHandler struct {
	categories *mongo.Collection
	sellposts  *mongo.Collection
}

func NewCategoryHandler(db *mongo.Database) *CategoryHandler {
	return &CategoryHandler{
		categories: db.Collection("category"),
		sellposts:  db.Collection("sellpost"),
	}
}

// ListCategories returns every category document.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := h.categories.Find(ctx, bson.M{})
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	defer cursor.Close(ctx)

	categories := []bson.M{}
	if err := cursor.All(ctx, &categories); err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(categories)
}

// ListCategoryPosts returns the sell posts filed under a category. The
// category_id field is a plain string reference, not an ObjectID.
func (h *CategoryHandler) ListCategoryPosts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := h.sellposts.Find(ctx, bson.M{"category_id": c.Params("id")})
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

package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sabbir-ahmed/garage-server/internal/httperr"
	"github.com/sabbir-ahmed/garage-server/internal/services"
)

type ImageHandler struct {
	images *services.ImageService
}

func NewImageHandler(images *services.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// Upload attaches a product photo to one of the authenticated seller's posts.
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	if err := h.images.Upload(c, c.Params("id"), email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "photo uploaded"})
}

// Presign returns a temporary download URL for a post's photo.
func (h *ImageHandler) Presign(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url, err := h.images.PresignedURL(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"presigned_url": url, "expires_in": "24 hours"})
}

// BatchPresign returns download URLs for all of the seller's posts that carry
// a photo. The seller may only ask for their own.
func (h *ImageHandler) BatchPresign(c *fiber.Ctx) error {
	email := c.Query("email")
	decodedEmail, _ := c.Locals("email").(string)
	if email != decodedEmail {
		return httperr.Forbidden("forbidden access")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	urls, err := h.images.BatchPresignedURLs(ctx, email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"urls": urls})
}

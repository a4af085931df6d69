package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sabbir-ahmed/garage-server/internal/services"
)

type TokenHandler struct {
	tokens *services.TokenService
}

func NewTokenHandler(tokens *services.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// Issue hands out an access token for an email that has a user record. An
// unknown email answers 403 with an empty accessToken rather than an error
// body; the frontend keys off the empty string.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	email := c.Query("email")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	token, err := h.tokens.Issue(ctx, email)
	if err != nil {
		if errors.Is(err, services.ErrUnknownEmail) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"accessToken": ""})
		}
		return err
	}
	return c.JSON(fiber.Map{"accessToken": token})
}

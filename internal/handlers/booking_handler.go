package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sabbir-ahmed/garage-server/internal/httperr"
	"github.com/sabbir-ahmed/garage-server/internal/services"
)

type BookingHandler struct {
	bookings *mongo.Collection
	svc      *services.BookingService
}

func NewBookingHandler(db *mongo.Database, svc *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: db.Collection("bookings"), svc: svc}
}

// Create inserts a booking unless one with the identical six-field tuple
// already exists. A duplicate is not an HTTP error: clients expect a 200 with
// acknowledged false and a message.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var booking bson.M
	if err := c.BodyParser(&booking); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.svc.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateBooking) {
			message := fmt.Sprintf("You already have a booking on %v", booking["name"])
			return c.JSON(fiber.Map{"acknowledged": false, "message": message})
		}
		return err
	}
	return c.JSON(fiber.Map{"acknowledged": true, "insertedId": result.InsertedID})
}

// ListAll returns every booking.
func (h *BookingHandler) ListAll(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := h.bookings.Find(ctx, bson.M{})
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	defer cursor.Close(ctx)

	bookings := []bson.M{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(bookings)
}

// Delete removes one booking by id.
func (h *BookingHandler) Delete(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httperr.BadRequest("invalid id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.bookings.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}
	return c.JSON(fiber.Map{"acknowledged": true, "deletedCount": result.DeletedCount})
}

package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sabbir-ahmed/garage-server/internal/httperr"
)

// ErrDuplicateBooking is returned by Create when a booking with the same
// (productName, price, name, email, location, phone) tuple already exists.
var ErrDuplicateBooking = errors.New("booking already exists")

// BookingService owns the duplicate check for new bookings.
type BookingService struct {
	bookings *mongo.Collection
}

func NewBookingService(bookings *mongo.Collection) *BookingService {
	return &BookingService{bookings: bookings}
}

// Create inserts a booking document unless an identical tuple already exists.
// The check and the insert are two separate operations with no transaction, so
// concurrent identical bookings can both land; upstream treats that as an
// accepted product tradeoff.
func (s *BookingService) Create(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	query := bson.M{
		"productName": doc["productName"],
		"price":       doc["price"],
		"name":        doc["name"],
		"email":       doc["email"],
		"location":    doc["location"],
		"phone":       doc["phone"],
	}

	err := s.bookings.FindOne(ctx, query).Err()
	if err == nil {
		return nil, ErrDuplicateBooking
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, httperr.Unavailable("service unavailable")
	}

	result, err := s.bookings.InsertOne(ctx, doc)
	if err != nil {
		return nil, httperr.Unavailable("service unavailable")
	}
	return result, nil
}

package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error is a request failure with a fixed HTTP status. Handlers and services
// return it through the normal error path; Handler translates it to a response
// at the outermost layer, so no handler writes an error status itself.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Unauthorized(msg string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: fiber.StatusForbidden, Message: msg}
}

func BadRequest(msg string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: msg}
}

func Unavailable(msg string) *Error {
	return &Error{Status: fiber.StatusServiceUnavailable, Message: msg}
}

// Handler is the Fiber ErrorHandler for the whole app. Typed errors keep
// their status, Fiber's own routing errors keep theirs, anything else is a 500.
func Handler(c *fiber.Ctx, err error) error {
	var he *Error
	if errors.As(err, &he) {
		return c.Status(he.Status).JSON(fiber.Map{"message": he.Message})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}

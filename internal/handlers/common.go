package handlers

import (
	"errors"
	"fmt"

	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionHeader carries the opaque cart session key. The server issues a
// fresh key when the client sends none and echoes it back on every cart
// response so the client can persist it.
const SessionHeader = "X-Session-Key"

func sessionKey(c *fiber.Ctx) string {
	key := c.Get(SessionHeader)
	if key == "" {
		key = uuid.New().String()
	}
	c.Set(SessionHeader, key)
	return key
}

// validationMessages flattens validator errors into a field->reason map.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return messages
}

// respondError maps service and repository errors onto HTTP responses.
// Insufficient stock carries its shortages so the client can fix the cart
// in one pass.
func respondError(c *fiber.Ctx, message string, err error) error {
	var insufficient *services.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":   message,
			"error":     insufficient.Error(),
			"shortages": insufficient.Shortages,
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrNotShipped),
		errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrAlreadyShipped):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}

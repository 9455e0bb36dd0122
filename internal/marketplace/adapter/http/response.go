package http

import (
	apperrors "estatehub/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// successResponse is the JSON envelope for successful responses.
func successResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}

// errorResponse is the JSON envelope for failures.
func errorResponse(message string, statusCode int) fiber.Map {
	return fiber.Map{
		"success": false,
		"error": fiber.Map{
			"message":    message,
			"statusCode": statusCode,
		},
	}
}

// respondError maps an error to its HTTP status and envelope. Internal errors
// are masked with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "internal server error"
	}
	return c.Status(status).JSON(errorResponse(message, status))
}

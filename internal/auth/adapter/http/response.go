package http

import "github.com/gofiber/fiber/v2"

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

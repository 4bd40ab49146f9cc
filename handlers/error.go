package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"transcript-gateway/errors"
)

// ErrorHandler is the central fiber error handler. Typed AppErrors keep
// their status and client message; anything else becomes a generic 500
// so internal detail never reaches the caller.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if appErr, ok := errors.AsAppError(err); ok {
		code = appErr.Code
		message = appErr.Message
	}

	log.Error().
		Str("request_id", c.Get("X-Request-ID")).
		Str("path", c.Path()).
		Str("method", c.Method()).
		Int("status", code).
		Err(err).
		Msg("Request error")

	return c.Status(code).JSON(fiber.Map{
		"error":      message,
		"request_id": c.Get("X-Request-ID"),
	})
}

package middleware

import (
	"github.com/gofiber/fiber/v2"

	"transcript-gateway/config"
	"transcript-gateway/errors"
)

// APIKey checks the static credential header on every API request.
func APIKey(cfg config.AuthConfig) fiber.Handler {
	const op = "Middleware.APIKey"

	return func(c *fiber.Ctx) error {
		key := c.Get(cfg.HeaderName)
		if key == "" {
			return errors.Unauthorized(op, nil, "Missing API key")
		}
		if key != cfg.APIKey {
			return errors.Unauthorized(op, nil, "Invalid API key")
		}
		return c.Next()
	}
}

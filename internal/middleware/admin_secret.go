package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/classpulse/classboard-api/internal/utils"
)

// AdminSecretHeader carries the shared teacher secret on admin requests.
const AdminSecretHeader = "X-Admin-Secret"

// AdminSecret returns a middleware granting access when the request carries
// the configured shared secret. There is deliberately no lockout or backoff;
// the admin surface is a hidden view in a low-stakes classroom tool.
func AdminSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := strings.TrimSpace(c.Get(AdminSecretHeader))
		if provided == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "admin secret missing")
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			return utils.SendError(c, fiber.StatusUnauthorized, "admin secret mismatch")
		}

		return c.Next()
	}
}

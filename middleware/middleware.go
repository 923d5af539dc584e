package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"procurement/config"
	"procurement/session"
)

// LoadSession attaches the session named by the token to the request. A session
// that is no longer in the store (for example after a restart) is recreated
// empty under the same id.
func LoadSession(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid, ok := c.Locals("sessionID").(string)
		if !ok || sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Session not found in token"})
		}
		c.Locals("session", store.GetOrCreate(sid))
		return c.Next()
	}
}

// Session returns the session attached by LoadSession, or nil.
func Session(c *fiber.Ctx) *session.State {
	s, _ := c.Locals("session").(*session.State)
	return s
}

// RequestLogger logs one line per request with its status and duration.
func RequestLogger() fiber.Handler {
	log := config.GetLogger()
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
		}).Info("[HTTP] request")
		return err
	}
}

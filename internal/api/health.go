package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Health reports database connectivity.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.db.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

package handlers

import (
	"context"

	"towerdb/config"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports the reachability of each backend by name.
type Pinger interface {
	Ping(ctx context.Context) map[string]error
}

// HealthHandler answers 200 while every configured backend responds and 503
// otherwise.
func HealthHandler(router fiber.Router, config config.Config, pinger Pinger) {
	router.Get("/health", func(c *fiber.Ctx) error {
		status, code := "ok", fiber.StatusOK
		checks := fiber.Map{}

		for name, err := range pinger.Ping(c.UserContext()) {
			if err != nil {
				checks[name] = err.Error()
				status, code = "degraded", fiber.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		return c.Status(code).JSON(fiber.Map{
			"status":  status,
			"service": "towerdb",
			"version": config.GeneralVersion,
			"checks":  checks,
		})
	})
}

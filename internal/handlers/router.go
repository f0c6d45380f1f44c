package handlers

import (
	"towerdb/internal/app"
	"towerdb/internal/handlers/middleware"
	"towerdb/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	api := router.Group("/api")
	HealthHandler(api, app.Config, &app.Database)
	NewTowerHandler(*app, api).Register()
	NewContactHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

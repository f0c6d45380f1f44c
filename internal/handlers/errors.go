package handlers

import (
	"errors"

	towerController "towerdb/internal/controllers/towers"
	"towerdb/internal/repositories"
	"towerdb/internal/services"
	"towerdb/internal/types"
	"towerdb/internal/validation"
	"towerdb/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

var (
	badRequestErrors = []error{
		types.ErrInvalidRequest,
		validation.ErrMissingField,
		services.ErrInvalidContact,
	}
	notFoundErrors = []error{
		repositories.ErrTowerNotFound,
		repositories.ErrContactNotFound,
		repositories.ErrImportRunNotFound,
		services.ErrJobNotFound,
	}
	conflictErrors = []error{
		repositories.ErrDuplicateTower,
		repositories.ErrDuplicateContactMethod,
		services.ErrReloadInProgress,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps a controller error to its HTTP status. Zero means the error
// is unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidTower):
		return fiber.StatusUnprocessableEntity
	case isAny(err, badRequestErrors):
		return fiber.StatusBadRequest
	case isAny(err, notFoundErrors):
		return fiber.StatusNotFound
	case isAny(err, conflictErrors):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrSpreadsheetNotConfigured):
		return fiber.StatusServiceUnavailable
	}
	return 0
}

// respondError writes the error body for err. Unexpected errors are logged
// and answered with msg only.
func respondError(c *fiber.Ctx, log logger.Logger, msg string, err error) error {
	status := statusFor(err)
	if status == 0 {
		_ = log.Err(msg, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": msg,
		})
	}

	if status == fiber.StatusUnprocessableEntity {
		var errs validation.Errors
		if errors.As(err, &errs) {
			check := towerController.NewCheckResponse(errs)
			return c.Status(status).JSON(fiber.Map{
				"error":             services.ErrInvalidTower.Error(),
				"errors":            check.Errors,
				"fieldErrors":       check.FieldErrors,
				"consistencyErrors": check.ConsistencyErrors,
			})
		}
	}

	log.Warn(msg, "error", err, "status", status)
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func invalidBody(c *fiber.Ctx, log logger.Logger, err error) error {
	log.Warn("Invalid request body", "error", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid id",
	})
}

package handlers

import (
	"towerdb/internal/app"
	adminController "towerdb/internal/controllers/admin"
	"towerdb/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin")

	admin.Get("/status", h.getStatus)
	admin.Post("/reload", h.reload)
	admin.Get("/imports", h.listImports)
	admin.Post("/cache/clear", h.clearCache)
}

// reload waits for the reload to finish unless async=true, in which case the
// scheduled reload job is started in the background.
func (h *AdminHandler) reload(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("reload")

	if c.QueryBool("async") {
		if err := h.adminController.TriggerReload(c.UserContext()); err != nil {
			return respondError(c, log, "Failed to trigger reload", err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "Reload started",
		})
	}

	run, err := h.adminController.Reload(c.UserContext())
	if err != nil {
		if run != nil && statusFor(err) == 0 {
			_ = log.Err("Reload failed", err, "importRunID", run.ID)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":     "Reload failed",
				"importRun": run,
			})
		}
		return respondError(c, log, "Reload failed", err)
	}

	return c.JSON(fiber.Map{
		"importRun": run,
	})
}

func (h *AdminHandler) listImports(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listImports")

	runs, err := h.adminController.ImportRuns(c.UserContext(), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, log, "Failed to list import runs", err)
	}

	return c.JSON(fiber.Map{
		"importRuns": runs,
	})
}

func (h *AdminHandler) clearCache(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("clearCache")

	var towerID *int
	if id := c.QueryInt("towerId"); id > 0 {
		towerID = &id
	}

	if err := h.adminController.ClearCache(c.UserContext(), towerID); err != nil {
		return respondError(c, log, "Failed to clear cache", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Cache invalidation published",
	})
}

func (h *AdminHandler) getStatus(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getStatus")

	status, err := h.adminController.Status(c.UserContext())
	if err != nil {
		return respondError(c, log, "Failed to retrieve status", err)
	}

	return c.JSON(status)
}

package handlers

import (
	"towerdb/internal/app"
	contactController "towerdb/internal/controllers/contacts"
	towerController "towerdb/internal/controllers/towers"
	"towerdb/internal/repositories"
	"towerdb/internal/types"
	"towerdb/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type TowerHandler struct {
	Handler
	towerController   towerController.TowerControllerInterface
	contactController contactController.ContactControllerInterface
}

func NewTowerHandler(app app.App, router fiber.Router) *TowerHandler {
	log := logger.New("handlers").File("tower_handler")
	return &TowerHandler{
		towerController:   app.Controllers.Tower,
		contactController: app.Controllers.Contact,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TowerHandler) Register() {
	towers := h.router.Group("/towers")

	towers.Get("", h.listTowers)
	towers.Post("", h.createTower)
	towers.Post("/validate", h.checkTower)
	towers.Get("/:id", h.getTower)
	towers.Put("/:id", h.updateTower)
	towers.Delete("/:id", h.deleteTower)
	towers.Post("/:id/contacts", h.addTowerContact)
}

func (h *TowerHandler) listTowers(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listTowers")

	var filter repositories.TowerFilter
	if err := c.QueryParser(&filter); err != nil {
		log.Warn("Invalid tower filter", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filter",
		})
	}

	towers, err := h.towerController.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, log, "Failed to list towers", err)
	}

	return c.JSON(fiber.Map{
		"towers": towers,
	})
}

func (h *TowerHandler) getTower(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getTower")

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	tower, err := h.towerController.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, "Failed to retrieve tower", err)
	}

	return c.JSON(fiber.Map{
		"tower": tower,
	})
}

func (h *TowerHandler) createTower(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createTower")

	var req types.TowerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, log, err)
	}

	tower, err := h.towerController.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, "Failed to create tower", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"tower": tower,
	})
}

func (h *TowerHandler) updateTower(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateTower")

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	var req types.TowerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, log, err)
	}

	tower, err := h.towerController.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, "Failed to update tower", err)
	}

	return c.JSON(fiber.Map{
		"tower": tower,
	})
}

func (h *TowerHandler) deleteTower(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteTower")

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	if err := h.towerController.Delete(c.UserContext(), id); err != nil {
		return respondError(c, log, "Failed to delete tower", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// checkTower validates a tower without saving it. A record with errors is
// still a 200; the body says whether it is valid.
func (h *TowerHandler) checkTower(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("checkTower")

	var req types.TowerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, log, err)
	}

	response, err := h.towerController.Check(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, "Failed to check tower", err)
	}

	return c.JSON(response)
}

func (h *TowerHandler) addTowerContact(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("addTowerContact")

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	var req types.TowerContactRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, log, err)
	}

	contactMap, err := h.contactController.AddToTower(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, "Failed to add tower contact", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"contact": contactMap,
	})
}

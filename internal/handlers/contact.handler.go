package handlers

import (
	"towerdb/internal/app"
	contactController "towerdb/internal/controllers/contacts"
	"towerdb/internal/types"
	"towerdb/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	Handler
	contactController contactController.ContactControllerInterface
}

func NewContactHandler(app app.App, router fiber.Router) *ContactHandler {
	log := logger.New("handlers").File("contact_handler")
	return &ContactHandler{
		contactController: app.Controllers.Contact,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ContactHandler) Register() {
	contacts := h.router.Group("/contacts")

	contacts.Get("", h.listContacts)
	contacts.Post("", h.createContact)
	contacts.Get("/:id", h.getContact)
	contacts.Delete("/:id", h.deleteContact)
	contacts.Post("/:id/methods", h.addContactMethod)
}

func (h *ContactHandler) listContacts(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listContacts")

	contacts, err := h.contactController.List(c.UserContext())
	if err != nil {
		return respondError(c, log, "Failed to list contacts", err)
	}

	return c.JSON(fiber.Map{
		"contacts": contacts,
	})
}

func (h *ContactHandler) getContact(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getContact")

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	contact, err := h.contactController.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, "Failed to retrieve contact", err)
	}

	return c.JSON(fiber.Map{
		"contact": contact,
	})
}

func (h *ContactHandler) createContact(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createContact")

	var req types.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, log, err)
	}

	contact, err := h.contactController.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, "Failed to create contact", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"contact": contact,
	})
}

func (h *ContactHandler) deleteContact(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteContact")

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	if err := h.contactController.Delete(c.UserContext(), id); err != nil {
		return respondError(c, log, "Failed to delete contact", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContactHandler) addContactMethod(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("addContactMethod")

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	var req types.ContactMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, log, err)
	}

	method, err := h.contactController.AddMethod(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, "Failed to add contact method", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"method": method,
	})
}

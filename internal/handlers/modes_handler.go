package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-resume-expert/internal/models"
	"alfredoptarigan/ats-resume-expert/internal/services"
)

type ModesHandler struct {
	catalog *services.PromptCatalog
}

func NewModesHandler(catalog *services.PromptCatalog) *ModesHandler {
	return &ModesHandler{catalog: catalog}
}

// HandleList handles GET /modes. Prompt text is not exposed.
func (h *ModesHandler) HandleList(c *fiber.Ctx) error {
	return c.JSON(models.ModesResponse{Modes: h.catalog.Modes()})
}

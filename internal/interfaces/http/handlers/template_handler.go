package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pavani-labs/pulse-survey-api/internal/application/usecases"
)

// TemplateHandler lida com a listagem de templates de relatório
type TemplateHandler struct {
	templateUseCase *usecases.TemplateUseCase
}

// NewTemplateHandler cria uma nova instância de TemplateHandler
func NewTemplateHandler(templateUseCase *usecases.TemplateUseCase) *TemplateHandler {
	return &TemplateHandler{
		templateUseCase: templateUseCase,
	}
}

// List retorna os templates ativos de uma abordagem
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	approachID := c.Params("approachId")

	templates, err := h.templateUseCase.ListByApproach(c.UserContext(), approachID)
	if err != nil {
		return reportError(c, err)
	}

	return c.JSON(fiber.Map{
		"templates": templates,
	})
}

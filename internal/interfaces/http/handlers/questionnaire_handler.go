package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pavani-labs/pulse-survey-api/internal/application/usecases"
)

// QuestionnaireHandler lida com requisições relacionadas a questionários
type QuestionnaireHandler struct {
	questionnaireUseCase *usecases.QuestionnaireUseCase
}

// NewQuestionnaireHandler cria uma nova instância de QuestionnaireHandler
func NewQuestionnaireHandler(questionnaireUseCase *usecases.QuestionnaireUseCase) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		questionnaireUseCase: questionnaireUseCase,
	}
}

// Create cria um questionário no escopo da organização autenticada
func (h *QuestionnaireHandler) Create(c *fiber.Ctx) error {
	organizationID := c.Params("orgId")

	var input usecases.CreateQuestionnaireInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	questionnaire, err := h.questionnaireUseCase.Create(c.UserContext(), organizationID, input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create questionnaire"})
	}

	return c.Status(fiber.StatusCreated).JSON(questionnaire)
}

// List retorna os questionários da organização com paginação
func (h *QuestionnaireHandler) List(c *fiber.Ctx) error {
	organizationID := c.Params("orgId")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid 'page' parameter"})
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid 'limit' parameter"})
	}

	questionnaires, total, err := h.questionnaireUseCase.List(c.UserContext(), organizationID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list questionnaires"})
	}

	return c.JSON(fiber.Map{
		"data":  questionnaires,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Get retorna um questionário com a contagem de respostas coletadas
func (h *QuestionnaireHandler) Get(c *fiber.Ctx) error {
	organizationID := c.Params("orgId")
	questionnaireID := c.Params("id")

	questionnaire, responseCount, err := h.questionnaireUseCase.Get(c.UserContext(), organizationID, questionnaireID)
	if err != nil {
		return reportError(c, err)
	}

	return c.JSON(fiber.Map{
		"questionnaire":  questionnaire,
		"response_count": responseCount,
	})
}

package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/pavani-labs/pulse-survey-api/internal/application/usecases"
	"github.com/pavani-labs/pulse-survey-api/internal/interfaces/http/middleware"
)

// ResponseHandler lida com o envio de respostas por participantes
type ResponseHandler struct {
	responseUseCase *usecases.ResponseUseCase
}

// NewResponseHandler cria uma nova instância de ResponseHandler
func NewResponseHandler(responseUseCase *usecases.ResponseUseCase) *ResponseHandler {
	return &ResponseHandler{
		responseUseCase: responseUseCase,
	}
}

// Submit registra as respostas do participante autenticado por token.
// O questionário alvo vem do token, não da URL, e reenvios substituem a
// resposta anterior do mesmo participante.
func (h *ResponseHandler) Submit(c *fiber.Ctx) error {
	participantID, _ := c.Locals(middleware.LocalParticipantID).(string)
	questionnaireID, _ := c.Locals(middleware.LocalQuestionnaireID).(string)

	var body struct {
		Answers json.RawMessage `json:"answers"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Answers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "answers payload is required"})
	}

	response, err := h.responseUseCase.Submit(c.UserContext(), questionnaireID, participantID, body.Answers)
	if err != nil {
		return reportError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           response.ID,
		"submitted_at": response.SubmittedAt,
	})
}

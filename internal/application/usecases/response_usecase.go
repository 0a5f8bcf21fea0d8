package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pavani-labs/pulse-survey-api/internal/application/reports"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/repositories"
	"gorm.io/datatypes"
)

// ResponseUseCase implementa o envio de respostas por participantes
type ResponseUseCase struct {
	questionnaireRepo *repositories.QuestionnaireRepository
	responseRepo      *repositories.ResponseRepository
}

// NewResponseUseCase cria uma nova instância de ResponseUseCase
func NewResponseUseCase(questionnaireRepo *repositories.QuestionnaireRepository, responseRepo *repositories.ResponseRepository) *ResponseUseCase {
	return &ResponseUseCase{
		questionnaireRepo: questionnaireRepo,
		responseRepo:      responseRepo,
	}
}

// Submit registra as respostas de um participante a um questionário ativo.
// Um reenvio do mesmo participante substitui as respostas anteriores
// (upsert in place), nunca cria uma segunda linha.
func (u *ResponseUseCase) Submit(ctx context.Context, questionnaireID, participantID string, answers json.RawMessage) (*entities.Response, error) {
	questionnaire, err := u.questionnaireRepo.FindActiveByID(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}
	if questionnaire == nil {
		return nil, &reports.NotFoundError{Resource: "questionnaire", ID: questionnaireID}
	}

	// Reject payloads that are not a JSON object up front; the aggregator
	// would silently skip them later.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(answers, &probe); err != nil {
		return nil, &reports.ConfigurationError{Reason: "answers payload must be a JSON object keyed by question id"}
	}

	response := &entities.Response{
		QuestionnaireID: questionnaireID,
		ParticipantID:   participantID,
		Answers:         datatypes.JSON(answers),
		SubmittedAt:     time.Now().UTC(),
	}
	if err := u.responseRepo.Upsert(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

package usecases

import (
	"context"
	"time"

	"github.com/pavani-labs/pulse-survey-api/internal/application/reports"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/repositories"
)

// QuestionnaireUseCase implementa os casos de uso de questionários
type QuestionnaireUseCase struct {
	questionnaireRepo *repositories.QuestionnaireRepository
	responseRepo      *repositories.ResponseRepository
}

// NewQuestionnaireUseCase cria uma nova instância de QuestionnaireUseCase
func NewQuestionnaireUseCase(questionnaireRepo *repositories.QuestionnaireRepository, responseRepo *repositories.ResponseRepository) *QuestionnaireUseCase {
	return &QuestionnaireUseCase{
		questionnaireRepo: questionnaireRepo,
		responseRepo:      responseRepo,
	}
}

// CreateQuestionnaireInput são os campos aceitos na criação
type CreateQuestionnaireInput struct {
	Title      string     `json:"title"`
	ApproachID *string    `json:"approach_id,omitempty"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
}

// Create cria um questionário no escopo da organização
func (u *QuestionnaireUseCase) Create(ctx context.Context, organizationID string, input CreateQuestionnaireInput) (*entities.Questionnaire, error) {
	questionnaire := &entities.Questionnaire{
		OrganizationID: organizationID,
		Title:          input.Title,
		Status:         entities.QuestionnaireDraft,
		ApproachID:     input.ApproachID,
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
	}
	if err := u.questionnaireRepo.Create(ctx, questionnaire); err != nil {
		return nil, err
	}
	return questionnaire, nil
}

// List retorna os questionários da organização com paginação
func (u *QuestionnaireUseCase) List(ctx context.Context, organizationID string, page, limit int) ([]entities.Questionnaire, int64, error) {
	return u.questionnaireRepo.List(ctx, organizationID, page, limit)
}

// Get retorna um questionário do escopo da organização junto com a
// contagem de respostas coletadas
func (u *QuestionnaireUseCase) Get(ctx context.Context, organizationID, questionnaireID string) (*entities.Questionnaire, int64, error) {
	questionnaire, err := u.questionnaireRepo.FindByID(ctx, organizationID, questionnaireID)
	if err != nil {
		return nil, 0, err
	}
	if questionnaire == nil {
		return nil, 0, &reports.NotFoundError{Resource: "questionnaire", ID: questionnaireID}
	}
	total, err := u.responseRepo.CountByQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return nil, 0, err
	}
	return questionnaire, total, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"gorm.io/gorm"
)

// QuestionnaireRepository implementa métodos para acesso a dados de questionários
type QuestionnaireRepository struct {
	db *gorm.DB
}

// NewQuestionnaireRepository cria uma nova instância de QuestionnaireRepository
func NewQuestionnaireRepository(db *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{
		db: db,
	}
}

// FindByID busca um questionário pelo id dentro do escopo da organização.
// Retorna (nil, nil) quando não encontrado ou fora do escopo.
func (r *QuestionnaireRepository) FindByID(ctx context.Context, organizationID, questionnaireID string) (*entities.Questionnaire, error) {
	var questionnaire entities.Questionnaire
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", questionnaireID, organizationID).
		First(&questionnaire).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar questionário: %w", err)
	}
	return &questionnaire, nil
}

// FindActiveByID busca um questionário ativo pelo id, sem escopo de
// organização. Usado pelo caminho do participante, que é autenticado por
// token e não pertence a organização alguma.
func (r *QuestionnaireRepository) FindActiveByID(ctx context.Context, questionnaireID string) (*entities.Questionnaire, error) {
	var questionnaire entities.Questionnaire
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", questionnaireID, entities.QuestionnaireActive).
		First(&questionnaire).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar questionário: %w", err)
	}
	return &questionnaire, nil
}

// Create persiste um novo questionário
func (r *QuestionnaireRepository) Create(ctx context.Context, questionnaire *entities.Questionnaire) error {
	if err := r.db.WithContext(ctx).Create(questionnaire).Error; err != nil {
		return fmt.Errorf("erro ao criar questionário: %w", err)
	}
	return nil
}

// List retorna os questionários de uma organização com paginação
func (r *QuestionnaireRepository) List(ctx context.Context, organizationID string, page, limit int) ([]entities.Questionnaire, int64, error) {
	var questionnaires []entities.Questionnaire
	var total int64

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := r.db.WithContext(ctx).
		Model(&entities.Questionnaire{}).
		Where("organization_id = ?", organizationID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("erro ao contar questionários: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&questionnaires).Error; err != nil {
		return nil, 0, fmt.Errorf("erro ao buscar questionários: %w", err)
	}

	return questionnaires, total, nil
}

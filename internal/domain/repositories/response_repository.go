package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"gorm.io/gorm"
)

// ResponseRepository implementa métodos para acesso a dados de respostas
type ResponseRepository struct {
	db *gorm.DB
}

// NewResponseRepository cria uma nova instância de ResponseRepository
func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{
		db: db,
	}
}

// ListByQuestionnaire retorna todas as respostas de um questionário
// ordenadas por data de envio
func (r *ResponseRepository) ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]entities.Response, error) {
	var responses []entities.Response
	err := r.db.WithContext(ctx).
		Where("questionnaire_id = ?", questionnaireID).
		Order("submitted_at asc").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar respostas: %w", err)
	}
	return responses, nil
}

// CountByQuestionnaire retorna o número de respostas de um questionário
func (r *ResponseRepository) CountByQuestionnaire(ctx context.Context, questionnaireID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&entities.Response{}).
		Where("questionnaire_id = ?", questionnaireID).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("erro ao contar respostas: %w", err)
	}
	return total, nil
}

// Upsert persiste a resposta de um participante. Um reenvio do mesmo
// participante atualiza a linha existente in place (chaveado pelo par
// questionário + participante), nunca duplica.
func (r *ResponseRepository) Upsert(ctx context.Context, response *entities.Response) error {
	var existing entities.Response
	err := r.db.WithContext(ctx).
		Where("questionnaire_id = ? AND participant_id = ?", response.QuestionnaireID, response.ParticipantID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(response).Error; err != nil {
			return fmt.Errorf("erro ao criar resposta: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("erro ao buscar resposta existente: %w", err)
	}

	updates := map[string]interface{}{
		"answers":      response.Answers,
		"submitted_at": response.SubmittedAt,
	}
	if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("erro ao atualizar resposta: %w", err)
	}
	response.ID = existing.ID
	response.CreatedAt = existing.CreatedAt
	return nil
}

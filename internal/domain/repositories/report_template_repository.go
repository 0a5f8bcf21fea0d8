package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"gorm.io/gorm"
)

// ReportTemplateRepository implementa métodos para acesso a templates de relatório
type ReportTemplateRepository struct {
	db *gorm.DB
}

// NewReportTemplateRepository cria uma nova instância de ReportTemplateRepository
func NewReportTemplateRepository(db *gorm.DB) *ReportTemplateRepository {
	return &ReportTemplateRepository{
		db: db,
	}
}

// FindByID busca um template pelo id. Retorna (nil, nil) quando não encontrado.
func (r *ReportTemplateRepository) FindByID(ctx context.Context, templateID string) (*entities.ReportTemplate, error) {
	var template entities.ReportTemplate
	err := r.db.WithContext(ctx).
		Where("id = ?", templateID).
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar template: %w", err)
	}
	return &template, nil
}

// ListActiveByApproach retorna os templates ativos de uma abordagem na
// ordem declarada. Templates inativos ficam fora da geração em lote.
func (r *ReportTemplateRepository) ListActiveByApproach(ctx context.Context, approachID string) ([]entities.ReportTemplate, error) {
	var templates []entities.ReportTemplate
	err := r.db.WithContext(ctx).
		Where("approach_id = ? AND is_active = ?", approachID, true).
		Order("position asc").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar templates ativos: %w", err)
	}
	return templates, nil
}

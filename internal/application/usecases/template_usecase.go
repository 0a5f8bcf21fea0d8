package usecases

import (
	"context"

	"github.com/pavani-labs/pulse-survey-api/internal/application/reports"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/repositories"
)

// TemplateUseCase implementa a listagem de templates de relatório por abordagem
type TemplateUseCase struct {
	templateRepo *repositories.ReportTemplateRepository
}

// NewTemplateUseCase cria uma nova instância de TemplateUseCase
func NewTemplateUseCase(templateRepo *repositories.ReportTemplateRepository) *TemplateUseCase {
	return &TemplateUseCase{
		templateRepo: templateRepo,
	}
}

// ListByApproach retorna os templates ativos de uma abordagem, na ordem de
// posição, com a configuração já decodificada
func (u *TemplateUseCase) ListByApproach(ctx context.Context, approachID string) ([]TemplateSummary, error) {
	templates, err := u.templateRepo.ListActiveByApproach(ctx, approachID)
	if err != nil {
		return nil, err
	}

	summaries := make([]TemplateSummary, 0, len(templates))
	for _, template := range templates {
		cfg, err := reports.ParseTemplateConfig(template.Config)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, TemplateSummary{
			ID:     template.ID,
			Name:   template.Name,
			Type:   template.Type,
			Config: cfg,
		})
	}
	return summaries, nil
}

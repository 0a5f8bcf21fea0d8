package usecases

import (
	"context"
	"time"

	"github.com/pavani-labs/pulse-survey-api/internal/application/renderers"
	"github.com/pavani-labs/pulse-survey-api/internal/application/reports"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/repositories"
	"github.com/pavani-labs/pulse-survey-api/internal/infrastructure/cache"
)

// reportDetailTTL limita por quanto tempo a leitura de um relatório
// completo pode ser servida do cache antes de reconsultar o banco
const reportDetailTTL = 5 * time.Minute

// ReportSummary é o resumo retornado pela geração de relatórios
type ReportSummary struct {
	ID                   string                `json:"id"`
	TemplateID           string                `json:"template_id"`
	Status               entities.ReportStatus `json:"status"`
	EstimatedTimeSeconds *int                  `json:"estimated_time_seconds,omitempty"`
}

// ReportDetail é a visão completa de um relatório para o caminho de leitura
type ReportDetail struct {
	ID            string                `json:"id"`
	Status        entities.ReportStatus `json:"status"`
	Template      TemplateSummary       `json:"template"`
	Questionnaire QuestionnaireSummary  `json:"questionnaire"`
	ComputedData  *reports.ComputedData `json:"computed_data,omitempty"`
	Rendered      *renderers.Node       `json:"rendered,omitempty"`
	Metadata      ReportMetadata        `json:"metadata"`
}

// TemplateSummary resume o template de um relatório
type TemplateSummary struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Type   entities.ReportType    `json:"type"`
	Config reports.TemplateConfig `json:"config"`
}

// QuestionnaireSummary resume o questionário de um relatório
type QuestionnaireSummary struct {
	ID     string                       `json:"id"`
	Title  string                       `json:"title"`
	Status entities.QuestionnaireStatus `json:"status"`
}

// ReportMetadata agrupa os metadados de geração
type ReportMetadata struct {
	GeneratedAt    *time.Time `json:"generated_at,omitempty"`
	ResponseCount  int        `json:"response_count"`
	CompletionRate *float64   `json:"completion_rate,omitempty"`
}

// ReportUseCase implementa os casos de uso de geração e leitura de relatórios
type ReportUseCase struct {
	generator  *reports.Generator
	reportRepo *repositories.ReportRepository
	cache      *cache.ReportCache
}

// NewReportUseCase cria uma nova instância de ReportUseCase
func NewReportUseCase(generator *reports.Generator, reportRepo *repositories.ReportRepository, reportCache *cache.ReportCache) *ReportUseCase {
	return &ReportUseCase{
		generator:  generator,
		reportRepo: reportRepo,
		cache:      reportCache,
	}
}

// GenerateReports gera o relatório de um template específico ou, quando
// templateID é vazio, todos os templates ativos da abordagem do
// questionário. No modo de template único os erros de pré-condição chegam
// ao chamador sem tradução; no modo lote as falhas por template são
// isoladas e omitidas do resultado.
func (u *ReportUseCase) GenerateReports(ctx context.Context, organizationID, questionnaireID, templateID string, force bool) ([]ReportSummary, error) {
	if templateID != "" {
		report, err := u.generator.Generate(ctx, organizationID, questionnaireID, templateID, force)
		if err != nil {
			return nil, err
		}
		u.cache.Invalidate(report.ID)
		return []ReportSummary{summarize(report)}, nil
	}

	batch, err := u.generator.GenerateAll(ctx, organizationID, questionnaireID, force)
	if err != nil {
		return nil, err
	}
	summaries := make([]ReportSummary, 0, len(batch.Reports))
	for _, report := range batch.Reports {
		u.cache.Invalidate(report.ID)
		summaries = append(summaries, summarize(report))
	}
	return summaries, nil
}

// GetReport retorna a visão completa de um relatório, opcionalmente com a
// árvore de apresentação montada pelo renderer do tipo do template.
// Relatórios completos são servidos do cache até a próxima geração.
func (u *ReportUseCase) GetReport(ctx context.Context, organizationID, reportID string, rendered bool) (*ReportDetail, error) {
	cacheKey := reportID
	if rendered {
		cacheKey = reportID + ":rendered"
	}
	if detail, ok := u.cache.Get(cacheKey); ok {
		if cached, ok := detail.(*ReportDetail); ok {
			return cached, nil
		}
	}

	report, err := u.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil || report.Questionnaire.OrganizationID != organizationID {
		return nil, &reports.NotFoundError{Resource: "report", ID: reportID}
	}

	cfg, err := reports.ParseTemplateConfig(report.Template.Config)
	if err != nil {
		return nil, err
	}

	detail := &ReportDetail{
		ID:     report.ID,
		Status: report.Status,
		Template: TemplateSummary{
			ID:     report.Template.ID,
			Name:   report.Template.Name,
			Type:   report.Template.Type,
			Config: cfg,
		},
		Questionnaire: QuestionnaireSummary{
			ID:     report.Questionnaire.ID,
			Title:  report.Questionnaire.Title,
			Status: report.Questionnaire.Status,
		},
		Metadata: ReportMetadata{
			GeneratedAt:   report.GeneratedAt,
			ResponseCount: report.ResponseCount,
		},
	}

	if report.Status == entities.ReportComplete {
		data, err := reports.ParseComputedData(report.ComputedData)
		if err != nil {
			return nil, err
		}
		detail.ComputedData = data
		detail.Metadata.CompletionRate = &data.CompletionRate
		if rendered {
			node, err := renderers.Render(report.Template.Type, data, cfg)
			if err != nil {
				return nil, err
			}
			detail.Rendered = node
		}
		u.cache.Set(cacheKey, detail, reportDetailTTL)
	}

	return detail, nil
}

func summarize(report *entities.Report) ReportSummary {
	summary := ReportSummary{
		ID:         report.ID,
		TemplateID: report.TemplateID,
		Status:     report.Status,
	}
	if report.Status == entities.ReportGenerating {
		// Rough estimate proportional to the sample size.
		estimate := 2 + report.ResponseCount/50
		summary.EstimatedTimeSeconds = &estimate
	}
	return summary
}

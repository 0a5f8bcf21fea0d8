package repositories

import (
	"context"
	"time"

	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportStore agrega os repositórios na interface de persistência que o
// gerador de relatórios consome (reports.Store)
type ReportStore struct {
	questionnaires *QuestionnaireRepository
	templates      *ReportTemplateRepository
	responses      *ResponseRepository
	reports        *ReportRepository
}

// NewReportStore cria o store de relatórios sobre a conexão GORM
func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{
		questionnaires: NewQuestionnaireRepository(db),
		templates:      NewReportTemplateRepository(db),
		responses:      NewResponseRepository(db),
		reports:        NewReportRepository(db),
	}
}

func (s *ReportStore) GetQuestionnaire(ctx context.Context, organizationID, questionnaireID string) (*entities.Questionnaire, error) {
	return s.questionnaires.FindByID(ctx, organizationID, questionnaireID)
}

func (s *ReportStore) GetTemplate(ctx context.Context, templateID string) (*entities.ReportTemplate, error) {
	return s.templates.FindByID(ctx, templateID)
}

func (s *ReportStore) ListActiveTemplates(ctx context.Context, approachID string) ([]entities.ReportTemplate, error) {
	return s.templates.ListActiveByApproach(ctx, approachID)
}

func (s *ReportStore) ListResponses(ctx context.Context, questionnaireID string) ([]entities.Response, error) {
	return s.responses.ListByQuestionnaire(ctx, questionnaireID)
}

func (s *ReportStore) FindReport(ctx context.Context, questionnaireID, templateID string) (*entities.Report, error) {
	return s.reports.FindByPair(ctx, questionnaireID, templateID)
}

func (s *ReportStore) CreateReport(ctx context.Context, report *entities.Report) error {
	return s.reports.Create(ctx, report)
}

func (s *ReportStore) TransitionStatus(ctx context.Context, reportID string, from, to entities.ReportStatus) (bool, error) {
	return s.reports.TransitionStatus(ctx, reportID, from, to)
}

func (s *ReportStore) ReclaimStale(ctx context.Context, reportID string, seen time.Time) (bool, error) {
	return s.reports.ReclaimStale(ctx, reportID, seen)
}

func (s *ReportStore) SaveComputed(ctx context.Context, reportID string, data datatypes.JSON, responseCount int, generatedAt time.Time) error {
	return s.reports.SaveComputed(ctx, reportID, data, responseCount, generatedAt)
}

func (s *ReportStore) SetStatus(ctx context.Context, reportID string, status entities.ReportStatus) error {
	return s.reports.SetStatus(ctx, reportID, status)
}

package reports

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StaleAfter bounds how long a report may sit in generating status before
// it is considered abandoned (crashed worker, lost request) and becomes
// claimable again.
const StaleAfter = 10 * time.Minute

// Logger is the observability collaborator injected into the generator.
// *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Store is the persistence boundary the generator drives. Lookups return
// (nil, nil) when the row does not exist; the generator owns the not-found
// decision. TransitionStatus must be a conditional write: it reports false
// without touching the row when the current status no longer matches from.
// CreateReport must surface a unique-pair violation as gorm.ErrDuplicatedKey.
// ReclaimStale is the conditional write for rows already generating: it only
// succeeds when the row's updated_at still matches the value the caller read,
// so two callers racing on the same stale row cannot both reclaim it.
type Store interface {
	GetQuestionnaire(ctx context.Context, organizationID, questionnaireID string) (*entities.Questionnaire, error)
	GetTemplate(ctx context.Context, templateID string) (*entities.ReportTemplate, error)
	ListActiveTemplates(ctx context.Context, approachID string) ([]entities.ReportTemplate, error)
	ListResponses(ctx context.Context, questionnaireID string) ([]entities.Response, error)
	FindReport(ctx context.Context, questionnaireID, templateID string) (*entities.Report, error)
	CreateReport(ctx context.Context, report *entities.Report) error
	TransitionStatus(ctx context.Context, reportID string, from, to entities.ReportStatus) (bool, error)
	ReclaimStale(ctx context.Context, reportID string, seen time.Time) (bool, error)
	SaveComputed(ctx context.Context, reportID string, data datatypes.JSON, responseCount int, generatedAt time.Time) error
	SetStatus(ctx context.Context, reportID string, status entities.ReportStatus) error
}

// Generator owns the lifecycle of report rows: pending -> generating ->
// complete | error. The generating transition is the only concurrency
// control; two callers racing on the same pair converge on one computation.
type Generator struct {
	store Store
	log   Logger
	now   func() time.Time
}

// NewGenerator creates a generator over the given store.
func NewGenerator(store Store, logger Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{store: store, log: logger, now: time.Now}
}

// BatchFailure records one template whose generation failed inside a batch.
type BatchFailure struct {
	TemplateID string
	Err        error
}

// BatchResult is the outcome of batch generation. Failed templates are
// logged and omitted from Reports instead of aborting the batch.
type BatchResult struct {
	Reports []*entities.Report
	Failed  []BatchFailure
}

// Generate creates or refreshes the report for one (questionnaire, template)
// pair. A complete report is returned unchanged unless force is set.
// InsufficientDataError leaves the prior status untouched; any other
// aggregation or store fault moves the row to error status.
func (g *Generator) Generate(ctx context.Context, organizationID, questionnaireID, templateID string, force bool) (*entities.Report, error) {
	questionnaire, err := g.store.GetQuestionnaire(ctx, organizationID, questionnaireID)
	if err != nil {
		return nil, err
	}
	if questionnaire == nil {
		return nil, &NotFoundError{Resource: "questionnaire", ID: questionnaireID}
	}

	template, err := g.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil || questionnaire.ApproachID == nil || template.ApproachID != *questionnaire.ApproachID {
		return nil, &NotFoundError{Resource: "report template", ID: templateID}
	}

	report, err := g.store.FindReport(ctx, questionnaireID, templateID)
	if err != nil {
		return nil, err
	}
	if report != nil && report.Status == entities.ReportComplete && !force {
		return report, nil
	}

	report, prior, err := g.claim(ctx, questionnaireID, templateID, report)
	if err != nil {
		return nil, err
	}

	return g.compute(ctx, report, prior, questionnaire, template)
}

// GenerateAll runs generation for every active template of the
// questionnaire's approach, in template order, isolating per-template
// failures. Pairs held by a concurrent caller come back as their in-flight
// generating rows. It fails fast with NotFoundError when the questionnaire
// has no approach or the approach has no active templates.
func (g *Generator) GenerateAll(ctx context.Context, organizationID, questionnaireID string, force bool) (*BatchResult, error) {
	questionnaire, err := g.store.GetQuestionnaire(ctx, organizationID, questionnaireID)
	if err != nil {
		return nil, err
	}
	if questionnaire == nil {
		return nil, &NotFoundError{Resource: "questionnaire", ID: questionnaireID}
	}
	if questionnaire.ApproachID == nil {
		return nil, &NotFoundError{Resource: "approach for questionnaire", ID: questionnaireID}
	}

	templates, err := g.store.ListActiveTemplates(ctx, *questionnaire.ApproachID)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, &NotFoundError{Resource: "active report templates for approach", ID: *questionnaire.ApproachID}
	}

	result := &BatchResult{}
	for _, template := range templates {
		report, err := g.Generate(ctx, organizationID, questionnaireID, template.ID, force)
		if err != nil {
			if errors.Is(err, ErrGenerationInProgress) {
				// Another caller holds the pair; surface the in-flight row
				// instead of treating it as a failure.
				if inflight, findErr := g.store.FindReport(ctx, questionnaireID, template.ID); findErr == nil && inflight != nil {
					result.Reports = append(result.Reports, inflight)
					continue
				}
			}
			g.log.Printf("[reports] batch generation skipped template %s for questionnaire %s: %v", template.ID, questionnaireID, err)
			result.Failed = append(result.Failed, BatchFailure{TemplateID: template.ID, Err: err})
			continue
		}
		result.Reports = append(result.Reports, report)
	}
	return result, nil
}

// claim moves the pair into generating status, creating the row when it
// does not exist. A row already generating is only reclaimable once stale,
// and the reclaim is conditioned on the row version read here.
func (g *Generator) claim(ctx context.Context, questionnaireID, templateID string, existing *entities.Report) (*entities.Report, entities.ReportStatus, error) {
	if existing == nil {
		report := &entities.Report{
			QuestionnaireID: questionnaireID,
			TemplateID:      templateID,
			Status:          entities.ReportGenerating,
		}
		if err := g.store.CreateReport(ctx, report); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Unique index on the pair: a concurrent caller created it first.
				return nil, "", ErrGenerationInProgress
			}
			return nil, "", err
		}
		return report, entities.ReportPending, nil
	}

	if existing.Status == entities.ReportGenerating {
		if g.now().Sub(existing.UpdatedAt) < StaleAfter {
			return nil, "", ErrGenerationInProgress
		}
		ok, err := g.store.ReclaimStale(ctx, existing.ID, existing.UpdatedAt)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return nil, "", ErrGenerationInProgress
		}
		// The prior run never finished; the restore target on insufficient
		// data is the last status that meant something.
		prior := entities.ReportPending
		if len(existing.ComputedData) > 0 {
			prior = entities.ReportComplete
		}
		return existing, prior, nil
	}

	ok, err := g.store.TransitionStatus(ctx, existing.ID, existing.Status, entities.ReportGenerating)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrGenerationInProgress
	}
	prior := existing.Status
	existing.Status = entities.ReportGenerating
	return existing, prior, nil
}

func (g *Generator) compute(ctx context.Context, report *entities.Report, prior entities.ReportStatus, questionnaire *entities.Questionnaire, template *entities.ReportTemplate) (*entities.Report, error) {
	rows, err := g.store.ListResponses(ctx, questionnaire.ID)
	if err != nil {
		return nil, g.fail(ctx, report, questionnaire.ID, template.ID, err)
	}
	parsed, skipped := ParseResponses(rows)
	if skipped > 0 {
		g.log.Printf("[reports] questionnaire %s: %d responses with undecodable payloads ignored", questionnaire.ID, skipped)
	}

	cfg, err := ParseTemplateConfig(template.Config)
	if err != nil {
		return nil, g.fail(ctx, report, questionnaire.ID, template.ID, err)
	}

	data, err := Aggregate(parsed, cfg)
	if err != nil {
		var insufficient *InsufficientDataError
		if errors.As(err, &insufficient) {
			// Precondition failure, not a fault: put the prior status back.
			if restoreErr := g.store.SetStatus(ctx, report.ID, prior); restoreErr != nil {
				g.log.Printf("[reports] failed to restore status %s on report %s: %v", prior, report.ID, restoreErr)
			}
			report.Status = prior
			return nil, err
		}
		return nil, g.fail(ctx, report, questionnaire.ID, template.ID, err)
	}

	raw, err := data.Marshal()
	if err != nil {
		return nil, g.fail(ctx, report, questionnaire.ID, template.ID, err)
	}
	generatedAt := g.now().UTC()
	if err := g.store.SaveComputed(ctx, report.ID, raw, data.ResponseCount, generatedAt); err != nil {
		return nil, g.fail(ctx, report, questionnaire.ID, template.ID, err)
	}

	report.Status = entities.ReportComplete
	report.ComputedData = raw
	report.ResponseCount = data.ResponseCount
	report.GeneratedAt = &generatedAt
	return report, nil
}

// fail persists error status and wraps the fault with enough context to
// diagnose. The wrapped error stays reachable through errors.As.
func (g *Generator) fail(ctx context.Context, report *entities.Report, questionnaireID, templateID string, cause error) error {
	if err := g.store.SetStatus(ctx, report.ID, entities.ReportError); err != nil {
		g.log.Printf("[reports] failed to mark report %s as error: %v", report.ID, err)
	}
	report.Status = entities.ReportError
	g.log.Printf("[reports] generation failed for questionnaire %s template %s: %v", questionnaireID, templateID, cause)
	return &GenerationError{QuestionnaireID: questionnaireID, TemplateID: templateID, Err: cause}
}

package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type stubStore struct {
	mu            sync.Mutex
	questionnaire *entities.Questionnaire
	templates     map[string]*entities.ReportTemplate
	active        []entities.ReportTemplate
	responses     []entities.Response
	reports       map[string]*entities.Report
	byID          map[string]*entities.Report
	nextID        int
	saveCount     int
	listCalls     int
	createErr     error
}

func pairKey(questionnaireID, templateID string) string {
	return questionnaireID + "|" + templateID
}

func (s *stubStore) GetQuestionnaire(ctx context.Context, organizationID, questionnaireID string) (*entities.Questionnaire, error) {
	if s.questionnaire != nil && s.questionnaire.ID == questionnaireID && s.questionnaire.OrganizationID == organizationID {
		copy := *s.questionnaire
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) GetTemplate(ctx context.Context, templateID string) (*entities.ReportTemplate, error) {
	if t, ok := s.templates[templateID]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) ListActiveTemplates(ctx context.Context, approachID string) ([]entities.ReportTemplate, error) {
	out := []entities.ReportTemplate{}
	for _, t := range s.active {
		if t.ApproachID == approachID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubStore) ListResponses(ctx context.Context, questionnaireID string) ([]entities.Response, error) {
	s.mu.Lock()
	s.listCalls++
	s.mu.Unlock()
	return s.responses, nil
}

func (s *stubStore) FindReport(ctx context.Context, questionnaireID, templateID string) (*entities.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reports[pairKey(questionnaireID, templateID)]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) CreateReport(ctx context.Context, report *entities.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	key := pairKey(report.QuestionnaireID, report.TemplateID)
	if _, exists := s.reports[key]; exists {
		return fmt.Errorf("relatório já existe para o par: %w", gorm.ErrDuplicatedKey)
	}
	s.nextID++
	report.ID = fmt.Sprintf("report-%d", s.nextID)
	report.CreatedAt = time.Now()
	report.UpdatedAt = time.Now()
	stored := *report
	s.reports[key] = &stored
	s.byID[report.ID] = &stored
	return nil
}

func (s *stubStore) TransitionStatus(ctx context.Context, reportID string, from, to entities.ReportStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[reportID]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	r.UpdatedAt = time.Now()
	return true, nil
}

func (s *stubStore) ReclaimStale(ctx context.Context, reportID string, seen time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[reportID]
	if !ok || r.Status != entities.ReportGenerating || !r.UpdatedAt.Equal(seen) {
		return false, nil
	}
	r.UpdatedAt = time.Now()
	return true, nil
}

func (s *stubStore) SaveComputed(ctx context.Context, reportID string, data datatypes.JSON, responseCount int, generatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[reportID]
	if !ok {
		return errors.New("report not found")
	}
	r.Status = entities.ReportComplete
	r.ComputedData = data
	r.ResponseCount = responseCount
	r.GeneratedAt = &generatedAt
	r.UpdatedAt = time.Now()
	s.saveCount++
	return nil
}

func (s *stubStore) SetStatus(ctx context.Context, reportID string, status entities.ReportStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.byID[reportID]; ok {
		r.Status = status
		r.UpdatedAt = time.Now()
	}
	return nil
}

func (s *stubStore) storedReport(questionnaireID, templateID string) *entities.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[pairKey(questionnaireID, templateID)]
}

func scalePayload(t *testing.T, answers map[string]float64) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(answers)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return datatypes.JSON(raw)
}

func storedResponses(t *testing.T, n int) []entities.Response {
	t.Helper()
	purpose := []float64{70, 80, 90, 60, 75, 65}
	autonomy := []float64{50, 60, 55, 65, 70, 45}
	rows := make([]entities.Response, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, entities.Response{
			Base:            entities.Base{ID: fmt.Sprintf("resp-%d", i)},
			QuestionnaireID: "qn1",
			ParticipantID:   fmt.Sprintf("p%d", i),
			Answers:         scalePayload(t, map[string]float64{"purpose": purpose[i%6], "autonomy": autonomy[i%6]}),
			SubmittedAt:     time.Date(2026, 3, 1, 10, i, 0, 0, time.UTC),
		})
	}
	return rows
}

func newStubStore(t *testing.T) *stubStore {
	t.Helper()
	approachID := "ap1"
	return &stubStore{
		questionnaire: &entities.Questionnaire{
			Base:           entities.Base{ID: "qn1"},
			OrganizationID: "org1",
			Title:          "Engagement 2026",
			Status:         entities.QuestionnaireActive,
			ApproachID:     &approachID,
		},
		templates: map[string]*entities.ReportTemplate{
			"tpl1": {
				Base:       entities.Base{ID: "tpl1"},
				ApproachID: approachID,
				Name:       "Flower",
				Type:       entities.ReportTypeFlower,
				Config:     datatypes.JSON(`{"dimensions": ["purpose", "autonomy"]}`),
				IsActive:   true,
			},
		},
		responses: storedResponses(t, 6),
		reports:   make(map[string]*entities.Report),
		byID:      make(map[string]*entities.Report),
	}
}

func newTestGenerator(store *stubStore) *Generator {
	return NewGenerator(store, log.New(io.Discard, "", 0))
}

func TestGenerateComputesAndPersists(t *testing.T) {
	store := newStubStore(t)
	g := newTestGenerator(store)

	report, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != entities.ReportComplete {
		t.Errorf("status = %s, want complete", report.Status)
	}
	if report.ResponseCount != 6 {
		t.Errorf("response count = %d, want 6", report.ResponseCount)
	}
	if report.GeneratedAt == nil {
		t.Error("generated_at not set")
	}

	data, err := ParseComputedData(report.ComputedData)
	if err != nil {
		t.Fatalf("computed data unreadable: %v", err)
	}
	if data.OverallScore != 65.4 {
		t.Errorf("overall score = %v, want 65.4", data.OverallScore)
	}

	stored := store.storedReport("qn1", "tpl1")
	if stored == nil || stored.Status != entities.ReportComplete {
		t.Fatalf("stored row = %+v, want complete", stored)
	}
}

func TestGenerateFastPathSkipsRecomputation(t *testing.T) {
	store := newStubStore(t)
	g := newTestGenerator(store)

	first, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	listCallsAfterFirst := store.listCalls

	second, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.saveCount != 1 {
		t.Errorf("saveCount = %d, want 1 (second call must not recompute)", store.saveCount)
	}
	if store.listCalls != listCallsAfterFirst {
		t.Errorf("responses were reloaded on the fast path")
	}
	if string(first.ComputedData) != string(second.ComputedData) {
		t.Errorf("fast path returned different data")
	}
}

func TestGenerateForceRecomputes(t *testing.T) {
	store := newStubStore(t)
	g := newTestGenerator(store)

	if _, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Responses changed since the first computation.
	store.responses = storedResponses(t, 6)
	store.responses[0].Answers = scalePayload(t, map[string]float64{"purpose": 100, "autonomy": 100})

	report, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.saveCount != 2 {
		t.Errorf("saveCount = %d, want 2 (force must recompute)", store.saveCount)
	}
	data, err := ParseComputedData(report.ComputedData)
	if err != nil {
		t.Fatalf("computed data unreadable: %v", err)
	}
	if data.Dimensions["purpose"].Value == 73.3 {
		t.Errorf("forced recomputation did not pick up changed responses")
	}
}

func TestGenerateInsufficientDataLeavesStatus(t *testing.T) {
	t.Run("new pair stays pending", func(t *testing.T) {
		store := newStubStore(t)
		store.responses = storedResponses(t, 3)
		g := newTestGenerator(store)

		_, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
		var insufficient *InsufficientDataError
		if !errors.As(err, &insufficient) {
			t.Fatalf("expected InsufficientDataError, got %v", err)
		}
		stored := store.storedReport("qn1", "tpl1")
		if stored == nil || stored.Status != entities.ReportPending {
			t.Errorf("stored row = %+v, want pending (never error)", stored)
		}
	})

	t.Run("complete pair keeps complete", func(t *testing.T) {
		store := newStubStore(t)
		g := newTestGenerator(store)
		if _, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		store.responses = storedResponses(t, 2)
		_, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", true)
		var insufficient *InsufficientDataError
		if !errors.As(err, &insufficient) {
			t.Fatalf("expected InsufficientDataError, got %v", err)
		}
		stored := store.storedReport("qn1", "tpl1")
		if stored.Status != entities.ReportComplete {
			t.Errorf("status = %s, want complete restored after insufficient data", stored.Status)
		}
		if len(stored.ComputedData) == 0 {
			t.Error("previous computed data was lost")
		}
	})
}

func TestGenerateFaultMarksError(t *testing.T) {
	store := newStubStore(t)
	store.templates["tpl1"].Config = datatypes.JSON(`{"dimensions": 12}`)
	g := newTestGenerator(store)

	_, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
	var generation *GenerationError
	if !errors.As(err, &generation) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	var configuration *ConfigurationError
	if !errors.As(err, &configuration) {
		t.Errorf("wrapped ConfigurationError not reachable: %v", err)
	}
	stored := store.storedReport("qn1", "tpl1")
	if stored == nil || stored.Status != entities.ReportError {
		t.Errorf("stored row = %+v, want error status", stored)
	}
}

func TestGenerateNotFound(t *testing.T) {
	store := newStubStore(t)
	g := newTestGenerator(store)

	cases := []struct {
		name                              string
		orgID, questionnaireID, templateID string
	}{
		{"unknown questionnaire", "org1", "missing", "tpl1"},
		{"wrong organization", "org2", "qn1", "tpl1"},
		{"unknown template", "org1", "qn1", "missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), tc.orgID, tc.questionnaireID, tc.templateID, false)
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("expected NotFoundError, got %v", err)
			}
		})
	}
}

func TestGenerateAllPartialFailure(t *testing.T) {
	store := newStubStore(t)
	goodConfig := datatypes.JSON(`{"dimensions": ["purpose", "autonomy"]}`)
	templates := []entities.ReportTemplate{
		{Base: entities.Base{ID: "tplA"}, ApproachID: "ap1", Name: "A", Type: entities.ReportTypeFlower, Config: goodConfig, IsActive: true, Position: 1},
		{Base: entities.Base{ID: "tplB"}, ApproachID: "ap1", Name: "B", Type: entities.ReportTypeSummary, Config: datatypes.JSON(`{"dimensions": 12}`), IsActive: true, Position: 2},
		{Base: entities.Base{ID: "tplC"}, ApproachID: "ap1", Name: "C", Type: entities.ReportTypeSummary, Config: goodConfig, IsActive: true, Position: 3},
	}
	for i := range templates {
		store.templates[templates[i].ID] = &templates[i]
	}
	store.active = templates
	g := newTestGenerator(store)

	result, err := g.GenerateAll(context.Background(), "org1", "qn1", false)
	if err != nil {
		t.Fatalf("batch must not abort on a per-template failure: %v", err)
	}
	if len(result.Reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(result.Reports))
	}
	if result.Reports[0].TemplateID != "tplA" || result.Reports[1].TemplateID != "tplC" {
		t.Errorf("report order = %s, %s; want tplA, tplC", result.Reports[0].TemplateID, result.Reports[1].TemplateID)
	}
	if len(result.Failed) != 1 || result.Failed[0].TemplateID != "tplB" {
		t.Errorf("failed = %+v, want single tplB entry", result.Failed)
	}
}

func TestGenerateAllIncludesInFlightPair(t *testing.T) {
	store := newStubStore(t)
	goodConfig := datatypes.JSON(`{"dimensions": ["purpose", "autonomy"]}`)
	templates := []entities.ReportTemplate{
		{Base: entities.Base{ID: "tplA"}, ApproachID: "ap1", Name: "A", Type: entities.ReportTypeFlower, Config: goodConfig, IsActive: true, Position: 1},
		{Base: entities.Base{ID: "tplB"}, ApproachID: "ap1", Name: "B", Type: entities.ReportTypeSummary, Config: goodConfig, IsActive: true, Position: 2},
	}
	for i := range templates {
		store.templates[templates[i].ID] = &templates[i]
	}
	store.active = templates

	// Another caller holds tplA.
	busy := &entities.Report{
		Base:            entities.Base{ID: "report-busy", UpdatedAt: time.Now()},
		QuestionnaireID: "qn1",
		TemplateID:      "tplA",
		Status:          entities.ReportGenerating,
	}
	store.reports[pairKey("qn1", "tplA")] = busy
	store.byID[busy.ID] = busy
	g := newTestGenerator(store)

	result, err := g.GenerateAll(context.Background(), "org1", "qn1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Failed) != 0 {
		t.Errorf("failed = %+v, want none (in-flight pair is not a failure)", result.Failed)
	}
	if len(result.Reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(result.Reports))
	}
	if result.Reports[0].TemplateID != "tplA" || result.Reports[0].Status != entities.ReportGenerating {
		t.Errorf("in-flight pair = %s/%s, want tplA still generating", result.Reports[0].TemplateID, result.Reports[0].Status)
	}
	if result.Reports[1].TemplateID != "tplB" || result.Reports[1].Status != entities.ReportComplete {
		t.Errorf("second pair = %s/%s, want tplB complete", result.Reports[1].TemplateID, result.Reports[1].Status)
	}
}

func TestGenerateAllFailsFast(t *testing.T) {
	t.Run("no approach", func(t *testing.T) {
		store := newStubStore(t)
		store.questionnaire.ApproachID = nil
		g := newTestGenerator(store)

		_, err := g.GenerateAll(context.Background(), "org1", "qn1", false)
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("no active templates", func(t *testing.T) {
		store := newStubStore(t)
		store.active = nil
		g := newTestGenerator(store)

		_, err := g.GenerateAll(context.Background(), "org1", "qn1", false)
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if store.saveCount != 0 {
			t.Errorf("no generation should have been attempted")
		}
	})
}

// Two simultaneous callers for the same pair must converge on exactly one
// computation; the loser is told to retry, never silently double-computed.
func TestGenerateConcurrentDuplicates(t *testing.T) {
	store := newStubStore(t)
	g := newTestGenerator(store)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
		}(i)
	}
	wg.Wait()

	if store.saveCount != 1 {
		t.Errorf("saveCount = %d, want exactly 1", store.saveCount)
	}
	succeeded := 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrGenerationInProgress):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded == 0 {
		t.Error("at least one caller must succeed")
	}
}

func TestGenerateReclaimsStaleRow(t *testing.T) {
	store := newStubStore(t)
	g := newTestGenerator(store)

	stale := &entities.Report{
		Base: entities.Base{
			ID:        "report-stale",
			UpdatedAt: time.Now().Add(-2 * StaleAfter),
		},
		QuestionnaireID: "qn1",
		TemplateID:      "tpl1",
		Status:          entities.ReportGenerating,
	}
	store.reports[pairKey("qn1", "tpl1")] = stale
	store.byID[stale.ID] = stale

	report, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
	if err != nil {
		t.Fatalf("stale generating row must be reclaimable: %v", err)
	}
	if report.Status != entities.ReportComplete {
		t.Errorf("status = %s, want complete", report.Status)
	}
}

// The stale-row reclaim is conditioned on the row version both callers read:
// only one reclaimer may win, the other is told to retry.
func TestGenerateConcurrentStaleReclaim(t *testing.T) {
	store := newStubStore(t)
	g := newTestGenerator(store)

	stale := &entities.Report{
		Base: entities.Base{
			ID:        "report-stale",
			UpdatedAt: time.Now().Add(-2 * StaleAfter),
		},
		QuestionnaireID: "qn1",
		TemplateID:      "tpl1",
		Status:          entities.ReportGenerating,
	}
	store.reports[pairKey("qn1", "tpl1")] = stale
	store.byID[stale.ID] = stale

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
		}(i)
	}
	wg.Wait()

	if store.saveCount != 1 {
		t.Errorf("saveCount = %d, want exactly 1 (both callers reclaimed the stale row)", store.saveCount)
	}
	succeeded := 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrGenerationInProgress):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded == 0 {
		t.Error("at least one caller must succeed")
	}
}

// A store outage on first generation is not a concurrency conflict: the
// caller must see the failure, not a retry-shortly signal.
func TestGenerateCreateFailurePropagates(t *testing.T) {
	store := newStubStore(t)
	store.createErr = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	g := newTestGenerator(store)

	_, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
	if err == nil {
		t.Fatal("expected store failure to surface")
	}
	if errors.Is(err, ErrGenerationInProgress) {
		t.Errorf("store outage reported as generation in progress: %v", err)
	}
}

func TestGenerateFreshGeneratingRowConflicts(t *testing.T) {
	store := newStubStore(t)
	g := newTestGenerator(store)

	fresh := &entities.Report{
		Base:            entities.Base{ID: "report-busy", UpdatedAt: time.Now()},
		QuestionnaireID: "qn1",
		TemplateID:      "tpl1",
		Status:          entities.ReportGenerating,
	}
	store.reports[pairKey("qn1", "tpl1")] = fresh
	store.byID[fresh.ID] = fresh

	_, err := g.Generate(context.Background(), "org1", "qn1", "tpl1", false)
	if !errors.Is(err, ErrGenerationInProgress) {
		t.Fatalf("expected ErrGenerationInProgress, got %v", err)
	}
}

package reports

import (
	"errors"
	"fmt"
)

// MinResponses is the statistical floor: aggregation refuses to run with
// fewer eligible responses, so a report never summarizes a sample too small
// to be meaningful.
const MinResponses = 5

// ErrGenerationInProgress is returned when another caller already holds the
// generating transition for the same (questionnaire, template) pair.
var ErrGenerationInProgress = errors.New("report generation already in progress")

// InsufficientDataError indicates the response count is below MinResponses.
// It is a caller-correctable precondition failure: it never moves the report
// to error status and becomes retryable once more responses arrive.
type InsufficientDataError struct {
	Count int
	Floor int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d responses collected, at least %d required", e.Count, e.Floor)
}

// NotFoundError indicates a referenced questionnaire, template or approach
// does not exist or is outside the caller's organization scope.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ConfigurationError indicates a template/data mismatch: an unrecognized
// report type, or a config referencing fields absent from the computed data.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// GenerationError wraps an unexpected fault during aggregation or
// persistence. The report row is moved to error status before it is raised.
type GenerationError struct {
	QuestionnaireID string
	TemplateID      string
	Err             error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("report generation failed for questionnaire %s template %s: %v", e.QuestionnaireID, e.TemplateID, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

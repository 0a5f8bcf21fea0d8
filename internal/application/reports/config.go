package reports

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// DefaultScaleMax is assumed when a template config declares no scale.
const DefaultScaleMax = 100

// DimensionConfig maps a named scored axis to the questions feeding it.
// A dimension declared as a bare string maps to the single question whose
// id equals the dimension name.
type DimensionConfig struct {
	Name      string   `json:"name"`
	Label     string   `json:"label,omitempty"`
	Color     string   `json:"color,omitempty"`
	Questions []string `json:"questions,omitempty"`
}

// UnmarshalJSON accepts either "purpose" or {"name":"purpose",...}.
func (d *DimensionConfig) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*d = DimensionConfig{Name: name}
		return nil
	}
	type alias DimensionConfig
	var full alias
	if err := json.Unmarshal(data, &full); err != nil {
		return err
	}
	*d = DimensionConfig(full)
	return nil
}

// QuestionIDs returns the questions mapped into the dimension.
func (d DimensionConfig) QuestionIDs() []string {
	if len(d.Questions) > 0 {
		return d.Questions
	}
	return []string{d.Name}
}

// TemplateConfig holds the type-specific parameters of a report template.
type TemplateConfig struct {
	Dimensions        []DimensionConfig `json:"dimensions"`
	ScaleMax          float64           `json:"scale_max,omitempty"`
	RequiredQuestions []string          `json:"required_questions,omitempty"`
	IncludeStats      bool              `json:"include_stats,omitempty"`
	Display           map[string]string `json:"display,omitempty"`
}

// ParseTemplateConfig decodes a stored template config and applies defaults.
func ParseTemplateConfig(raw datatypes.JSON) (TemplateConfig, error) {
	var cfg TemplateConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return TemplateConfig{}, &ConfigurationError{Reason: fmt.Sprintf("invalid template config: %v", err)}
		}
	}
	if cfg.ScaleMax <= 0 {
		cfg.ScaleMax = DefaultScaleMax
	}
	return cfg, nil
}

// requiredQuestions resolves the questions counted for completion. When the
// template declares none explicitly, every question mapped into a dimension
// is required, in config order without duplicates.
func (c TemplateConfig) requiredQuestions() []string {
	if len(c.RequiredQuestions) > 0 {
		return c.RequiredQuestions
	}
	seen := make(map[string]bool)
	var required []string
	for _, dim := range c.Dimensions {
		for _, q := range dim.QuestionIDs() {
			if !seen[q] {
				seen[q] = true
				required = append(required, q)
			}
		}
	}
	return required
}

// DimensionStat is the aggregated statistic for one dimension.
type DimensionStat struct {
	Value  float64 `json:"value"`
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
	StdDev float64 `json:"std_dev,omitempty"`
	N      int     `json:"n"`
}

// ComputedData is the aggregation result persisted with a complete report
// and consumed by renderers.
type ComputedData struct {
	ResponseCount  int                      `json:"response_count"`
	CompletionRate float64                  `json:"completion_rate"`
	OverallScore   float64                  `json:"overall_score"`
	Dimensions     map[string]DimensionStat `json:"dimensions"`
}

// Marshal serializes the computed data for jsonb storage.
func (d *ComputedData) Marshal() (datatypes.JSON, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ParseComputedData decodes computed data persisted on a complete report.
func ParseComputedData(raw datatypes.JSON) (*ComputedData, error) {
	if len(raw) == 0 {
		return nil, &ConfigurationError{Reason: "report has no computed data"}
	}
	var data ComputedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid computed data: %v", err)}
	}
	return &data, nil
}

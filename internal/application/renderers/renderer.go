package renderers

import (
	"fmt"

	"github.com/pavani-labs/pulse-survey-api/internal/application/reports"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
)

// Node is one element of the presentation tree handed to the UI layer.
type Node struct {
	Type     string                 `json:"type"`
	Props    map[string]interface{} `json:"props,omitempty"`
	Children []*Node                `json:"children,omitempty"`
}

// Renderer turns computed report data plus its template config into a
// presentation tree. Renderers are stateless and side-effect-free: the same
// (data, config) always yields the same tree.
type Renderer interface {
	Render(data *reports.ComputedData, cfg reports.TemplateConfig) (*Node, error)
}

// ForType resolves the renderer for a report type. The set is closed: an
// unknown type is a configuration error, never a silent fallback, because
// rendering wrong data as a misleading chart is worse than failing.
func ForType(reportType entities.ReportType) (Renderer, error) {
	switch reportType {
	case entities.ReportTypeFlower:
		return flowerRenderer{}, nil
	case entities.ReportTypeSummary:
		return summaryRenderer{}, nil
	case entities.ReportTypeDistribution:
		return distributionRenderer{}, nil
	default:
		return nil, &reports.ConfigurationError{Reason: fmt.Sprintf("unknown report type %q", reportType)}
	}
}

// Render is the dispatch shorthand used by the read path.
func Render(reportType entities.ReportType, data *reports.ComputedData, cfg reports.TemplateConfig) (*Node, error) {
	renderer, err := ForType(reportType)
	if err != nil {
		return nil, err
	}
	return renderer.Render(data, cfg)
}

// resolveDimensions checks that every dimension the config declares is
// present in the computed data, returning stats in config order. A missing
// dimension is a renderer-level error distinct from aggregation failures.
func resolveDimensions(data *reports.ComputedData, cfg reports.TemplateConfig) ([]dimensionEntry, error) {
	if data == nil {
		return nil, &reports.ConfigurationError{Reason: "no computed data to render"}
	}
	entries := make([]dimensionEntry, 0, len(cfg.Dimensions))
	for _, dim := range cfg.Dimensions {
		stat, ok := data.Dimensions[dim.Name]
		if !ok {
			return nil, &reports.ConfigurationError{Reason: fmt.Sprintf("dimension %q missing from computed data", dim.Name)}
		}
		entries = append(entries, dimensionEntry{Config: dim, Stat: stat})
	}
	return entries, nil
}

type dimensionEntry struct {
	Config reports.DimensionConfig
	Stat   reports.DimensionStat
}

func (e dimensionEntry) label() string {
	if e.Config.Label != "" {
		return e.Config.Label
	}
	return e.Config.Name
}

package renderers

import "github.com/pavani-labs/pulse-survey-api/internal/application/reports"

// summaryRenderer produces a headline score card with one row per
// dimension, including the auxiliary stats when the template requested
// them at aggregation time.
type summaryRenderer struct{}

func (summaryRenderer) Render(data *reports.ComputedData, cfg reports.TemplateConfig) (*Node, error) {
	entries, err := resolveDimensions(data, cfg)
	if err != nil {
		return nil, err
	}

	root := &Node{
		Type: "summary",
		Props: map[string]interface{}{
			"overall_score":   data.OverallScore,
			"response_count":  data.ResponseCount,
			"completion_rate": data.CompletionRate,
		},
		Children: make([]*Node, 0, len(entries)),
	}
	for _, entry := range entries {
		props := map[string]interface{}{
			"name":  entry.Config.Name,
			"label": entry.label(),
			"value": entry.Stat.Value,
			"n":     entry.Stat.N,
		}
		if cfg.IncludeStats {
			props["min"] = entry.Stat.Min
			props["max"] = entry.Stat.Max
			props["std_dev"] = entry.Stat.StdDev
		}
		root.Children = append(root.Children, &Node{Type: "row", Props: props})
	}
	return root, nil
}

package renderers

import "github.com/pavani-labs/pulse-survey-api/internal/application/reports"

// distributionRenderer draws per-dimension spread bars (min/max range with
// the mean marker). It requires the auxiliary stats, so templates of this
// type must aggregate with include_stats set.
type distributionRenderer struct{}

func (distributionRenderer) Render(data *reports.ComputedData, cfg reports.TemplateConfig) (*Node, error) {
	if !cfg.IncludeStats {
		return nil, &reports.ConfigurationError{Reason: "distribution reports require include_stats in the template config"}
	}
	entries, err := resolveDimensions(data, cfg)
	if err != nil {
		return nil, err
	}

	root := &Node{
		Type: "distribution",
		Props: map[string]interface{}{
			"response_count": data.ResponseCount,
			"scale_max":      cfg.ScaleMax,
		},
		Children: make([]*Node, 0, len(entries)),
	}
	for _, entry := range entries {
		root.Children = append(root.Children, &Node{
			Type: "bar",
			Props: map[string]interface{}{
				"name":    entry.Config.Name,
				"label":   entry.label(),
				"mean":    entry.Stat.Value,
				"min":     entry.Stat.Min,
				"max":     entry.Stat.Max,
				"std_dev": entry.Stat.StdDev,
				"n":       entry.Stat.N,
			},
		})
	}
	return root, nil
}

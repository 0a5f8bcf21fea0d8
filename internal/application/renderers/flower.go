package renderers

import "github.com/pavani-labs/pulse-survey-api/internal/application/reports"

// flowerRenderer draws the dimensional "flower" model: one radial sector
// per configured dimension, extent proportional to the dimension's value
// normalized against the template's scale. Sector order follows the
// config's declared dimension order, not aggregation order.
type flowerRenderer struct{}

func (flowerRenderer) Render(data *reports.ComputedData, cfg reports.TemplateConfig) (*Node, error) {
	entries, err := resolveDimensions(data, cfg)
	if err != nil {
		return nil, err
	}

	root := &Node{
		Type: "flower",
		Props: map[string]interface{}{
			"overall_score":   data.OverallScore,
			"response_count":  data.ResponseCount,
			"completion_rate": data.CompletionRate,
			"scale_max":       cfg.ScaleMax,
		},
		Children: make([]*Node, 0, len(entries)),
	}
	for _, entry := range entries {
		root.Children = append(root.Children, &Node{
			Type: "sector",
			Props: map[string]interface{}{
				"name":   entry.Config.Name,
				"label":  entry.label(),
				"color":  entry.Config.Color,
				"value":  entry.Stat.Value,
				"extent": sectorExtent(entry.Stat.Value, cfg.ScaleMax),
			},
		})
	}
	return root, nil
}

// sectorExtent normalizes a dimension value to [0,1] on the declared scale.
func sectorExtent(value, scaleMax float64) float64 {
	if scaleMax <= 0 {
		return 0
	}
	extent := value / scaleMax
	if extent < 0 {
		return 0
	}
	if extent > 1 {
		return 1
	}
	return reports.Round4(extent)
}

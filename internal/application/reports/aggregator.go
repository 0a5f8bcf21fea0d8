package reports

import "math"

// Aggregate turns a questionnaire's parsed responses and a template config
// into computed report data. It is a pure function: same responses and
// config always produce identical output, which is what makes the
// non-forced regeneration fast path safe.
//
// Responses below MinResponses fail with InsufficientDataError and no
// partial result. A participant's missing or non-numeric answer is excluded
// from that dimension's statistic, never substituted with zero; completion
// rate is computed independently from required-question coverage.
func Aggregate(responses []ParsedResponse, cfg TemplateConfig) (*ComputedData, error) {
	count := len(responses)
	if count < MinResponses {
		return nil, &InsufficientDataError{Count: count, Floor: MinResponses}
	}
	if len(cfg.Dimensions) == 0 {
		return nil, &ConfigurationError{Reason: "template config declares no dimensions"}
	}

	required := cfg.requiredQuestions()
	completed := 0
	for _, r := range responses {
		if answeredAll(r, required) {
			completed++
		}
	}

	data := &ComputedData{
		ResponseCount:  count,
		CompletionRate: Round4(float64(completed) / float64(count)),
		Dimensions:     make(map[string]DimensionStat, len(cfg.Dimensions)),
	}

	var meanSum float64
	var meanCount int
	for _, dim := range cfg.Dimensions {
		stat := aggregateDimension(responses, dim, cfg.IncludeStats)
		data.Dimensions[dim.Name] = stat
		if stat.N > 0 {
			meanSum += stat.Value
			meanCount++
		}
	}
	if meanCount > 0 {
		data.OverallScore = Round1(meanSum / float64(meanCount))
	}
	return data, nil
}

func answeredAll(r ParsedResponse, required []string) bool {
	for _, q := range required {
		if _, ok := r.Answers[q]; !ok {
			return false
		}
	}
	return true
}

func aggregateDimension(responses []ParsedResponse, dim DimensionConfig, includeStats bool) DimensionStat {
	var values []float64
	for _, r := range responses {
		for _, q := range dim.QuestionIDs() {
			if scale, ok := r.Answers[q].(ScaleAnswer); ok {
				values = append(values, float64(scale))
			}
		}
	}
	if len(values) == 0 {
		return DimensionStat{}
	}

	var sum float64
	min, max := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(values))

	stat := DimensionStat{Value: Round1(mean), N: len(values)}
	if includeStats {
		var variance float64
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		stat.Min = Round1(min)
		stat.Max = Round1(max)
		stat.StdDev = Round1(math.Sqrt(variance / float64(len(values))))
	}
	return stat
}

// Round1 rounds half-up to one decimal place. The rounding policy is part
// of the aggregation contract: rendered scores must match across reruns.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// Round4 rounds half-up to four decimal places, used for rate fractions.
func Round4(v float64) float64 {
	return math.Floor(v*10000+0.5) / 10000
}

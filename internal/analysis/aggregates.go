package analysis

import (
	"github.com/montanaflynn/stats"

	"github.com/reallygood83/mathemotion/domain/survey"
)

// ItemSummary is the mean and sample standard deviation of one survey item
type ItemSummary struct {
	Field survey.Field `json:"field"`
	Label string       `json:"label"`
	Mean  float64      `json:"mean"`
	Std   float64      `json:"std"`
	N     int          `json:"n"`
}

// Summarize computes per-item mean and standard deviation (n-1 denominator,
// 0 when fewer than two observations) in the order of fields.
func Summarize(table *survey.Table, fields []survey.Field, policy MissingPolicy) []ItemSummary {
	out := make([]ItemSummary, len(fields))
	for i, f := range fields {
		data := policy.Values(table, f)
		summary := ItemSummary{Field: f, Label: f.Label(), N: len(data)}
		if len(data) > 0 {
			summary.Mean, _ = stats.Mean(data)
		}
		if len(data) > 1 {
			summary.Std, _ = stats.StandardDeviationSample(data)
		}
		out[i] = summary
	}
	return out
}

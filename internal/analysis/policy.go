// Package analysis computes the aggregate statistics behind the teacher charts.
package analysis

import (
	"strings"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal/errors"
)

// MissingPolicy decides how missing survey cells enter aggregate statistics
type MissingPolicy string

const (
	// MissingAsZero counts a missing cell as 0 in every statistic
	MissingAsZero MissingPolicy = "zero"
	// MissingExcluded drops missing cells; correlations use pairwise-complete rows
	MissingExcluded MissingPolicy = "exclude"
)

// ParseMissingPolicy maps a config string to a policy
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MissingAsZero:
		return MissingAsZero, nil
	case MissingExcluded:
		return MissingExcluded, nil
	default:
		return "", errors.InvalidInput("missing policy must be zero or exclude, got " + s)
	}
}

// column returns the values of f across all records under the policy.
// present[i] reports whether record i had a value at all.
func column(table *survey.Table, f survey.Field) (values []float64, present []bool) {
	values = make([]float64, table.Len())
	present = make([]bool, table.Len())
	for i, rec := range table.Records {
		values[i], present[i] = rec.Score(f)
	}
	return values, present
}

// Values returns the observations of f that the policy keeps
func (p MissingPolicy) Values(table *survey.Table, f survey.Field) []float64 {
	values, present := column(table, f)
	if p != MissingExcluded {
		return values
	}
	kept := values[:0:0]
	for i, v := range values {
		if present[i] {
			kept = append(kept, v)
		}
	}
	return kept
}

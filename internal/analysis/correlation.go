package analysis

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/reallygood83/mathemotion/domain/survey"
)

// Correlation is a symmetric Pearson matrix over a list of fields.
// A pair involving a zero-variance column is undefined: its value is 1 on the
// diagonal and 0 elsewhere, and Defined reports false.
type Correlation struct {
	Fields  []survey.Field
	Values  [][]float64
	Defined [][]bool
}

// At returns the coefficient and whether it was computable
func (c *Correlation) At(i, j int) (float64, bool) {
	return c.Values[i][j], c.Defined[i][j]
}

// Correlate computes the Pearson matrix. MissingAsZero uses every record with
// gaps read as 0; MissingExcluded uses pairwise-complete observations.
func Correlate(table *survey.Table, fields []survey.Field, policy MissingPolicy) *Correlation {
	k := len(fields)
	c := &Correlation{
		Fields:  append([]survey.Field(nil), fields...),
		Values:  make([][]float64, k),
		Defined: make([][]bool, k),
	}
	for i := range c.Values {
		c.Values[i] = make([]float64, k)
		c.Defined[i] = make([]bool, k)
	}

	if policy == MissingExcluded {
		c.fillPairwise(table)
	} else {
		c.fillDense(table)
	}

	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			v := c.Values[i][j]
			if !c.Defined[i][j] || math.IsNaN(v) || math.IsInf(v, 0) {
				c.Defined[i][j] = false
				c.Values[i][j] = 0
				if i == j {
					c.Values[i][j] = 1
				}
				continue
			}
			c.Values[i][j] = math.Max(-1, math.Min(1, v))
		}
	}
	return c
}

// fillDense computes all coefficients at once from the zero-filled matrix
func (c *Correlation) fillDense(table *survey.Table) {
	n, k := table.Len(), len(c.Fields)
	if n < 2 || k == 0 {
		return
	}
	x := mat.NewDense(n, k, nil)
	constant := make([]bool, k)
	for j, f := range c.Fields {
		values, _ := column(table, f)
		x.SetCol(j, values)
		constant[j] = stat.Variance(values, nil) == 0
	}

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			// CorrelationMatrix writes 1 on the diagonal even for constant columns
			if constant[i] || constant[j] {
				continue
			}
			c.Values[i][j] = corr.At(i, j)
			c.Defined[i][j] = true
		}
	}
}

// fillPairwise computes each coefficient from rows where both fields are present
func (c *Correlation) fillPairwise(table *survey.Table) {
	k := len(c.Fields)
	cols := make([][]float64, k)
	present := make([][]bool, k)
	for j, f := range c.Fields {
		cols[j], present[j] = column(table, f)
	}

	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			var xs, ys []float64
			for r := range cols[i] {
				if present[i][r] && present[j][r] {
					xs = append(xs, cols[i][r])
					ys = append(ys, cols[j][r])
				}
			}
			if len(xs) < 2 {
				continue
			}
			v := stat.Correlation(xs, ys, nil)
			c.Values[i][j], c.Values[j][i] = v, v
			c.Defined[i][j], c.Defined[j][i] = true, true
		}
	}
}

// Package dataset turns raw sheets from any row source into canonical survey tables.
package dataset

import (
	"sort"

	"github.com/reallygood83/mathemotion/adapters/datareadiness/coercer"
	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal"
	"github.com/reallygood83/mathemotion/internal/errors"
)

// Normalizer maps raw header labels to canonical names and coerces survey cells
type Normalizer struct {
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NormalizeReport describes what a normalization pass did to a sheet
type NormalizeReport struct {
	Rows             int               `json:"rows"`
	Columns          int               `json:"columns"`
	Mapped           map[string]string `json:"mapped"`      // raw label -> canonical name
	Passthrough      []string          `json:"passthrough"` // labels with no table entry
	PaddedRows       int               `json:"padded_rows"`
	TruncatedRows    int               `json:"truncated_rows"`
	CoercedToMissing map[string]int    `json:"coerced_to_missing"` // canonical name -> cells dropped
	Absent           []string          `json:"absent"`
}

// NewNormalizer creates a normalizer; a nil logger uses the default logger
func NewNormalizer(config coercer.CoercionConfig, logger *internal.Logger) *Normalizer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Normalizer{
		coercer: coercer.NewTypeCoercer(config),
		logger:  logger,
	}
}

// Normalize builds a canonical table from a raw sheet. It fails with
// SourceUnavailable when there is no header or no data row; a missing survey
// item only shows up in Table.Warning.
func (n *Normalizer) Normalize(sheet *survey.RawSheet) (*survey.Table, error) {
	table, _, err := n.NormalizeWithReport(sheet)
	return table, err
}

// NormalizeWithReport is Normalize plus the report used by inspect and debug logging
func (n *Normalizer) NormalizeWithReport(sheet *survey.RawSheet) (*survey.Table, *NormalizeReport, error) {
	if sheet == nil || len(sheet.Header) == 0 {
		return nil, nil, errors.SourceUnavailable("sheet has no header row", nil)
	}
	if len(sheet.Rows) == 0 {
		return nil, nil, errors.SourceUnavailable("sheet has no data rows", nil)
	}

	width := len(sheet.Header)
	report := &NormalizeReport{
		Rows:             len(sheet.Rows),
		Columns:          width,
		Mapped:           make(map[string]string),
		CoercedToMissing: make(map[string]int),
	}

	columns := make([]string, width)
	numeric := make([]bool, width)
	for i, label := range sheet.Header {
		name := survey.CanonicalName(label)
		columns[i] = name
		if _, known := survey.LookupLabel(label); known {
			report.Mapped[label] = name
		} else {
			report.Passthrough = append(report.Passthrough, label)
		}
		numeric[i] = survey.Field(name).IsNumeric()
	}
	schema := survey.NewSchema(columns)

	records := make([]survey.Record, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		switch {
		case len(row) < width:
			report.PaddedRows++
		case len(row) > width:
			report.TruncatedRows++
		}

		cells := make([]survey.Cell, width)
		for i := 0; i < width; i++ {
			if i >= len(row) {
				cells[i] = survey.Missing()
				continue
			}
			if !numeric[i] {
				cells[i] = n.coercer.CoerceText(row[i])
				continue
			}
			cell := n.coercer.CoerceNumber(row[i])
			if cell.IsMissing() && row[i] != "" {
				report.CoercedToMissing[columns[i]]++
			}
			cells[i] = cell
		}

		rec, err := survey.NewRecord(schema, cells)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
	}

	var absent []survey.Field
	for _, item := range survey.ItemFields {
		if !schema.Has(string(item)) {
			absent = append(absent, item)
		}
	}
	report.Absent = survey.Names(absent)
	sort.Strings(report.Passthrough)

	table := &survey.Table{Schema: schema, Records: records, Absent: absent}

	n.logger.Debug("[Normalizer] %d rows, %d columns (%d mapped, %d passthrough, %d padded, %d truncated)",
		report.Rows, report.Columns, len(report.Mapped), len(report.Passthrough), report.PaddedRows, report.TruncatedRows)
	if warn := table.Warning(); warn != nil {
		n.logger.Warn("[Normalizer] %v", warn)
	}

	return table, report, nil
}

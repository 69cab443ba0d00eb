// Package sheets reads survey responses from a Google spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal/errors"
)

// Source is a ports.RowSource over one spreadsheet range
type Source struct {
	fetcher       ValuesFetcher
	spreadsheetID string
	readRange     string
}

// NewSource creates a source; id and range are repaired with FixRange
func NewSource(fetcher ValuesFetcher, spreadsheetID, readRange string) *Source {
	id, rng := FixRange(strings.TrimSpace(spreadsheetID), strings.TrimSpace(readRange))
	return &Source{fetcher: fetcher, spreadsheetID: id, readRange: rng}
}

// SpreadsheetID returns the id actually queried
func (s *Source) SpreadsheetID() string { return s.spreadsheetID }

// Range returns the range actually queried
func (s *Source) Range() string { return s.readRange }

// FixRange swaps an id and a range entered into each other's field, and quotes
// sheet names containing dots or spaces.
func FixRange(spreadsheetID, readRange string) (string, string) {
	if strings.Contains(spreadsheetID, "!") && !strings.Contains(readRange, "!") {
		spreadsheetID, readRange = readRange, spreadsheetID
	}
	sheetName, cells, ok := strings.Cut(readRange, "!")
	if !ok {
		return spreadsheetID, readRange
	}
	quoted := len(sheetName) >= 2 && strings.HasPrefix(sheetName, "'") && strings.HasSuffix(sheetName, "'")
	if strings.ContainsAny(sheetName, ". ") && !quoted {
		sheetName = "'" + sheetName + "'"
	}
	return spreadsheetID, sheetName + "!" + cells
}

// Rows implements ports.RowSource
func (s *Source) Rows(ctx context.Context) (*survey.RawSheet, error) {
	if s.spreadsheetID == "" || s.readRange == "" {
		return nil, errors.InvalidInput("spreadsheet id and range are required")
	}

	values, err := s.fetcher.Values(ctx, s.spreadsheetID, s.readRange)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errors.SourceUnavailable(fmt.Sprintf("range %s returned no data", s.readRange), nil)
	}

	sheet := &survey.RawSheet{
		Header: toStrings(values[0]),
		Rows:   make([][]string, 0, len(values)-1),
	}
	for _, row := range values[1:] {
		sheet.Rows = append(sheet.Rows, toStrings(row))
	}
	log.Printf("[Sheets] %s range %s fetched (%d columns, %d rows)", s.spreadsheetID, s.readRange, len(sheet.Header), len(sheet.Rows))
	return sheet, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

package testkit

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal/errors"
	"github.com/reallygood83/mathemotion/ports"
)

// TimestampLayout is how generated rows spell their submission time
const TimestampLayout = "2006-01-02 15:04:05"

const (
	sampleSummary        = "오늘은 이차방정식의 근의 공식에 대해 배웠습니다."
	sampleSelfAssessment = "집중해서 들었지만 계산 과정에서 실수했습니다."
)

// DefaultRoster is the class used by the demo data set
var DefaultRoster = []string{
	"김철수", "이영희", "박민준", "정서연", "최준호",
	"강지민", "윤지현", "장현우", "한소희", "송민석",
}

// DefaultSampleDate is the lesson date stamped on demo rows
var DefaultSampleDate = time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

// SurveyGeneratorConfig configures the sample survey generator
type SurveyGeneratorConfig struct {
	Roster []string  `json:"roster"`
	Date   time.Time `json:"date"`
	Seed   int64     `json:"seed"` // 0 = time-based
}

// DefaultSurveyConfig returns the demo roster and date with a time-based seed
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Roster: append([]string(nil), DefaultRoster...),
		Date:   DefaultSampleDate,
	}
}

// SampleRow is one generated submission, already in canonical shape
type SampleRow struct {
	Timestamp      string
	StudentID      int
	StudentName    string
	Items          [10]int // in survey.ItemFields order
	Summary        string
	SelfAssessment string
}

// Values renders the row in survey.AllFields order
func (r SampleRow) Values() []string {
	values := []string{r.Timestamp, strconv.Itoa(r.StudentID), r.StudentName}
	for _, v := range r.Items {
		values = append(values, strconv.Itoa(v))
	}
	return append(values, r.Summary, r.SelfAssessment)
}

// SurveyGenerator produces synthetic survey submissions for demos and tests
type SurveyGenerator struct {
	rng *rand.Rand
}

// NewSurveyGenerator creates a generator drawing from rng
func NewSurveyGenerator(rng *rand.Rand) *SurveyGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SurveyGenerator{rng: rng}
}

// Generate returns one row per roster name. Student ids are uniform in [1,30]
// and every survey item is uniform in [1,5]; no numeric value is ever missing.
func (g *SurveyGenerator) Generate(roster []string, date time.Time) ([]SampleRow, error) {
	if len(roster) == 0 {
		return nil, errors.InvalidInput("roster must contain at least one name")
	}

	timestamp := date.Format(TimestampLayout)
	rows := make([]SampleRow, 0, len(roster))
	for _, name := range roster {
		row := SampleRow{
			Timestamp:      timestamp,
			StudentID:      g.rng.Intn(30) + 1,
			StudentName:    name,
			Summary:        sampleSummary,
			SelfAssessment: sampleSelfAssessment,
		}
		for i := range row.Items {
			row.Items[i] = g.rng.Intn(5) + 1
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Sheet renders rows as a raw sheet with canonical headers
func Sheet(rows []SampleRow) *survey.RawSheet {
	sheet := &survey.RawSheet{
		Header: survey.Names(survey.AllFields),
		Rows:   make([][]string, len(rows)),
	}
	for i, row := range rows {
		sheet.Rows[i] = row.Values()
	}
	return sheet
}

// SampleSource is the row source behind the "load sample data" action
type SampleSource struct {
	rng    ports.RNGPort
	config SurveyGeneratorConfig
	key    string
}

// NewSampleSource creates a sample row source. key separates the random
// streams of different callers sharing one seed.
func NewSampleSource(rng ports.RNGPort, config SurveyGeneratorConfig, key string) *SampleSource {
	if len(config.Roster) == 0 {
		config.Roster = append([]string(nil), DefaultRoster...)
	}
	if config.Date.IsZero() {
		config.Date = DefaultSampleDate
	}
	return &SampleSource{rng: rng, config: config, key: key}
}

// Rows implements ports.RowSource
func (s *SampleSource) Rows(ctx context.Context) (*survey.RawSheet, error) {
	stream, err := s.rng.Stream(ctx, "sample_survey", s.key, s.config.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to seed sample generator")
	}
	rows, err := NewSurveyGenerator(stream).Generate(s.config.Roster, s.config.Date)
	if err != nil {
		return nil, errors.SourceUnavailable(fmt.Sprintf("sample generator: %v", err), err)
	}
	return Sheet(rows), nil
}

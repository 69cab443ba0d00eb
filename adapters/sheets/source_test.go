package sheets

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reallygood83/mathemotion/adapters/datareadiness/coercer"
	"github.com/reallygood83/mathemotion/internal"
	"github.com/reallygood83/mathemotion/internal/dataset"
	"github.com/reallygood83/mathemotion/internal/errors"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Values(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	args := m.Called(ctx, spreadsheetID, readRange)
	values, _ := args.Get(0).([][]interface{})
	return values, args.Error(1)
}

func TestFixRange(t *testing.T) {
	tests := []struct {
		name            string
		id, rng         string
		wantID, wantRng string
	}{
		{"plain", "abc123", "Sheet1!A1:F100", "abc123", "Sheet1!A1:F100"},
		{"swapped", "Sheet1!A1:F100", "abc123", "abc123", "Sheet1!A1:F100"},
		{"space", "abc", "설문 응답!A1:Z", "abc", "'설문 응답'!A1:Z"},
		{"dot", "abc", "3.20!A:Z", "abc", "'3.20'!A:Z"},
		{"already quoted", "abc", "'Form Responses 1'!A1:Z", "abc", "'Form Responses 1'!A1:Z"},
		{"no sheet", "abc", "A1:F100", "abc", "A1:F100"},
		{"both bang", "x!A1", "y!B2", "x!A1", "y!B2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, rng := FixRange(tt.id, tt.rng)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantRng, rng)
		})
	}
}

func TestSourceRows(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Values", mock.Anything, "abc", "'Form Responses 1'!A1:Z").Return([][]interface{}{
		{"타임스탬프 ", "학생 이름", "집중도"},
		{"2025. 3. 20 오전 9:00:00", "김철수", 4.0},
		{"2025. 3. 20 오전 9:01:00", "이영희"},
		{nil, "박민준", "5"},
	}, nil)

	source := NewSource(fetcher, "Form Responses 1!A1:Z", " abc ")
	assert.Equal(t, "abc", source.SpreadsheetID())

	sheet, err := source.Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"타임스탬프 ", "학생 이름", "집중도"}, sheet.Header)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "4", sheet.Rows[0][2])
	assert.Len(t, sheet.Rows[1], 2)
	assert.Equal(t, "", sheet.Rows[2][0])
	fetcher.AssertExpectations(t)
}

func TestSourceKeepsUnknownLabelsVerbatim(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Values", mock.Anything, "abc", "Sheet1!A:Z").Return([][]interface{}{
		{"student_name", " Q17 "},
		{"김철수", "yes"},
	}, nil)

	sheet, err := NewSource(fetcher, "abc", "Sheet1!A:Z").Rows(context.Background())
	require.NoError(t, err)
	table, err := dataset.NewNormalizer(coercer.DefaultCoercionConfig(), internal.NewLogger(internal.LogLevelError)).Normalize(sheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"student_name", " Q17 "}, table.Columns())
}

func TestSourceEmptyRange(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Values", mock.Anything, "abc", "Sheet1!A1:F1").Return([][]interface{}{}, nil)

	_, err := NewSource(fetcher, "abc", "Sheet1!A1:F1").Rows(context.Background())
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

func TestSourceFetchError(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Values", mock.Anything, "abc", "Sheet1!A:Z").
		Return(nil, errors.SourceUnavailable("Google Sheets request failed", stderrors.New("403")))

	_, err := NewSource(fetcher, "abc", "Sheet1!A:Z").Rows(context.Background())
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

func TestSourceRequiresCoordinates(t *testing.T) {
	_, err := NewSource(new(mockFetcher), "", "").Rows(context.Background())
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal/errors"
)

func TestReadCSVWithRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	content := "\ufeff타임스탬프, 학생 이름 ,집중도\n2025-03-20,김철수,4\n2025-03-20,이영희\n,,\n2025-03-20,박민준,5,extra\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sheet, err := NewDataReader(path).Rows(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"타임스탬프", " 학생 이름 ", "집중도"}, sheet.Header, "only the BOM is stripped from labels")
	require.Len(t, sheet.Rows, 3, "blank rows are skipped")
	assert.Len(t, sheet.Rows[1], 2, "short rows are left for the normalizer")
	assert.Len(t, sheet.Rows[2], 4)
}

func TestReadXLSXFirstSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "설문 응답"))
	require.NoError(t, f.SetSheetRow("설문 응답", "A1", &[]string{"학생 이름", "집중도", "이해도"}))
	require.NoError(t, f.SetSheetRow("설문 응답", "A2", &[]interface{}{"김철수", 4, 5}))
	require.NoError(t, f.SetSheetRow("설문 응답", "A3", &[]interface{}{"이영희", 3}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	sheet, err := NewDataReader(path).Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"학생 이름", "집중도", "이해도"}, sheet.Header)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []string{"김철수", "4", "5"}, sheet.Rows[0])
	assert.Equal(t, []string{"이영희", "3"}, sheet.Rows[1])
}

func TestReadXLSXNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("응답")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("응답", "A1", &[]string{"집중도"}))
	require.NoError(t, f.SetSheetRow("응답", "A2", &[]string{"2"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	sheet, err := NewDataReaderFromConfig(ExcelConfig{FilePath: path, Sheet: "응답"}).Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2"}}, sheet.Rows)

	_, err = NewDataReader(path).WithSheet("없음").Rows(context.Background())
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

func TestStreamReader(t *testing.T) {
	r, err := NewStreamReader(strings.NewReader("집중도\n3\n"), "upload.CSV", 1024)
	require.NoError(t, err)
	sheet, err := r.Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"집중도"}, sheet.Header)

	_, err = NewStreamReader(strings.NewReader("x"), "notes.txt", 0)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = NewStreamReader(bytes.NewReader(make([]byte, 64)), "big.csv", 16)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestMissingAndEmptyFiles(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv")).Rows(context.Background())
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = NewDataReader(empty).Rows(context.Background())
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

func TestWriteSheetRoundTrip(t *testing.T) {
	sheet := &survey.RawSheet{
		Header: []string{"student_name", "focus"},
		Rows:   [][]string{{"김철수", "4"}, {"이영희", "2"}},
	}
	for _, name := range []string{"out.csv", "out.xlsx"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, WriteSheet(path, sheet))

		back, err := NewDataReader(path).Rows(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sheet, back, name)
	}

	assert.Error(t, WriteSheet(filepath.Join(t.TempDir(), "out.json"), sheet))
}

package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal/errors"
)

const utf8BOM = "\ufeff"

// DataReader reads survey exports from CSV or XLSX, either from disk or from an
// uploaded stream
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	content  []byte // set for uploaded streams
}

// NewDataReader creates a reader for a file on disk
func NewDataReader(filePath string) *DataReader {
	return &DataReader{filePath: filePath, fileType: fileTypeOf(filePath)}
}

// NewDataReaderFromConfig creates a reader for the configured file and sheet
func NewDataReaderFromConfig(config ExcelConfig) *DataReader {
	r := NewDataReader(config.FilePath)
	r.sheet = config.Sheet
	return r
}

// NewStreamReader buffers an uploaded file; filename decides CSV vs XLSX.
// maxBytes <= 0 disables the size limit.
func NewStreamReader(src io.Reader, filename string, maxBytes int64) (*DataReader, error) {
	if maxBytes > 0 {
		src = io.LimitReader(src, maxBytes+1)
	}
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.SourceUnavailable("failed to read upload", err)
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return nil, errors.InvalidInput(fmt.Sprintf("file exceeds %d bytes", maxBytes))
	}
	fileType := fileTypeOf(filename)
	if fileType == "" {
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", filename))
	}
	return &DataReader{filePath: filename, fileType: fileType, content: content}, nil
}

// WithSheet selects the worksheet for XLSX input
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

func fileTypeOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "csv"
	case ".xlsx", ".xlsm":
		return "xlsx"
	default:
		return ""
	}
}

// Rows implements ports.RowSource. The header is trimmed; data rows keep their
// own length and are padded later by the normalizer.
func (r *DataReader) Rows(ctx context.Context) (*survey.RawSheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.SourceUnavailable("read cancelled", err)
	}
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.filePath))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.SourceUnavailable(fmt.Sprintf("%s file is empty", strings.ToUpper(r.fileType)), nil)
	}

	sheet := processRows(rows)
	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(sheet.Header), len(sheet.Rows))
	return sheet, nil
}

func (r *DataReader) open() (io.ReadCloser, error) {
	if r.content != nil {
		return io.NopCloser(bytes.NewReader(r.content)), nil
	}
	file, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SourceUnavailable(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath), err)
		}
		return nil, errors.SourceUnavailable("failed to open "+r.filePath, err)
	}
	return file, nil
}

// readExcelRows reads the configured worksheet, or the first one
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	src, err := r.open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.SourceUnavailable("failed to open Excel file", err)
	}
	defer f.Close()

	sheetName := r.sheet
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.SourceUnavailable("Excel file has no worksheets", nil)
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.SourceUnavailable(fmt.Sprintf("failed to read sheet %q", sheetName), err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheetName, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads CSV data; rows may have differing field counts
func (r *DataReader) readCSVRows() ([][]string, error) {
	src, err := r.open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.SourceUnavailable("failed to read CSV file", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// processRows splits the header from the data rows
func processRows(rows [][]string) *survey.RawSheet {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	copy(headers, headerRow)
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		dataRows = append(dataRows, cells)
	}

	return &survey.RawSheet{Header: headers, Rows: dataRows}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

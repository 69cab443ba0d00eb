package excel

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal/errors"
)

// WriteSheet saves a raw sheet as CSV or XLSX, chosen by the file extension
func WriteSheet(path string, sheet *survey.RawSheet) error {
	switch fileTypeOf(path) {
	case "csv":
		return writeCSV(path, sheet)
	case "xlsx":
		return writeXLSX(path, sheet)
	default:
		return errors.InvalidInput(fmt.Sprintf("unsupported output type: %s", path))
	}
}

func writeCSV(path string, sheet *survey.RawSheet) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(sheet.Header); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	if err := w.WriteAll(sheet.Rows); err != nil {
		return errors.Wrap(err, "failed to write CSV rows")
	}
	return nil
}

func writeXLSX(path string, sheet *survey.RawSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := f.GetSheetName(0)
	if err := f.SetSheetRow(name, "A1", &sheet.Header); err != nil {
		return errors.Wrap(err, "failed to write header row")
	}
	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "invalid row coordinate")
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+1)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return nil
}

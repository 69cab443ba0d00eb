package excel

// ExcelConfig holds configuration for a file data source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	// Sheet is the worksheet to read from XLSX files; empty selects the first one
	Sheet string `json:"sheet"`
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/reallygood83/mathemotion/internal"
	"github.com/reallygood83/mathemotion/internal/analysis"
	"github.com/reallygood83/mathemotion/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig
	Sheets      SheetsConfig
	Credentials CredentialsConfig
	Chart       ChartConfig
	Data        DataConfig
	LogLevel    string
	LogLevels   string // per-component overrides, e.g. "chart=debug,sheets=error"
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port       string
	GinMode    string
	SessionTTL time.Duration
}

// SheetsConfig holds the default spreadsheet coordinates offered by the dashboard
type SheetsConfig struct {
	SpreadsheetID string
	Range         string
}

// CredentialsConfig lists where the service-account credential may come from
type CredentialsConfig struct {
	SecretJSON string // GOOGLE_CREDENTIALS
	EnvPath    string // GOOGLE_CREDENTIALS_PATH
	LocalFile  string
}

// ChartConfig holds rendering settings
type ChartConfig struct {
	DPI           int
	WidthInches   float64
	HeightInches  float64
	FontPath      string
	FontDirs      []string
	MaxConcurrent int
	MissingPolicy string
}

// DataConfig holds data loading settings
type DataConfig struct {
	UploadMaxBytes int64
	SampleSeed     int64
	SampleDate     time.Time
	ExcelSheet     string
	DataFile       string
	LenientNumbers bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	sampleDate, err := time.Parse("2006-01-02", getEnvOrDefault("SAMPLE_DATE", "2025-03-20"))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "SAMPLE_DATE must be YYYY-MM-DD"))
	}

	config := &Config{
		Server: ServerConfig{
			Port:       getEnvOrDefault("PORT", "8080"),
			GinMode:    getEnvOrDefault("GIN_MODE", "release"),
			SessionTTL: getEnvDurationOrDefault("SESSION_TTL", 2*time.Hour),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: getEnvOrDefault("SPREADSHEET_ID", ""),
			Range:         getEnvOrDefault("SPREADSHEET_RANGE", ""),
		},
		Credentials: CredentialsConfig{
			SecretJSON: getEnvOrDefault("GOOGLE_CREDENTIALS", ""),
			EnvPath:    getEnvOrDefault("GOOGLE_CREDENTIALS_PATH", ""),
			LocalFile:  getEnvOrDefault("CREDENTIALS_FILE", "credentials.json"),
		},
		Chart: ChartConfig{
			DPI:           getEnvIntOrDefault("CHART_DPI", 300),
			WidthInches:   getEnvFloatOrDefault("CHART_WIDTH_IN", 12),
			HeightInches:  getEnvFloatOrDefault("CHART_HEIGHT_IN", 8),
			FontPath:      getEnvOrDefault("CHART_FONT_PATH", ""),
			FontDirs:      splitList(getEnvOrDefault("CHART_FONT_DIRS", "")),
			MaxConcurrent: getEnvIntOrDefault("CHART_MAX_CONCURRENT", 2),
			MissingPolicy: getEnvOrDefault("MISSING_POLICY", "zero"),
		},
		Data: DataConfig{
			UploadMaxBytes: int64(getEnvIntOrDefault("UPLOAD_MAX_BYTES", 10<<20)),
			SampleSeed:     int64(getEnvIntOrDefault("SAMPLE_SEED", 0)),
			SampleDate:     sampleDate,
			ExcelSheet:     getEnvOrDefault("EXCEL_SHEET", ""),
			DataFile:       getEnvOrDefault("DATA_FILE", ""),
			LenientNumbers: getEnvBoolOrDefault("LENIENT_NUMBERS", false),
		},
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		LogLevels: getEnvOrDefault("LOG_LEVELS", ""),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Chart.DPI < 36 || config.Chart.DPI > 1200 {
		return errors.ConfigInvalid("CHART_DPI must be between 36 and 1200")
	}
	if config.Chart.WidthInches <= 0 || config.Chart.HeightInches <= 0 {
		return errors.ConfigInvalid("chart dimensions must be positive")
	}
	if config.Chart.MaxConcurrent < 1 {
		return errors.ConfigInvalid("CHART_MAX_CONCURRENT must be at least 1")
	}
	policy, err := analysis.ParseMissingPolicy(config.Chart.MissingPolicy)
	if err != nil {
		return errors.ConfigInvalid("MISSING_POLICY must be zero or exclude")
	}
	config.Chart.MissingPolicy = string(policy)
	if _, err := internal.ParseComponentLevels(config.LogLevels); err != nil {
		return errors.ConfigInvalid("LOG_LEVELS: " + err.Error())
	}
	if config.Data.UploadMaxBytes <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, string(os.PathListSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

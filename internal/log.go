package internal

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

var levelTags = [...]string{"ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

func (l LogLevel) String() string {
	if l < LogLevelError || l > LogLevelTrace {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return levelTags[l]
}

// Logger provides leveled logging. Messages start with a "[Component]" tag;
// a component listed in the overrides logs at its own level.
type Logger struct {
	level      LogLevel
	components map[string]LogLevel
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level}
}

func parseLevel(s string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError, true
	case "WARN":
		return LogLevelWarn, true
	case "INFO":
		return LogLevelInfo, true
	case "DEBUG":
		return LogLevelDebug, true
	case "TRACE":
		return LogLevelTrace, true
	}
	return LogLevelInfo, false
}

// ParseLogLevel maps a LOG_LEVEL string to a level, defaulting to info
func ParseLogLevel(levelStr string) LogLevel {
	level, _ := parseLevel(levelStr)
	return level
}

// ParseComponentLevels reads LOG_LEVELS entries such as "chart=debug,sheets=error".
// Component names match the message tag case-insensitively.
func ParseComponentLevels(spec string) (map[string]LogLevel, error) {
	levels := make(map[string]LogLevel)
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, ok := strings.Cut(entry, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("log level entry %q must be component=level", entry)
		}
		level, ok := parseLevel(value)
		if !ok {
			return nil, fmt.Errorf("unknown log level %q for %s", strings.TrimSpace(value), name)
		}
		levels[name] = level
	}
	return levels, nil
}

// WithComponentLevels returns a copy of the logger using the given per-component levels
func (l *Logger) WithComponentLevels(levels map[string]LogLevel) *Logger {
	child := &Logger{level: l.level, components: make(map[string]LogLevel, len(levels))}
	for name, level := range levels {
		child.components[strings.ToLower(name)] = level
	}
	return child
}

// NewDefaultLogger creates a logger based on LOG_LEVEL and LOG_LEVELS environment variables
func NewDefaultLogger() *Logger {
	logger := &Logger{level: ParseLogLevel(os.Getenv("LOG_LEVEL"))}
	if levels, err := ParseComponentLevels(os.Getenv("LOG_LEVELS")); err == nil && len(levels) > 0 {
		logger = logger.WithComponentLevels(levels)
	}
	return logger
}

// componentOf extracts the lower-cased tag of "[Chart] ..." style formats
func componentOf(format string) string {
	if !strings.HasPrefix(format, "[") {
		return ""
	}
	end := strings.IndexByte(format, ']')
	if end <= 1 {
		return ""
	}
	return strings.ToLower(format[1:end])
}

// Enabled reports whether a message with this format would be written at level
func (l *Logger) Enabled(level LogLevel, format string) bool {
	if len(l.components) > 0 {
		if override, ok := l.components[componentOf(format)]; ok {
			return override >= level
		}
	}
	return l.level >= level
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if l.Enabled(level, format) {
		log.Printf("["+level.String()+"] "+format, args...)
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) { l.logf(LogLevelError, format, args...) }

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) { l.logf(LogLevelWarn, format, args...) }

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) { l.logf(LogLevelInfo, format, args...) }

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LogLevelDebug, format, args...) }

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) { l.logf(LogLevelTrace, format, args...) }

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()

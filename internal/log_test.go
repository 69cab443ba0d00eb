package internal

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"ERROR":   LogLevelError,
		" warn ":  LogLevelWarn,
		"debug":   LogLevelDebug,
		"TRACE":   LogLevelTrace,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseComponentLevels(t *testing.T) {
	levels, err := ParseComponentLevels(" Chart=debug, sheets=ERROR ,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if levels["chart"] != LogLevelDebug || levels["sheets"] != LogLevelError || len(levels) != 2 {
		t.Errorf("unexpected levels %v", levels)
	}

	for _, bad := range []string{"chart", "=debug", "chart=loud"} {
		if _, err := ParseComponentLevels(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestComponentOverrides(t *testing.T) {
	buf := captureLog(t)
	logger := NewLogger(LogLevelWarn).WithComponentLevels(map[string]LogLevel{"chart": LogLevelDebug, "sheets": LogLevelError})

	logger.Debug("[Chart] rendered %s", "item_summary")
	logger.Info("[Normalizer] mapped %d labels", 3)
	logger.Warn("[Sheets] slow fetch")
	logger.Warn("[Server] session store full")

	out := buf.String()
	if !strings.Contains(out, "[DEBUG] [Chart] rendered item_summary") {
		t.Errorf("chart debug message missing: %q", out)
	}
	if strings.Contains(out, "[Normalizer]") {
		t.Errorf("info message should be filtered at warn: %q", out)
	}
	if strings.Contains(out, "[Sheets]") {
		t.Errorf("sheets warning should be filtered by its override: %q", out)
	}
	if !strings.Contains(out, "[WARN] [Server] session store full") {
		t.Errorf("untagged component should use the base level: %q", out)
	}
}

func TestComponentOf(t *testing.T) {
	cases := map[string]string{
		"[Chart] x":   "chart",
		"[] x":        "",
		"no tag":      "",
		"[DataReader": "",
	}
	for in, want := range cases {
		if got := componentOf(in); got != want {
			t.Errorf("componentOf(%q) = %q, want %q", in, got, want)
		}
	}
}

package coercer

import (
	"math"
	"strconv"
	"strings"

	"github.com/reallygood83/mathemotion/domain/survey"
)

// TypeCoercer turns raw survey text into numeric cells with fixed, deterministic rules
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig selects which numeric spellings are accepted
type CoercionConfig struct {
	// Lenient accepts currency symbols, percent signs, thousands separators,
	// European decimal commas and parenthesised negatives.
	Lenient bool `json:"lenient"`
}

// DefaultCoercionConfig returns strict parsing: trimmed decimal or scientific notation only
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{Lenient: false}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// CoerceNumber converts raw text to a number cell, or to the missing marker when
// the text is empty or not a finite number. It never fails.
func (c *TypeCoercer) CoerceNumber(raw string) survey.Cell {
	if v, ok := c.ParseNumber(raw); ok {
		return survey.Number(v, strings.TrimSpace(raw))
	}
	return survey.Missing()
}

// CoerceText keeps text as-is; empty text becomes the missing marker
func (c *TypeCoercer) CoerceText(raw string) survey.Cell {
	return survey.Text(raw)
}

// ParseNumber reports the finite value of raw under the configured rules
func (c *TypeCoercer) ParseNumber(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}
	if c.config.Lenient {
		cleanVal = normalizeLenient(cleanVal)
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// normalizeLenient rewrites international spellings into Go float syntax
func normalizeLenient(cleanVal string) string {
	// (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "₩", "USD", "EUR", "GBP", "JPY", "KRW", "%", "점"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 or 1 234,56 when the tail after the last comma is short and all digits
		afterComma := cleanVal[strings.LastIndex(cleanVal, ",")+1:]
		if len(afterComma) <= 3 && allDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	case hasComma:
		// single comma with three trailing digits is a thousands separator, otherwise a decimal
		afterComma := cleanVal[strings.LastIndex(cleanVal, ",")+1:]
		if strings.Count(cleanVal, ",") > 1 || len(afterComma) == 3 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}
	return cleanVal
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

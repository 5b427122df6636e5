package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonNumericRe = regexp.MustCompile(`[^\d.,]`)

// ParseNonNegative coerces a messy cell ("1 200,50 ₽", "50р.", "—") to a
// non-negative number. Every character other than ASCII digits, '.' and ','
// is dropped, ',' becomes the decimal point, and anything that still fails to
// parse yields 0.
func ParseNonNegative(raw string) float64 {
	clean := nonNumericRe.ReplaceAllString(raw, "")
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return 0
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ExtractFirstNumber scans cells in column order and returns the first one
// that parses (after ',' -> '.') as a strictly positive number.
func ExtractFirstNumber(cells []string) (float64, bool) {
	for _, cell := range cells {
		s := strings.TrimSpace(strings.ReplaceAll(cell, ",", "."))
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			continue
		}
		return v, true
	}
	return 0, false
}

package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// First date-like token on a line: D/M/Y with /, - or . separators.
	datePattern = regexp.MustCompile(`\b(\d{1,2})([/\-.])(\d{1,2})([/\-.])(\d{2,4})\b`)

	// Monetary token: comma-grouped dollars with optional cents, plain
	// dollars with cents, or a $-prefixed whole number. Bare integers are
	// deliberately not amounts — they are check numbers and references.
	amountPattern = regexp.MustCompile(`\$?\d{1,3}(?:,\d{3})+(?:\.\d{2})?|\$?\d+\.\d{2}|\$\d+`)

	// Column header lines at the top of a statement table.
	headerPattern = regexp.MustCompile(`(?i)^\s*(date|transaction|description|amount|balance)\b`)

	// Descriptions indicating a money-in line.
	creditPattern = regexp.MustCompile(`(?i)\b(deposit|credit|refund|interest|dividend)\b`)

	// Lines that legitimately carry only a balance figure.
	balanceOnlyPattern = regexp.MustCompile(`(?i)(OPENING BALANCE|BALANCE|FORWARD)`)
)

// parseAmount converts a token like "1,234.56", "$500" or "(150.00)" to a
// float64.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "()")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// sanitizeOCRLine fixes common recognition errors in amount tokens before
// parsing. Tesseract often misreads periods as semicolons or colons in
// numbers, e.g. "19,720; 15" for "19,720.15".
func sanitizeOCRLine(line string) string {
	line = regexp.MustCompile(`(\d);(\s*)(\d)`).ReplaceAllString(line, "$1.$3")
	line = regexp.MustCompile(`(\d):(\d)`).ReplaceAllString(line, "$1.$2")
	line = regexp.MustCompile(`(\d):\s`).ReplaceAllString(line, "$1 ")
	line = regexp.MustCompile(`(\d):$`).ReplaceAllString(line, "$1")
	return line
}

// normalizeDate parses a matched date token into a calendar date,
// expanding 2-digit years around a pivot (<50 becomes 20xx, else 19xx).
// Returns the zero time when the components do not form a real date.
func normalizeDate(month, day, year string) (time.Time, bool) {
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	if len(year) <= 2 {
		if y < 50 {
			y += 2000
		} else {
			y += 1900
		}
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (13/45 rolls over), so
	// a round-trip mismatch means the original date was not real.
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// maskSpan blanks out a byte range so later scans skip it while keeping
// the offsets of the rest of the line stable.
func maskSpan(line []byte, start, end int) {
	for i := start; i < end && i < len(line); i++ {
		line[i] = ' '
	}
}

// collapseSpaces trims and collapses runs of whitespace to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

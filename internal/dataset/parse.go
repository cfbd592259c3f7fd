package dataset

import (
	"strconv"
	"strings"
	"time"
)

// mapColumns builds a lowercased column name → index map from a header row.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a column value by name from a record, returning empty string if not found.
func getCol(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[strings.ToLower(name)]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseFloatPtr parses a string as a float64, returning nil if the string is
// empty or does not parse.
func parseFloatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseIntPtr parses a string as an int, returning nil if the string is
// empty or does not parse. Values like "2015.0" (spreadsheet numerics) are
// accepted.
func parseIntPtr(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return nil
	}
	v := int(f)
	return &v
}

// parseBoolFlag reports whether a string encodes a set flag: 1, true, yes
// or y, case-insensitively. Anything else is false.
func parseBoolFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// strPtrOrNil returns a pointer to the trimmed string, or nil when blank.
func strPtrOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// dateFromYearMonth builds a date from separate year and month values with
// the day fixed at 1. A missing year or a month outside 1..12 yields nil.
func dateFromYearMonth(year, month *int) *time.Time {
	if year == nil || month == nil {
		return nil
	}
	if *month < 1 || *month > 12 {
		return nil
	}
	t := time.Date(*year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
	return &t
}

// crocDateLayouts are tried in order when parsing crocodile dates. The
// slash forms are day-first, matching the source data's locale.
var crocDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

// parseDateMulti parses a date string against the known layouts, returning
// nil when none match.
func parseDateMulti(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range crocDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

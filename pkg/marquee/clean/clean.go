// Package clean normalizes individual raw fields from the movie dataset.
//
// Every cleaner follows the same contract: a malformed or absent value is
// data, not an error, and yields the "missing" result instead of failing.
package clean

import (
	"strconv"
	"strings"
	"unicode"
)

// absent reports whether a raw field value carries no data. The IMDB dump
// uses empty cells and literal NA markers interchangeably.
func absent(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", "NA", "N/A":
		return true
	}
	return false
}

// Runtime extracts the first contiguous run of digits from a runtime string
// ("142 min" → 142). Returns ok=false when no digits are present.
func Runtime(raw string) (int, bool) {
	if absent(raw) {
		return 0, false
	}

	start := -1
	end := -1
	for i, r := range raw {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			end = i + 1
		} else if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	minutes, err := strconv.Atoi(raw[start:end])
	if err != nil {
		return 0, false
	}
	return minutes, true
}

// Year parses a release year as a plain integer.
func Year(raw string) (int, bool) {
	if absent(raw) {
		return 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return year, true
}

// Gross parses a gross revenue string, tolerating commas and dollar signs
// ("$28,341,469" → 28341469).
func Gross(raw string) (int64, bool) {
	if absent(raw) {
		return 0, false
	}

	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r == ',' || r == '$' {
			continue
		}
		b.WriteRune(r)
	}

	amount, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// Genres splits a comma-separated genre string into trimmed parts, keeping
// the original order and any duplicates. Absent input yields an empty slice.
func Genres(raw string) []string {
	if absent(raw) {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		genres = append(genres, strings.TrimSpace(p))
	}
	return genres
}

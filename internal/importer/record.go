package importer

import (
	"fmt"
	"strings"

	"ballot-backend/internal/metadata"
)

// Record is one parsed input row: attribute name to raw value. Records are
// ephemeral; resolution builds a new resolved map and never mutates the
// input row, so a failed batch can be reported with its original values.
type Record = map[string]any

// Failure is one human-readable import failure, with the offending input
// row attached where available.
type Failure struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Result is what the caller gets back: an ordered list of failures.
// A successful import has an empty list.
type Result struct {
	Failures []Failure `json:"failures"`
}

// Options selects what and how to import.
type Options struct {
	Slug    string // content type identifier
	Format  string // "csv" or "json"
	User    *metadata.UserContext
	IDField string // identifier field used to match existing entities; empty means the configured default
}

// rowNumber converts a 0-based record index into the row number reported to
// users: 1-indexed plus one for the header row, so the first data row is 2.
func rowNumber(idx int) int {
	return idx + 2
}

// fieldString returns the record value as a trimmed string, or "" when the
// value is absent, nil or not string-like.
func fieldString(rec Record, field string) string {
	v, ok := rec[field]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64, int, int64:
		return strings.TrimSpace(fmt.Sprintf("%v", s))
	default:
		return ""
	}
}

// fieldEmpty reports whether a record value is missing, nil or blank.
func fieldEmpty(rec Record, field string) bool {
	v, ok := rec[field]
	if !ok || v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// missingFields returns the required fields a record does not carry.
func missingFields(rec Record, required []string) []string {
	var missing []string
	for _, f := range required {
		if fieldEmpty(rec, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

package validation

import (
	"net/mail"
	"sort"
	"strings"
)

// Violations maps field names to the rule they broke.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// First returns one violation as a "field: rule" message for the error
// envelope. Fields are visited in sorted order so the surfaced message is
// stable when several rules fail at once.
func (v Violations) First() string {
	if len(v) == 0 {
		return ""
	}
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields[0] + ": " + v[fields[0]]
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MinInt(field string, val, minVal int, v Violations) {
	if val < minVal {
		v[field] = "too_small"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

// Email flags a malformed address; empty values pass (use Required for
// mandatory fields).
func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v[field] = "invalid_email"
	}
}

// OneOf flags values outside the allowed set; empty values pass.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "not_allowed"
}

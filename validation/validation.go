package validation

import "strings"

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Present flags a field that was missing from the payload. An empty string is accepted.
func Present(field string, value *string, v Violations) {
	if value == nil {
		v[field] = "required"
	}
}

// RequiredPtr flags a field that is missing or blank.
func RequiredPtr(field string, value *string, v Violations) {
	if value == nil {
		v[field] = "required"
		return
	}
	Required(field, *value, v)
}

func PresentInt(field string, value *int, v Violations) {
	if value == nil {
		v[field] = "required"
	}
}

func NonNegative(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

// Package validation provides composable request validators. Each validator is
// a pure function returning zero or more violations; validation always runs to
// completion so a client sees every failed constraint in one response.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Violation describes one failed constraint on a request field.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// Violations is an ordered list of violations. It implements error so
// services can return it directly.
type Violations []Violation

func (v Violations) Error() string {
	if len(v) == 0 {
		return "validation passed"
	}
	msgs := make([]string, len(v))
	for i, violation := range v {
		msgs[i] = fmt.Sprintf("%s: %s", violation.Field, violation.Message)
	}
	return strings.Join(msgs, "; ")
}

// Check is a single validation step producing zero or more violations.
type Check func() Violations

// Collect runs every check and concatenates their violations.
func Collect(checks ...Check) Violations {
	var out Violations
	for _, check := range checks {
		out = append(out, check()...)
	}
	return out
}

// Required checks that a string value is present and non-empty.
func Required(field, value string) Check {
	return func() Violations {
		if strings.TrimSpace(value) == "" {
			return Violations{{
				Field:      field,
				Constraint: "required",
				Message:    "is required",
			}}
		}
		return nil
	}
}

// UUIDFormat checks that a value is a canonical UUID v4 string.
func UUIDFormat(field, value string) Check {
	return func() Violations {
		if !isUUIDv4(value) {
			return Violations{{
				Field:      field,
				Constraint: "uuid",
				Message:    "must be a valid UUID",
			}}
		}
		return nil
	}
}

// OptionalUUIDFormat validates a UUID only when present.
func OptionalUUIDFormat(field string, value *string) Check {
	return func() Violations {
		if value == nil {
			return nil
		}
		return UUIDFormat(field, *value)()
	}
}

// UUIDSliceFormat checks every element of a UUID list, attributing each
// violation to its index within the field.
func UUIDSliceFormat(field string, values []string) Check {
	return func() Violations {
		var out Violations
		for i, value := range values {
			if !isUUIDv4(value) {
				out = append(out, Violation{
					Field:      fmt.Sprintf("%s[%d]", field, i),
					Constraint: "uuid",
					Message:    "must be a valid UUID",
				})
			}
		}
		return out
	}
}

// Length checks that a string's rune count falls within [min, max].
func Length(field, value string, min, max int) Check {
	return func() Violations {
		n := utf8.RuneCountInString(value)
		if n < min || n > max {
			return Violations{{
				Field:      field,
				Constraint: "length",
				Message:    fmt.Sprintf("must be between %d and %d characters", min, max),
			}}
		}
		return nil
	}
}

// OptionalLength validates length only when the value is present.
func OptionalLength(field string, value *string, min, max int) Check {
	return func() Violations {
		if value == nil {
			return nil
		}
		return Length(field, *value, min, max)()
	}
}

// OneOf checks enum membership.
func OneOf(field, value string, allowed ...string) Check {
	return func() Violations {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return Violations{{
			Field:      field,
			Constraint: "enum",
			Message:    fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
		}}
	}
}

// NonEmptySlice checks that a slice field has at least one element.
func NonEmptySlice(field string, length int) Check {
	return func() Violations {
		if length == 0 {
			return Violations{{
				Field:      field,
				Constraint: "required",
				Message:    "must contain at least one element",
			}}
		}
		return nil
	}
}

func isUUIDv4(value string) bool {
	if len(value) != 36 {
		return false
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return false
	}
	return parsed.Version() == 4
}

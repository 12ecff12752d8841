package validation

import (
	"regexp"
	"unicode"
)

// Account field bounds.
const (
	PasswordMinLen = 12
	PasswordMaxLen = 128
	EmailMaxLen    = 254
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format and length.
func ValidateEmail(email string) Violations {
	return Collect(
		func() Violations {
			if !emailRegex.MatchString(email) {
				return Violations{{
					Field:      "email",
					Constraint: "format",
					Message:    "must be a valid email address",
				}}
			}
			return nil
		},
		func() Violations {
			if len(email) > EmailMaxLen {
				return Violations{{
					Field:      "email",
					Constraint: "length",
					Message:    "must not exceed 254 characters",
				}}
			}
			return nil
		},
	)
}

// ValidatePassword checks password length and character-class requirements.
// Every failed constraint is reported, not just the first one.
func ValidatePassword(password string) Violations {
	var out Violations

	if len(password) < PasswordMinLen {
		out = append(out, Violation{
			Field:      "password",
			Constraint: "length",
			Message:    "must be at least 12 characters long",
		})
	}
	if len(password) > PasswordMaxLen {
		out = append(out, Violation{
			Field:      "password",
			Constraint: "length",
			Message:    "must not exceed 128 characters",
		})
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		out = append(out, Violation{
			Field:      "password",
			Constraint: "format",
			Message:    "must contain at least one uppercase letter",
		})
	}
	if !hasLower {
		out = append(out, Violation{
			Field:      "password",
			Constraint: "format",
			Message:    "must contain at least one lowercase letter",
		})
	}
	if !hasDigit {
		out = append(out, Violation{
			Field:      "password",
			Constraint: "format",
			Message:    "must contain at least one number",
		})
	}

	return out
}

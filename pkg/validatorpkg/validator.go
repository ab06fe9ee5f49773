// Package validatorpkg provides common input validation for apps.
package validatorpkg

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidArgument indicates a malformed range where min is greater than max.
var ErrInvalidArgument = errors.New("invalid range: min is greater than max")

// IsWithinRange reports whether value lies in the inclusive range [min, max].
//
// The bounds are compared directly, without any tolerance. It returns ErrInvalidArgument
// if min > max.
func IsWithinRange(value, min, max float64) (bool, error) {
	if min > max {
		return false, ErrInvalidArgument
	}

	return min <= value && value <= max, nil
}

// Account number layout: 4 digits, a hyphen, 5 letters.
const (
	accountNumberLen = 10
	hyphenPos        = 4
)

// IsAccountNumber returns true if s has the form DDDD-LLLLL
// where D is an ASCII digit and L is an ASCII letter of either case.
func IsAccountNumber(s string) bool {
	if len(s) != accountNumberLen {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case i < hyphenPos:
			if c < '0' || c > '9' {
				return false
			}
		case i == hyphenPos:
			if c != '-' {
				return false
			}
		default:
			if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
				return false
			}
		}
	}

	return true
}

// ValidAccountNumber validates whether the field holds a well-formed account number.
var ValidAccountNumber validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return IsAccountNumber(s)
	}

	return false
}

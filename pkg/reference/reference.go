package reference

import (
	"errors"
	"strings"
	"unicode"
)

// Length is the number of digits in a reference
const Length = 9

// ErrInvalidFormat is returned for any input that is not exactly nine digits once whitespace is removed
var ErrInvalidFormat = errors.New("reference must be exactly 9 digits")

// Validate strips all whitespace from raw and returns the canonical 9-digit reference
func Validate(raw string) (string, error) {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if len(normalized) != Length {
		return "", ErrInvalidFormat
	}

	for i := 0; i < len(normalized); i++ {
		if normalized[i] < '0' || normalized[i] > '9' {
			return "", ErrInvalidFormat
		}
	}

	return normalized, nil
}

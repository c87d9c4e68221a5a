package naming

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidName is returned when a candidate name fails validation.
var ErrInvalidName = errors.New("invalid constant name")

const dunder = "__"

// Validate reports whether name may be used as a constant name.
func Validate(name string) error {
	if IsDunder(name) {
		return nil
	}
	if !IsUpper(name) {
		return fmt.Errorf("%w: %q must be ALL_CAPS", ErrInvalidName, name)
	}
	return nil
}

// IsUpper mirrors str.isupper: at least one cased rune and none of them
// lower or title case.
func IsUpper(name string) bool {
	cased := false
	for _, r := range name {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// IsDunder reports whether name starts and ends with a double underscore.
func IsDunder(name string) bool {
	return strings.HasPrefix(name, dunder) && strings.HasSuffix(name, dunder)
}

// Normalize returns the registry key for name. It applies full Unicode
// upper-casing, so "ß" becomes "SS".
func Normalize(name string) string {
	// A Caser is stateful and must not be shared between goroutines.
	return cases.Upper(language.Und).String(name)
}

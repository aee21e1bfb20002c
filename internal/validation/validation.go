// Package validation holds the input sanitisers and field validators used by
// the lead wizard. Every function is pure.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

const MobileLength = 10

// Validation messages shown next to the offending input
const (
	MsgMobileRequired = "Mobile Number is required"
	MsgMobileLength   = "Mobile number must contain exactly 10 digits"
	MsgInvalidEmail   = "Invalid email format"
)

var (
	// ErrRequired is returned when a required value is empty
	ErrRequired = errors.New("value is required")

	// ErrInvalidFormat is returned when a value does not match its expected format
	ErrInvalidFormat = errors.New("invalid format")
)

// space matches what ECMAScript treats as whitespace. RE2 \s alone is ASCII only.
const space = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	nonDigit      = regexp.MustCompile(`\D`)
	nonName       = regexp.MustCompile(`[^a-zA-Z` + space + `]`)
	nonAddress    = regexp.MustCompile(`[^a-zA-Z0-9` + space + `.,\-/\n]`)
	whitespace    = regexp.MustCompile(`[` + space + `]`)
	nonDoorSize   = regexp.MustCompile(`[^0-9xXa-zA-Z` + space + `.]`)
	emailPattern  = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	leadingNumber = regexp.MustCompile(`^[+-]?\d+`)
)

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// SanitizeMobile keeps digits only and truncates to ten of them
func SanitizeMobile(s string) string {
	digits := nonDigit.ReplaceAllString(s, "")
	if len(digits) > MobileLength {
		digits = digits[:MobileLength]
	}
	return digits
}

// ValidateMobile returns an empty string when s is a ten digit number,
// otherwise the message to display.
func ValidateMobile(s string) string {
	if s == "" {
		return MsgMobileRequired
	}
	if len(s) != MobileLength {
		return MsgMobileLength
	}
	return ""
}

// CheckMobile is ValidateMobile with a wrapped sentinel error
func CheckMobile(s string) error {
	switch msg := ValidateMobile(s); msg {
	case "":
		return nil
	case MsgMobileRequired:
		return &FieldError{Message: msg, Err: ErrRequired}
	default:
		return &FieldError{Message: msg, Err: ErrInvalidFormat}
	}
}

// SanitizeNumber keeps digits only
func SanitizeNumber(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// SanitizeName keeps ASCII letters and whitespace
func SanitizeName(s string) string {
	return nonName.ReplaceAllString(s, "")
}

// SanitizeAddress keeps ASCII letters, digits, whitespace and . , - /
func SanitizeAddress(s string) string {
	return nonAddress.ReplaceAllString(s, "")
}

// SanitizeEmail drops whitespace
func SanitizeEmail(s string) string {
	return whitespace.ReplaceAllString(s, "")
}

// ValidateEmail accepts an empty value. Anything else must look like
// local@domain.tld.
func ValidateEmail(s string) string {
	if s == "" {
		return ""
	}
	if !emailPattern.MatchString(s) {
		return MsgInvalidEmail
	}
	return ""
}

// CheckEmail is ValidateEmail with a wrapped sentinel error
func CheckEmail(s string) error {
	if msg := ValidateEmail(s); msg != "" {
		return &FieldError{Message: msg, Err: ErrInvalidFormat}
	}
	return nil
}

// SanitizeDoorSize keeps digits, letters, whitespace and dots so values like
// "3ft x 7ft" survive
func SanitizeDoorSize(s string) string {
	return nonDoorSize.ReplaceAllString(s, "")
}

// ParseCount parses the leading integer of s, ignoring leading whitespace.
// Anything that does not start with a number yields 0.
func ParseCount(s string) int {
	m := leadingNumber.FindString(strings.TrimLeftFunc(s, isSpace))
	if m == "" {
		return 0
	}
	neg := false
	switch m[0] {
	case '-':
		neg = true
		m = m[1:]
	case '+':
		m = m[1:]
	}
	n := 0
	for _, c := range m {
		n = n*10 + int(c-'0')
		if n > 1<<31-1 {
			n = 1<<31 - 1
			break
		}
	}
	if neg {
		return -n
	}
	return n
}

// FieldError is a validation failure carrying its display message
type FieldError struct {
	Message string
	Err     error
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return e.Err }

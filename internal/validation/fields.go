package validation

import "fmt"

// FieldKind names a class of input that shares one sanitiser
type FieldKind string

const (
	KindName     FieldKind = "name"
	KindMobile   FieldKind = "mobile"
	KindNumber   FieldKind = "number"
	KindAddress  FieldKind = "address"
	KindEmail    FieldKind = "email"
	KindDoorSize FieldKind = "doorSize"

	// KindNone marks select, date and photo inputs that are stored as given
	KindNone FieldKind = ""
)

var sanitizers = map[FieldKind]func(string) string{
	KindName:     SanitizeName,
	KindMobile:   SanitizeMobile,
	KindNumber:   SanitizeNumber,
	KindAddress:  SanitizeAddress,
	KindEmail:    SanitizeEmail,
	KindDoorSize: SanitizeDoorSize,
}

// Sanitize applies the sanitiser for kind. KindNone returns s unchanged.
func Sanitize(kind FieldKind, s string) (string, error) {
	if kind == KindNone {
		return s, nil
	}
	fn, ok := sanitizers[kind]
	if !ok {
		return "", fmt.Errorf("unknown field kind %q", kind)
	}
	return fn(s), nil
}

// MustSanitize is Sanitize for kinds known at compile time
func MustSanitize(kind FieldKind, s string) string {
	out, err := Sanitize(kind, s)
	if err != nil {
		panic(err)
	}
	return out
}

// ValidateKind runs the format validator for kinds that have one. Only mobile
// and email carry format rules; other kinds always pass.
func ValidateKind(kind FieldKind, s string) string {
	switch kind {
	case KindMobile:
		return ValidateMobile(s)
	case KindEmail:
		return ValidateEmail(s)
	default:
		return ""
	}
}

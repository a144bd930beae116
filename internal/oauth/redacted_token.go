package oauth

// RedactedToken wraps a sensitive credential string to prevent accidental
// logging or serialization.
//
// The type implements fmt.Stringer, fmt.GoStringer, encoding.TextMarshaler
// and json.Marshaler, all of which return "[REDACTED]" instead of the
// wrapped value. The only way to read the credential is the explicit
// Value method:
//
//	token := oauth.NewRedactedToken("gho_secret")
//	fmt.Println(token)     // prints: [REDACTED]
//	token.Value()          // returns: "gho_secret"
type RedactedToken struct {
	value string
}

// NewRedactedToken creates a new RedactedToken wrapping the given value.
func NewRedactedToken(value string) RedactedToken {
	return RedactedToken{value: value}
}

// Value returns the actual credential. Use it only to build an outbound
// authenticated request; never log the result.
func (t RedactedToken) Value() string {
	return t.value
}

// String implements fmt.Stringer.
func (t RedactedToken) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (t RedactedToken) GoString() string {
	return "oauth.RedactedToken{[REDACTED]}"
}

// IsEmpty returns true if the wrapped value is empty.
func (t RedactedToken) IsEmpty() bool {
	return t.value == ""
}

// MarshalText implements encoding.TextMarshaler.
func (t RedactedToken) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// MarshalJSON implements json.Marshaler.
func (t RedactedToken) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

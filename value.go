package privy

import "github.com/scionx/privy-go/internal/canonical"

// Value is an immutable JSON value: null, bool, number, string, array or
// object. Use the accessors rather than type switches.
type Value = canonical.Value

// Kind identifies the variant held by a Value.
type Kind = canonical.Kind

// Value kinds.
const (
	KindNull   = canonical.KindNull
	KindBool   = canonical.KindBool
	KindNumber = canonical.KindNumber
	KindString = canonical.KindString
	KindArray  = canonical.KindArray
	KindObject = canonical.KindObject
)

// ParseValue decodes JSON into a Value. Numbers keep their exact integer
// value when they fit in an int64.
func ParseValue(data []byte) (Value, error) {
	return canonical.Parse(data)
}

// ValueOf converts a Go value to a Value. Structs are converted through
// their JSON encoding.
func ValueOf(v any) (Value, error) {
	return canonical.FromAny(v)
}

// Canonicalize returns the RFC 8785 canonical JSON encoding of v.
func Canonicalize(v any) ([]byte, error) {
	return canonical.Canonicalize(v)
}

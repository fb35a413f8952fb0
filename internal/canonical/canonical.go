// Package canonical implements deterministic JSON serialization following
// the RFC 8785 JSON Canonicalization Scheme (JCS).
//
// Go values are first converted into a Value tree, which rejects anything
// with no JSON form and records where it was found. The tree is then encoded
// with encoding/json and rewritten by github.com/gowebpki/jcs: object keys
// sorted by UTF-16 code units, no insignificant whitespace, numbers in the
// ECMAScript shortest round-trip form and the minimal string escape set.
// Signatures over request payloads depend on two equal values producing
// identical bytes.
package canonical

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/gowebpki/jcs"
)

// EncodingError reports a value that has no canonical JSON representation.
type EncodingError struct {
	// Path locates the offending value, e.g. "$.body.items[2]".
	Path   string
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Path == "" {
		return "canonical: " + e.Reason
	}
	return fmt.Sprintf("canonical: %s: %s", e.Path, e.Reason)
}

// Canonicalize returns the canonical JSON encoding of v.
func Canonicalize(v any) ([]byte, error) {
	val, err := FromAny(v)
	if err != nil {
		return nil, err
	}
	return val.canonical()
}

// FromAny converts a Go value into a Value.
func FromAny(v any) (Value, error) {
	return fromAny("$", v)
}

var (
	valueType         = reflect.TypeOf(Value{})
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

func fromAny(path string, v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case *Value:
		if x == nil {
			return Null(), nil
		}
		return *x, nil
	case bool:
		return Bool(x), nil
	case string:
		if !utf8.ValidString(x) {
			return Value{}, &EncodingError{Path: path, Reason: "invalid UTF-8 in string"}
		}
		return String(x), nil
	case json.Number:
		val, err := numberFromLiteral(string(x))
		return val, withPath(err, path)
	case float64:
		val, err := Float(x)
		return val, withPath(err, path)
	case float32:
		val, err := Float(float64(x))
		return val, withPath(err, path)
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case int32:
		return Int(int64(x)), nil
	case []byte:
		return Value{}, &EncodingError{Path: path, Reason: "binary data must be base64-encoded before canonicalization"}
	case json.RawMessage:
		parsed, err := Parse(x)
		if err != nil {
			return Value{}, &EncodingError{Path: path, Reason: fmt.Sprintf("invalid raw JSON: %v", err)}
		}
		return parsed, nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			fv, err := fromAny(path+"."+k, item)
			if err != nil {
				return Value{}, err
			}
			fields[k] = fv
		}
		return Value{kind: KindObject, obj: fields}, nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			iv, err := fromAny(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return Value{kind: KindArray, arr: items}, nil
	}
	return fromReflect(path, reflect.ValueOf(v))
}

func fromReflect(path string, rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Null(), nil
	}
	if k := rv.Kind(); (k == reflect.Pointer || k == reflect.Interface) && rv.IsNil() {
		return Null(), nil
	}
	switch t := rv.Type(); {
	case t == valueType:
		return rv.Interface().(Value), nil
	case t == reflect.PointerTo(valueType):
		return *(rv.Interface().(*Value)), nil
	case t.Implements(jsonMarshalerType):
		// Sign exactly what encoding/json will send.
		return fromJSON(path, rv.Interface())
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return fromAny(path, rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return fromAny(path, rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			val, err := Float(float64(u))
			return val, withPath(err, path)
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		val, err := Float(rv.Float())
		return val, withPath(err, path)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Value{}, &EncodingError{Path: path, Reason: "binary data must be base64-encoded before canonicalization"}
		}
		items := make([]Value, rv.Len())
		for i := range items {
			iv, err := fromReflect(fmt.Sprintf("%s[%d]", path, i), rv.Index(i))
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return Value{kind: KindArray, arr: items}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, &EncodingError{Path: path, Reason: fmt.Sprintf("map key type %s is not a string", rv.Type().Key())}
		}
		if rv.IsNil() {
			return Null(), nil
		}
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			fv, err := fromReflect(path+"."+k, iter.Value())
			if err != nil {
				return Value{}, err
			}
			fields[k] = fv
		}
		return Value{kind: KindObject, obj: fields}, nil
	case reflect.Struct:
		return fromJSON(path, rv.Interface())
	default:
		return Value{}, &EncodingError{Path: path, Reason: fmt.Sprintf("unsupported type %s", rv.Type())}
	}
}

// fromJSON routes structs and json.Marshaler implementations through their
// JSON form so field tags, omitempty rules and custom encodings are honored.
func fromJSON(path string, v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, &EncodingError{Path: path, Reason: err.Error()}
	}
	parsed, err := Parse(data)
	if err != nil {
		return Value{}, &EncodingError{Path: path, Reason: err.Error()}
	}
	return parsed, nil
}

func (v Value) canonical() ([]byte, error) {
	data, err := json.Marshal(v.Interface())
	if err != nil {
		return nil, &EncodingError{Reason: err.Error()}
	}
	out, err := jcs.Transform(data)
	if err != nil {
		return nil, &EncodingError{Reason: err.Error()}
	}
	return out, nil
}

func withPath(err error, path string) error {
	if err == nil {
		return nil
	}
	if encErr, ok := err.(*EncodingError); ok && encErr.Path == "" {
		return &EncodingError{Path: path, Reason: encErr.Reason}
	}
	return err
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

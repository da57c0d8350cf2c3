package statdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one node of a parsed stat tree
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	array  []Value
	object map[string]Value
}

// Kind returns the variant held by the value
func (v Value) Kind() Kind {
	return v.kind
}

// AsNumber returns the numeric payload, or false when the value is not a number
func (v Value) AsNumber() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	return v.n, true
}

// AsString returns the string payload, or false when the value is not a string
func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// AsBool returns the boolean payload, or false when the value is not a boolean
func (v Value) AsBool() (value bool, ok bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// AsArray returns the elements, or false when the value is not an array
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != Array {
		return nil, false
	}
	return v.array, true
}

// Field returns the named member of an object value
func (v Value) Field(name string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	child, ok := v.object[name]
	return child, ok
}

// Keys returns the member names of an object value in no particular order
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, 0, len(v.object))
	for k := range v.object {
		keys = append(keys, k)
	}
	return keys
}

// Lookup resolves a dot-separated path below this value.
// Any missing segment or non-object intermediate resolves to absent.
func (v Value) Lookup(path string) (Value, bool) {
	if path == "" {
		return v, true
	}
	current := v
	for _, segment := range strings.Split(path, ".") {
		next, ok := current.Field(segment)
		if !ok {
			return Value{}, false
		}
		current = next
	}
	return current, true
}

// Document is a read-only player or guild response from the stats API
type Document struct {
	root Value
}

// Parse decodes a JSON payload into a Document
func Parse(data []byte) (*Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode stat document: %w", err)
	}

	return &Document{root: FromAny(raw)}, nil
}

// New builds a Document from plain Go maps, slices and scalars
func New(fields map[string]any) *Document {
	return &Document{root: FromAny(fields)}
}

// Wrap builds a Document rooted at an existing value
func Wrap(root Value) *Document {
	return &Document{root: root}
}

// FromAny converts decoded JSON (or equivalent Go literals) into a Value.
// Unsupported types become Null.
func FromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Value{kind: Null}
	case bool:
		return Value{kind: Bool, b: t}
	case string:
		return Value{kind: String, s: t}
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{kind: Null}
		}
		return Value{kind: Number, n: n}
	case float64:
		return Value{kind: Number, n: t}
	case float32:
		return Value{kind: Number, n: float64(t)}
	case int:
		return Value{kind: Number, n: float64(t)}
	case int32:
		return Value{kind: Number, n: float64(t)}
	case int64:
		return Value{kind: Number, n: float64(t)}
	case []any:
		elements := make([]Value, len(t))
		for i, e := range t {
			elements[i] = FromAny(e)
		}
		return Value{kind: Array, array: elements}
	case []map[string]any:
		elements := make([]Value, len(t))
		for i, e := range t {
			elements[i] = FromAny(e)
		}
		return Value{kind: Array, array: elements}
	case map[string]any:
		members := make(map[string]Value, len(t))
		for k, e := range t {
			members[k] = FromAny(e)
		}
		return Value{kind: Object, object: members}
	default:
		return Value{kind: Null}
	}
}

// Root returns the top-level value
func (d *Document) Root() Value {
	if d == nil {
		return Value{}
	}
	return d.root
}

// Lookup resolves a dot-separated path from the document root
func (d *Document) Lookup(path string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	return d.root.Lookup(path)
}

// Number returns the number at path
func (d *Document) Number(path string) (float64, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return 0, false
	}
	return v.AsNumber()
}

// Int returns the number at path truncated toward zero
func (d *Document) Int(path string) (int64, bool) {
	n, ok := d.Number(path)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

// String returns the string at path
func (d *Document) String(path string) (string, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// Bool returns the boolean at path
func (d *Document) Bool(path string) (value bool, ok bool) {
	v, found := d.Lookup(path)
	if !found {
		return false, false
	}
	return v.AsBool()
}

// Array returns the array at path
func (d *Document) Array(path string) ([]Value, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return nil, false
	}
	return v.AsArray()
}

// KindAt reports the kind at path, or false when the path is absent
func (d *Document) KindAt(path string) (Kind, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return Null, false
	}
	return v.Kind(), true
}

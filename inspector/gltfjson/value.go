// Package gltfjson holds the untyped view of a glTF JSON document: a tagged
// value tree that keeps object key order, the pretty printer shown in the
// inspector's tree panel, and path lookup used to cross-link selections.
package gltfjson

import "strconv"

// Kind tags the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the lower-case JSON name of the kind.
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
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is Null.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	integer bool
	str     string
	elems   []Value
	members []Member
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: Bool, boolean: b} }

// IntValue wraps an integral number. It prints without a fractional part.
func IntValue(n int64) Value { return Value{kind: Number, number: float64(n), integer: true} }

// FloatValue wraps a number that was written with a fraction or exponent.
func FloatValue(f float64) Value { return Value{kind: Number, number: f} }

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// ArrayValue wraps elems in order.
func ArrayValue(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: Array, elems: elems}
}

// ObjectValue wraps members, keeping their order.
func ObjectValue(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: Object, members: members}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the JSON null.
func (v Value) IsNull() bool { return v.kind == Null }

// IsInt reports whether v is a number written without fraction or exponent.
func (v Value) IsInt() bool { return v.kind == Number && v.integer }

// AsBool returns the boolean and whether v is a Bool.
func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == Bool }

// Float returns the number and whether v is a Number.
func (v Value) Float() (float64, bool) { return v.number, v.kind == Number }

// Int returns the integer and whether v is an integral Number.
func (v Value) Int() (int64, bool) {
	if !v.IsInt() {
		return 0, false
	}
	return int64(v.number), true
}

// Str returns the string and whether v is a String.
func (v Value) Str() (string, bool) { return v.str, v.kind == String }

// Elements returns the elements of an Array, or nil.
func (v Value) Elements() []Value { return v.elems }

// Members returns the members of an Object, or nil.
func (v Value) Members() []Member { return v.members }

// Len returns the element count of an Array, the member count of an Object, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.elems)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

// Index returns element i of an Array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.elems) {
		return Value{}, false
	}
	return v.elems[i], true
}

// Field returns the value stored under key in an Object.
// When a key repeats, the last occurrence wins, as with encoding/json.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for i := len(v.members) - 1; i >= 0; i-- {
		if v.members[i].Key == key {
			return v.members[i].Value, true
		}
	}
	return Value{}, false
}

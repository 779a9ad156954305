package settings

import "fmt"

// Kind identifies the JSON type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  float64
	raw  string // number literal as written in the source, if any
	str  string
	arr  []Value
	obj  *Document
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns an array value holding a copy of items.
func Array(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: KindArray, arr: arr}
}

// Object returns an object value wrapping doc. A nil doc is treated as an
// empty object.
func Object(doc *Document) Value {
	if doc == nil {
		doc = NewDocument()
	}
	return Value{kind: KindObject, obj: doc}
}

func numberLiteral(raw string, f float64) Value {
	return Value{kind: KindNumber, num: f, raw: raw}
}

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsObject reports whether v is an object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsBool returns the boolean held by v and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString returns the string held by v and whether v is a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsArray returns a copy of the items held by v and whether v is an array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out, true
}

// AsObject returns the document held by v and whether v is an object.
func (v Value) AsObject() (*Document, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Equal reports whether a and b hold the same JSON value. Numbers compare
// by numeric value, arrays element-wise and objects by key set and
// values regardless of key order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return documentsEqual(a.obj, b.obj)
	}
	return false
}

func documentsEqual(a, b *Document) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, key := range a.Keys() {
		av, _ := a.Get(key)
		bv, ok := b.Get(key)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func (v Value) clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, item := range v.arr {
			arr[i] = item.clone()
		}
		v.arr = arr
	case KindObject:
		v.obj = v.obj.Clone()
	}
	return v
}

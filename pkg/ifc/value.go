package ifc

import (
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindDerived
	KindString
	KindInteger
	KindReal
	KindEnum
	KindBinary
	KindRef
	KindList
	KindTyped
)

// Value is a single STEP attribute value. Only the fields matching Kind are set.
//
// References hold the instance number of the target inside the owning model, so a
// Value must never be compared across two models without translating Ref first.
type Value struct {
	Kind ValueKind

	Str   string  // string, enum, binary, typed-value type name
	Int   int64   // integer
	Real  float64 // real
	Raw   string  // original lexeme of a real, kept for exact round trips
	Ref   uint64  // entity reference
	Items []Value // list items, or the single wrapped value of a typed value
}

var Null = Value{Kind: KindNull}

func String(s string) Value   { return Value{Kind: KindString, Str: s} }
func Integer(i int64) Value   { return Value{Kind: KindInteger, Int: i} }
func Real(f float64) Value    { return Value{Kind: KindReal, Real: f} }
func Enum(s string) Value     { return Value{Kind: KindEnum, Str: strings.ToUpper(s)} }
func Ref(id uint64) Value     { return Value{Kind: KindRef, Ref: id} }
func List(vs ...Value) Value  { return Value{Kind: KindList, Items: vs} }
func Derived() Value          { return Value{Kind: KindDerived} }
func Binary(hex string) Value { return Value{Kind: KindBinary, Str: hex} }

// Typed wraps v in a defined-type constructor such as IFCLABEL('x').
func Typed(typeName string, v Value) Value {
	return Value{Kind: KindTyped, Str: strings.ToUpper(typeName), Items: []Value{v}}
}

// RefList builds a list of references.
func RefList(ids ...uint64) Value {
	items := make([]Value, len(ids))
	for i, id := range ids {
		items[i] = Ref(id)
	}
	return List(items...)
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsString returns the text of a string value, unwrapping typed values like IFCLABEL.
func (v Value) AsString() (string, bool) {
	switch v.Kind {
	case KindString:
		return v.Str, true
	case KindTyped:
		if len(v.Items) == 1 {
			return v.Items[0].AsString()
		}
	}
	return "", false
}

// AsRef returns the referenced instance number.
func (v Value) AsRef() (uint64, bool) {
	if v.Kind == KindRef {
		return v.Ref, true
	}
	return 0, false
}

// Refs returns every reference contained in v, walking nested lists and typed values.
func (v Value) Refs() []uint64 {
	var out []uint64
	v.walkRefs(func(id uint64) { out = append(out, id) })
	return out
}

func (v Value) walkRefs(fn func(uint64)) {
	switch v.Kind {
	case KindRef:
		fn(v.Ref)
	case KindList, KindTyped:
		for _, item := range v.Items {
			item.walkRefs(fn)
		}
	}
}

// HasRef reports whether v refers to id anywhere inside it.
func (v Value) HasRef(id uint64) bool {
	found := false
	v.walkRefs(func(r uint64) {
		if r == id {
			found = true
		}
	})
	return found
}

// MapRefs returns a copy of v with every reference replaced by fn(ref).
func (v Value) MapRefs(fn func(uint64) uint64) Value {
	switch v.Kind {
	case KindRef:
		return Ref(fn(v.Ref))
	case KindList, KindTyped:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.MapRefs(fn)
		}
		out := v
		out.Items = items
		return out
	}
	return v
}

// String renders the value in STEP physical file syntax.
func (v Value) String() string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Kind {
	case KindNull:
		b.WriteByte('$')
	case KindDerived:
		b.WriteByte('*')
	case KindString:
		b.WriteString(encodeString(v.Str))
	case KindInteger:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case KindReal:
		if v.Raw != "" {
			b.WriteString(v.Raw)
		} else {
			b.WriteString(formatReal(v.Real))
		}
	case KindEnum:
		b.WriteByte('.')
		b.WriteString(v.Str)
		b.WriteByte('.')
	case KindBinary:
		b.WriteByte('"')
		b.WriteString(v.Str)
		b.WriteByte('"')
	case KindRef:
		b.WriteByte('#')
		b.WriteString(strconv.FormatUint(v.Ref, 10))
	case KindList:
		b.WriteByte('(')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, item)
		}
		b.WriteByte(')')
	case KindTyped:
		b.WriteString(v.Str)
		b.WriteByte('(')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, item)
		}
		b.WriteByte(')')
	}
}

// formatReal renders f so that it always carries a decimal point, as STEP requires.
func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if strings.ContainsAny(s, ".") {
		return s
	}
	if i := strings.IndexByte(s, 'E'); i >= 0 {
		return s[:i] + "." + s[i:]
	}
	return s + "."
}

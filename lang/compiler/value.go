package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the variant a Value holds.
type ValueKind byte

const (
	KindInt ValueKind = iota
	KindFloat
	KindString
	KindBool
	KindChar
	KindNull
	KindArray
	KindStruct
	KindFunction
)

// Value is the single runtime representation shared by the constant pool
// and the VM's operand stack: Int | Float | String | Bool | Char | Null |
// Array | Struct | Function. Arrays and structs are value types: two copies
// of a Value may share the underlying slice/field storage, but an in-place
// change (ArraySet, FieldSet) is made on a Clone, so it is never visible
// through another Value; the compiler stores the mutated collection back to
// its source variable.
type Value struct {
	Kind ValueKind

	Int    int64
	Float  float64
	Str    string // also backs Char, which is a single-rune string
	Bool   bool
	Elems  []Value // Array
	SName  string  // Struct name
	FNames []string // Struct field names, parallel to Fields
	Fields []Value  // Struct field values, matching the declaration order
	Fn     *Function
}

func Int(v int64) Value     { return Value{Kind: KindInt, Int: v} }
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func String(v string) Value { return Value{Kind: KindString, Str: v} }
func Bool(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func Char(v string) Value   { return Value{Kind: KindChar, Str: v} }
func Null() Value           { return Value{Kind: KindNull} }
func Array(elems []Value) Value {
	return Value{Kind: KindArray, Elems: elems}
}
func Struct(name string, fieldNames []string, fields []Value) Value {
	return Value{Kind: KindStruct, SName: name, FNames: fieldNames, Fields: fields}
}
func FnValue(fn *Function) Value { return Value{Kind: KindFunction, Fn: fn} }

// Clone returns a deep copy of v, used whenever a collection Value is about
// to be mutated in place (ArraySet, FieldSet) so the original, still
// referenced elsewhere on the stack or in a variable slot, is untouched.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindArray:
		elems := make([]Value, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = e.Clone()
		}
		return Value{Kind: KindArray, Elems: elems}
	case KindStruct:
		fields := make([]Value, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = f.Clone()
		}
		return Value{Kind: KindStruct, SName: v.SName, FNames: v.FNames, Fields: fields}
	default:
		return v
	}
}

// Truthy implements the language's truthiness rule: false, null, 0, 0.0, and
// the empty array are falsy; everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNull:
		return false
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindArray:
		return len(v.Elems) > 0
	default:
		return true
	}
}

// Equal implements deep value equality for Eq/Ne.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		if v.IsNumeric() && o.IsNumeric() {
			return v.asFloat() == o.asFloat()
		}
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindString, KindChar:
		return v.Str == o.Str
	case KindBool:
		return v.Bool == o.Bool
	case KindNull:
		return true
	case KindArray:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if v.SName != o.SName || len(v.Fields) != len(o.Fields) {
			return false
		}
		for i := range v.Fields {
			if !v.Fields[i].Equal(o.Fields[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		return v.Fn == o.Fn
	}
	return false
}

func (v Value) IsNumeric() bool { return v.Kind == KindInt || v.Kind == KindFloat }

func (v Value) asFloat() float64 {
	if v.Kind == KindFloat {
		return v.Float
	}
	return float64(v.Int)
}

// Display renders v the way Print writes it to stdout.
func (v Value) Display() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString, KindChar:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNull:
		return "null"
	case KindArray:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.Display()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindStruct:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			name := v.fieldName(i)
			parts[i] = fmt.Sprintf("%s: %s", name, f.Display())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunction:
		return "<function>"
	}
	return "<invalid>"
}

// fieldName returns the declared name of field i, or a positional
// placeholder if FNames wasn't populated (e.g. a Value built by hand in a
// test).
func (v Value) fieldName(i int) string {
	if i < len(v.FNames) {
		return v.FNames[i]
	}
	return fmt.Sprintf("f%d", i)
}

// Package types implements the static type algebra: the Type tagged union,
// its structural compatibility relation, and display formatting. It has no
// knowledge of the AST or the runtime Value representation — those consume
// this package's Type from the checker and compiler/vm packages
// respectively.
package types

import "strings"

// Kind identifies which variant of Type a value represents.
type Kind int

const (
	Int Kind = iota
	Float
	String
	Bool
	Char
	Void
	Null
	Unknown
	Array
	Function
	Struct
	Named
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Void:
		return "void"
	case Null:
		return "null"
	case Unknown:
		return "unknown"
	case Array:
		return "array"
	case Function:
		return "function"
	case Struct:
		return "struct"
	case Named:
		return "named"
	}
	return "invalid"
}

// StructField is a single named, typed field of a Struct type.
type StructField struct {
	Name string
	Type Type
}

// Type is the tagged union of every static type in the language:
// Int | Float | String | Bool | Char | Void | Null | Unknown | Array(Type) |
// Function({params, return}) | Struct({name, fields}) | Named(string).
type Type struct {
	Kind Kind

	Elem   *Type  // Array element type
	Params []Type // Function parameter types
	Return *Type  // Function return type

	Name   string        // Struct or Named type name
	Fields []StructField // Struct field list, in declaration order
}

// Scalar constructors for the primitive kinds.
var (
	IntType     = Type{Kind: Int}
	FloatType   = Type{Kind: Float}
	StringType  = Type{Kind: String}
	BoolType    = Type{Kind: Bool}
	CharType    = Type{Kind: Char}
	VoidType    = Type{Kind: Void}
	NullType    = Type{Kind: Null}
	UnknownType = Type{Kind: Unknown}
)

// NewArray returns the type Array(elem).
func NewArray(elem Type) Type { return Type{Kind: Array, Elem: &elem} }

// NewFunction returns the type Function({params, return}).
func NewFunction(params []Type, ret Type) Type {
	return Type{Kind: Function, Params: params, Return: &ret}
}

// NewStruct returns the type Struct({name, fields}).
func NewStruct(name string, fields []StructField) Type {
	return Type{Kind: Struct, Name: name, Fields: fields}
}

// NewNamed returns the unresolved forward reference Named(name).
func NewNamed(name string) Type { return Type{Kind: Named, Name: name} }

// IsNumeric reports whether t is Int or Float.
func (t Type) IsNumeric() bool { return t.Kind == Int || t.Kind == Float }

// FieldByName returns the field named name and true, or the zero value and
// false if t is not a Struct or has no such field.
func (t Type) FieldByName(name string) (StructField, bool) {
	if t.Kind != Struct {
		return StructField{}, false
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// Compatible implements the ≈ relation from the type-checking rules:
// reflexive; Unknown is compatible with anything; both-numeric is
// compatible; Array(a)≈Array(b) iff a≈b; Function types are compatible if
// their parameter and return types are pairwise compatible; Struct and
// Named types are compatible only by identical name; otherwise types must
// be structurally equal.
func Compatible(a, b Type) bool {
	if a.Kind == Unknown || b.Kind == Unknown {
		return true
	}
	if a.IsNumeric() && b.IsNumeric() {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Array:
		return Compatible(*a.Elem, *b.Elem)
	case Function:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Compatible(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Compatible(*a.Return, *b.Return)
	case Struct, Named:
		return a.Name == b.Name
	default:
		return true
	}
}

// String renders t in the same syntax used for type annotations in source.
func (t Type) String() string {
	switch t.Kind {
	case Array:
		return "[" + t.Elem.String() + "]"
	case Function:
		var ps []string
		for _, p := range t.Params {
			ps = append(ps, p.String())
		}
		return "fn(" + strings.Join(ps, ", ") + ") -> " + t.Return.String()
	case Struct, Named:
		return t.Name
	default:
		return t.Kind.String()
	}
}

// Package checker implements the static type checker: a single walk over the
// AST that resolves named types, maintains a scoped symbol table, and
// rejects programs whose expressions or declarations are not type-safe. It
// never mutates the AST; callers that need resolved types get them from
// CheckWithTypes, which the compiler and the interpreter use.
package checker

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
	"github.com/mna/zero/lang/types"
)

// ErrorKind identifies the class of a checking failure.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota
	UndefinedVariable
	UndefinedFunction
	ArgumentCountMismatch
	ArgumentTypeMismatch
	ReturnTypeMismatch
	CannotInferType
	InvalidOperation
	ImmutableAssignment
	BreakOutsideLoop
	ContinueOutsideLoop
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case UndefinedVariable:
		return "UndefinedVariable"
	case UndefinedFunction:
		return "UndefinedFunction"
	case ArgumentCountMismatch:
		return "ArgumentCountMismatch"
	case ArgumentTypeMismatch:
		return "ArgumentTypeMismatch"
	case ReturnTypeMismatch:
		return "ReturnTypeMismatch"
	case CannotInferType:
		return "CannotInferType"
	case InvalidOperation:
		return "InvalidOperation"
	case ImmutableAssignment:
		return "ImmutableAssignment"
	case BreakOutsideLoop:
		return "BreakOutsideLoop"
	case ContinueOutsideLoop:
		return "ContinueOutsideLoop"
	}
	return "Unknown"
}

// Error is a single type-checking failure, carrying its source position.
type Error struct {
	Kind ErrorKind
	Pos  token.Pos
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

// symbol is a named binding in scope: its resolved type and whether it may
// be reassigned.
type symbol struct {
	typ     types.Type
	mutable bool
}

// methodSig is a registered impl-block method, keyed by (type name, method
// name); Fn is the method's type excluding the implicit "self" parameter.
type methodSig struct {
	Fn types.Type
}

// Checker walks a Chunk once, validating every declaration and expression.
type Checker struct {
	scopes []map[string]symbol

	// named is the registry of named types: struct declarations and type
	// aliases, resolved when predeclare registers them (for the chunk and for
	// each nested block).
	named *swiss.Map[string, types.Type]

	// methods maps "TypeName.method" to its signature.
	methods *swiss.Map[string, methodSig]

	// currentReturn is the declared return type of the function being
	// checked, nil outside any function body.
	currentReturn *types.Type

	loopDepth int

	errs []*Error

	// exprTypes, when non-nil, records the resolved type of every expression
	// checked, keyed by node identity. Populated only by CheckWithTypes.
	exprTypes map[ast.Expr]types.Type
}

// New returns a Checker ready to check a single Chunk.
func New() *Checker {
	return &Checker{
		scopes:  []map[string]symbol{{}},
		named:   swiss.NewMap[string, types.Type](16),
		methods: swiss.NewMap[string, methodSig](16),
	}
}

// Check validates chunk, returning every error found (in source order) or
// nil if the program is well-typed.
func Check(chunk *ast.Chunk) []*Error {
	c := New()
	c.predeclare(chunk.Block.Stmts)
	for _, s := range chunk.Block.Stmts {
		c.checkStmt(s)
	}
	return c.errs
}

// Info carries the resolved type of every expression and every declared
// struct in a checked program, for use by the compiler.
type Info struct {
	Types   map[ast.Expr]types.Type
	Structs map[string]types.Type
}

// CheckWithTypes is like Check but also returns an Info recording every
// expression's resolved type and the fully-resolved struct registry. The
// compiler uses this to look up struct field order and indices without
// redoing type resolution.
func CheckWithTypes(chunk *ast.Chunk) (*Info, []*Error) {
	c := New()
	c.exprTypes = make(map[ast.Expr]types.Type)
	c.predeclare(chunk.Block.Stmts)
	for _, s := range chunk.Block.Stmts {
		c.checkStmt(s)
	}
	structs := make(map[string]types.Type)
	c.named.Iter(func(name string, t types.Type) (stop bool) {
		if t.Kind == types.Struct {
			structs[name] = t
		}
		return false
	})
	return &Info{Types: c.exprTypes, Structs: structs}, c.errs
}

func (c *Checker) errorf(pos token.Pos, kind ErrorKind, format string, args ...any) {
	c.errs = append(c.errs, &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (c *Checker) pushScope() { c.scopes = append(c.scopes, map[string]symbol{}) }
func (c *Checker) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *Checker) declare(name string, typ types.Type, mutable bool) {
	c.scopes[len(c.scopes)-1][name] = symbol{typ: typ, mutable: mutable}
}

func (c *Checker) lookup(name string) (symbol, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if s, ok := c.scopes[i][name]; ok {
			return s, true
		}
	}
	return symbol{}, false
}

// predeclare registers every top-level struct, alias, function and impl
// block before checking bodies, so that forward references (mutual
// recursion, a function calling one declared later) resolve.
func (c *Checker) predeclare(stmts []ast.Stmt) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.StructDeclStmt:
			c.named.Put(n.Name, c.structType(n))
		case *ast.TypeAliasStmt:
			c.named.Put(n.Name, c.resolveTypeExpr(n.Target))
		}
	}
	for _, s := range stmts {
		if n, ok := s.(*ast.FnDeclStmt); ok {
			c.declare(n.Name, c.fnType(n), false)
		}
	}
	for _, s := range stmts {
		if n, ok := s.(*ast.ImplBlockStmt); ok {
			for _, m := range n.Methods {
				key := n.TypeName + "." + m.Name
				sig := c.fnType(m)
				if len(m.Params) > 0 && m.Params[0].Name == "self" {
					sig.Params = sig.Params[1:]
				}
				c.methods.Put(key, methodSig{Fn: sig})
			}
		}
	}
}

func (c *Checker) structType(n *ast.StructDeclStmt) types.Type {
	fields := make([]types.StructField, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = types.StructField{Name: f.Name, Type: c.resolveTypeExpr(f.Type)}
	}
	return types.NewStruct(n.Name, fields)
}

func (c *Checker) fnType(n *ast.FnDeclStmt) types.Type {
	params := make([]types.Type, len(n.Params))
	for i, p := range n.Params {
		if p.Type != nil {
			params[i] = c.resolveTypeExpr(p.Type)
		} else {
			params[i] = types.UnknownType
		}
	}
	ret := types.VoidType
	if n.Return != nil {
		ret = c.resolveTypeExpr(n.Return)
	}
	return types.NewFunction(params, ret)
}

// resolveTypeExpr converts a syntactic TypeExpr into a semantic types.Type,
// following Named references against the struct/alias registry. It does not
// detect cycles beyond a fixed depth (resolveNamed below).
func (c *Checker) resolveTypeExpr(te ast.TypeExpr) types.Type {
	switch n := te.(type) {
	case *ast.NamedTypeExpr:
		if t, ok := primitiveType(n.Name); ok {
			return t
		}
		return c.resolveNamed(n.Name, n.Start, 0)
	case *ast.ArrayTypeExpr:
		return types.NewArray(c.resolveTypeExpr(n.Elem))
	case *ast.StructTypeExpr:
		fields := make([]types.StructField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = types.StructField{Name: f.Name, Type: c.resolveTypeExpr(f.Type)}
		}
		return types.NewStruct("", fields)
	}
	return types.UnknownType
}

func primitiveType(name string) (types.Type, bool) {
	switch name {
	case "int", "int64":
		return types.IntType, true
	case "float":
		return types.FloatType, true
	case "string":
		return types.StringType, true
	case "bool":
		return types.BoolType, true
	case "void":
		return types.VoidType, true
	case "null":
		return types.NullType, true
	}
	return types.Type{}, false
}

// maxNamedDepth bounds resolution chains against self-referential aliases
// such as `type A = A;`.
const maxNamedDepth = 64

func (c *Checker) resolveNamed(name string, pos token.Pos, depth int) types.Type {
	if depth > maxNamedDepth {
		c.errorf(pos, CannotInferType, "type %q cannot be resolved: cyclic alias chain", name)
		return types.UnknownType
	}
	t, ok := c.named.Get(name)
	if !ok {
		c.errorf(pos, CannotInferType, "undefined type %q", name)
		return types.NewNamed(name)
	}
	if t.Kind == types.Named {
		return c.resolveNamed(t.Name, pos, depth+1)
	}
	return t
}

package interp

import (
	"fmt"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/token"
	"github.com/mna/zero/lang/vm"
)

func (ip *Interp) evalExpr(x ast.Expr, e *env) (compiler.Value, error) {
	switch n := x.(type) {
	case *ast.IntegerExpr:
		return compiler.Int(n.Value), nil
	case *ast.FloatExpr:
		return compiler.Float(n.Value), nil
	case *ast.StringExpr:
		return compiler.String(n.Value), nil
	case *ast.CharExpr:
		return compiler.Char(n.Value), nil
	case *ast.BooleanExpr:
		return compiler.Bool(n.Value), nil

	case *ast.IdentifierExpr:
		if v, ok := e.lookup(n.Name); ok {
			return v, nil
		}
		if _, ok := ip.funcs[n.Name]; ok {
			return compiler.Null(), &Error{Kind: vm.InvalidOperation, Line: lineOf(n.Start),
				Msg: fmt.Sprintf("%q names a function; the legacy interpreter only supports calling it, not using it as a value", n.Name)}
		}
		return compiler.Null(), &Error{Kind: vm.UndefinedVariable, Line: lineOf(n.Start),
			Msg: fmt.Sprintf("undefined variable %q", n.Name)}

	case *ast.ArrayExpr:
		elems := make([]compiler.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := ip.evalExpr(el, e)
			if err != nil {
				return compiler.Value{}, err
			}
			elems[i] = v
		}
		return compiler.Array(elems), nil

	case *ast.BinaryExpr:
		return ip.evalBinary(n, e)

	case *ast.UnaryExpr:
		return ip.evalUnary(n, e)

	case *ast.CallExpr:
		return ip.evalCall(n, e)

	case *ast.MethodCallExpr:
		return ip.evalMethodCall(n, e)

	case *ast.IndexExpr:
		obj, err := ip.evalExpr(n.Obj, e)
		if err != nil {
			return compiler.Value{}, err
		}
		idx, err := ip.evalExpr(n.Index, e)
		if err != nil {
			return compiler.Value{}, err
		}
		return ip.arrayIndex(obj, idx, n.Lbrack)

	case *ast.IndexAssignExpr:
		return ip.evalIndexAssign(n, e)

	case *ast.AssignExpr:
		v, err := ip.evalExpr(n.Value, e)
		if err != nil {
			return compiler.Value{}, err
		}
		e.assign(n.Name, v)
		return v, nil

	case *ast.FieldAccessExpr:
		obj, err := ip.evalExpr(n.Obj, e)
		if err != nil {
			return compiler.Value{}, err
		}
		return ip.fieldGet(obj, n.Field, n.Dot)

	case *ast.FieldAssignExpr:
		return ip.evalFieldAssign(n, e)

	case *ast.StructLiteralExpr:
		return ip.evalStructLiteral(n, e)
	}
	return compiler.Value{}, &Error{Kind: vm.InvalidOperation, Msg: fmt.Sprintf("unhandled expression %T", x)}
}

func asFloat(v compiler.Value) float64 {
	if v.Kind == compiler.KindFloat {
		return v.Float
	}
	return float64(v.Int)
}

func (ip *Interp) evalBinary(n *ast.BinaryExpr, e *env) (compiler.Value, error) {
	if n.Op == ast.And || n.Op == ast.Or {
		l, err := ip.evalExpr(n.Left, e)
		if err != nil {
			return compiler.Value{}, err
		}
		if n.Op == ast.And && !l.Truthy() {
			return l, nil
		}
		if n.Op == ast.Or && l.Truthy() {
			return l, nil
		}
		return ip.evalExpr(n.Right, e)
	}

	l, err := ip.evalExpr(n.Left, e)
	if err != nil {
		return compiler.Value{}, err
	}
	r, err := ip.evalExpr(n.Right, e)
	if err != nil {
		return compiler.Value{}, err
	}
	line := lineOf(n.OpPos)

	switch n.Op {
	case ast.Add:
		if l.Kind == compiler.KindString && r.Kind == compiler.KindString {
			return compiler.String(l.Str + r.Str), nil
		}
		return ip.arith(l, r, line, "Add", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case ast.Sub:
		return ip.arith(l, r, line, "Sub", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case ast.Mul:
		return ip.arith(l, r, line, "Mul", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case ast.Div:
		return ip.div(l, r, line)
	case ast.Mod:
		return ip.mod(l, r, line)
	case ast.Eq:
		return compiler.Bool(l.Equal(r)), nil
	case ast.Ne:
		return compiler.Bool(!l.Equal(r)), nil
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return ip.compare(n.Op, l, r, line)
	}
	return compiler.Value{}, &Error{Kind: vm.InvalidOperation, Line: line, Msg: "unimplemented binary operator"}
}

func (ip *Interp) arith(l, r compiler.Value, line uint32, op string, iop func(int64, int64) int64, fop func(float64, float64) float64) (compiler.Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: fmt.Sprintf("%s requires two numbers", op)}
	}
	if l.Kind == compiler.KindFloat || r.Kind == compiler.KindFloat {
		return compiler.Float(fop(asFloat(l), asFloat(r))), nil
	}
	return compiler.Int(iop(l.Int, r.Int)), nil
}

func (ip *Interp) div(l, r compiler.Value, line uint32) (compiler.Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "Div requires two numbers"}
	}
	if l.Kind == compiler.KindFloat || r.Kind == compiler.KindFloat {
		rf := asFloat(r)
		if rf == 0 {
			return compiler.Value{}, &Error{Kind: vm.DivisionByZero, Line: line, Msg: "division by zero"}
		}
		return compiler.Float(asFloat(l) / rf), nil
	}
	if r.Int == 0 {
		return compiler.Value{}, &Error{Kind: vm.DivisionByZero, Line: line, Msg: "division by zero"}
	}
	return compiler.Int(l.Int / r.Int), nil
}

func (ip *Interp) mod(l, r compiler.Value, line uint32) (compiler.Value, error) {
	if l.Kind != compiler.KindInt || r.Kind != compiler.KindInt {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "Mod requires two integers"}
	}
	if r.Int == 0 {
		return compiler.Value{}, &Error{Kind: vm.DivisionByZero, Line: line, Msg: "modulo by zero"}
	}
	return compiler.Int(l.Int % r.Int), nil
}

func (ip *Interp) compare(op ast.BinaryOp, l, r compiler.Value, line uint32) (compiler.Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "comparison requires two numbers"}
	}
	lf, rf := asFloat(l), asFloat(r)
	var res bool
	switch op {
	case ast.Lt:
		res = lf < rf
	case ast.Le:
		res = lf <= rf
	case ast.Gt:
		res = lf > rf
	case ast.Ge:
		res = lf >= rf
	}
	return compiler.Bool(res), nil
}

func (ip *Interp) evalUnary(n *ast.UnaryExpr, e *env) (compiler.Value, error) {
	v, err := ip.evalExpr(n.Right, e)
	if err != nil {
		return compiler.Value{}, err
	}
	line := lineOf(n.OpPos)
	switch n.Op {
	case ast.Not:
		return compiler.Bool(!v.Truthy()), nil
	case ast.Negate:
		switch v.Kind {
		case compiler.KindInt:
			return compiler.Int(-v.Int), nil
		case compiler.KindFloat:
			return compiler.Float(-v.Float), nil
		}
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "Negate requires a number"}
	}
	return compiler.Value{}, &Error{Kind: vm.InvalidOperation, Line: line, Msg: "unimplemented unary operator"}
}

// arrayIndex reads obj[idx], normalizing a negative idx from the end of the
// array the way lang/vm's arrayGet does.
func (ip *Interp) arrayIndex(obj, idx compiler.Value, pos token.Pos) (compiler.Value, error) {
	line := lineOf(pos)
	if obj.Kind != compiler.KindArray {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "index operator requires an array"}
	}
	if idx.Kind != compiler.KindInt {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "array index must be an integer"}
	}
	i := idx.Int
	if i < 0 {
		i += int64(len(obj.Elems))
	}
	if i < 0 || i >= int64(len(obj.Elems)) {
		return compiler.Value{}, &Error{Kind: vm.InvalidOperation, Line: line, Msg: "index out of bounds"}
	}
	return obj.Elems[i], nil
}

func (ip *Interp) evalIndexAssign(n *ast.IndexAssignExpr, e *env) (compiler.Value, error) {
	obj, err := ip.evalExpr(n.Obj, e)
	if err != nil {
		return compiler.Value{}, err
	}
	idx, err := ip.evalExpr(n.Index, e)
	if err != nil {
		return compiler.Value{}, err
	}
	val, err := ip.evalExpr(n.Value, e)
	if err != nil {
		return compiler.Value{}, err
	}
	line := lineOf(n.Assign)
	if obj.Kind != compiler.KindArray {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "index operator requires an array"}
	}
	if idx.Kind != compiler.KindInt {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "array index must be an integer"}
	}
	i := idx.Int
	if i < 0 {
		i += int64(len(obj.Elems))
	}
	if i < 0 || i >= int64(len(obj.Elems)) {
		return compiler.Value{}, &Error{Kind: vm.InvalidOperation, Line: line, Msg: "index out of bounds"}
	}

	updated := obj.Clone()
	updated.Elems[i] = val

	// Only a plain identifier receiver is addressable; a computed or
	// nested receiver's mutation is visible solely in updated's result,
	// matching the compiler's OpArraySet/OpFieldSet write-back rule.
	if id, ok := n.Obj.(*ast.IdentifierExpr); ok {
		e.assign(id.Name, updated)
	}
	return updated, nil
}

// fieldGet reads obj.field, resolving the field's declaration-order index
// from the interpreter's struct registry by obj's own runtime type name
// (obj.SName), not a statically recorded expression type: of the checker's
// results the interpreter keeps only the struct registry.
func (ip *Interp) fieldGet(obj compiler.Value, field string, dot token.Pos) (compiler.Value, error) {
	line := lineOf(dot)
	if obj.Kind != compiler.KindStruct {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "field access requires a struct"}
	}
	idx := ip.fieldIndex(obj.SName, field)
	if idx < 0 || idx >= len(obj.Fields) {
		return compiler.Value{}, &Error{Kind: vm.InvalidOperation, Line: line, Msg: "undefined field"}
	}
	return obj.Fields[idx], nil
}

// fieldIndex resolves field's declaration-order index in the named
// struct's registered type.
func (ip *Interp) fieldIndex(structName, field string) int {
	typ, ok := ip.structs[structName]
	if !ok {
		return -1
	}
	for i, f := range typ.Fields {
		if f.Name == field {
			return i
		}
	}
	return -1
}

func (ip *Interp) evalFieldAssign(n *ast.FieldAssignExpr, e *env) (compiler.Value, error) {
	obj, err := ip.evalExpr(n.Obj, e)
	if err != nil {
		return compiler.Value{}, err
	}
	val, err := ip.evalExpr(n.Value, e)
	if err != nil {
		return compiler.Value{}, err
	}
	line := lineOf(n.Assign)
	if obj.Kind != compiler.KindStruct {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: line, Msg: "field access requires a struct"}
	}
	idx := ip.fieldIndex(obj.SName, n.Field)
	if idx < 0 || idx >= len(obj.Fields) {
		return compiler.Value{}, &Error{Kind: vm.InvalidOperation, Line: line, Msg: "undefined field"}
	}

	updated := obj.Clone()
	updated.Fields[idx] = val
	if id, ok := n.Obj.(*ast.IdentifierExpr); ok {
		e.assign(id.Name, updated)
	}
	return updated, nil
}

// evalStructLiteral builds a struct value with its fields ordered to match
// the type's declaration order, independent of the order the literal wrote
// them in, so Value.Display and field indexing stay consistent with
// fieldIndex's lookups.
func (ip *Interp) evalStructLiteral(n *ast.StructLiteralExpr, e *env) (compiler.Value, error) {
	typ, ok := ip.structs[n.Name]
	if !ok {
		return compiler.Value{}, &Error{Kind: vm.InvalidOperation, Line: lineOf(n.NamePos), Msg: fmt.Sprintf("undefined struct type %q", n.Name)}
	}
	names := make([]string, len(typ.Fields))
	values := make([]compiler.Value, len(typ.Fields))
	for i, f := range typ.Fields {
		names[i] = f.Name
		for _, lit := range n.Fields {
			if lit.Name == f.Name {
				v, err := ip.evalExpr(lit.Value, e)
				if err != nil {
					return compiler.Value{}, err
				}
				values[i] = v
			}
		}
	}
	return compiler.Struct(n.Name, names, values), nil
}

package checker

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
	"github.com/mna/zero/lang/types"
)

// checkExpr type-checks e and returns its static type. On error it records
// the failure and returns types.UnknownType so checking can continue. The
// resolved type is also recorded in c.exprTypes, keyed by node identity, so
// a caller that wants per-expression types (the compiler, to resolve
// struct field indices) doesn't need to re-derive them.
func (c *Checker) checkExpr(e ast.Expr) types.Type {
	t := c.checkExprKind(e)
	if c.exprTypes != nil {
		c.exprTypes[e] = t
	}
	return t
}

func (c *Checker) checkExprKind(e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.IntegerExpr:
		return types.IntType
	case *ast.FloatExpr:
		return types.FloatType
	case *ast.StringExpr:
		return types.StringType
	case *ast.CharExpr:
		return types.CharType
	case *ast.BooleanExpr:
		return types.BoolType
	case *ast.IdentifierExpr:
		return c.checkIdentifier(n)
	case *ast.ArrayExpr:
		return c.checkArray(n)
	case *ast.BinaryExpr:
		return c.checkBinary(n)
	case *ast.UnaryExpr:
		return c.checkUnary(n)
	case *ast.CallExpr:
		return c.checkCall(n)
	case *ast.MethodCallExpr:
		return c.checkMethodCall(n)
	case *ast.IndexExpr:
		return c.checkIndex(n)
	case *ast.IndexAssignExpr:
		return c.checkIndexAssign(n)
	case *ast.AssignExpr:
		return c.checkAssign(n)
	case *ast.FieldAccessExpr:
		return c.checkFieldAccess(n)
	case *ast.FieldAssignExpr:
		return c.checkFieldAssign(n)
	case *ast.StructLiteralExpr:
		return c.checkStructLiteral(n)
	}
	return types.UnknownType
}

func (c *Checker) checkIdentifier(n *ast.IdentifierExpr) types.Type {
	sym, ok := c.lookup(n.Name)
	if !ok {
		c.errorf(n.Start, UndefinedVariable, "undefined variable %q", n.Name)
		return types.UnknownType
	}
	return sym.typ
}

// sameType is the element-equality rule used for array literals: stricter
// than Compatible, since [1, 2.0] mixes Int and Float element types.
func sameType(a, b types.Type) bool {
	if a.Kind == types.Unknown || b.Kind == types.Unknown {
		return true
	}
	return a.Kind == b.Kind && types.Compatible(a, b)
}

func (c *Checker) checkArray(n *ast.ArrayExpr) types.Type {
	if len(n.Elems) == 0 {
		return types.NewArray(types.UnknownType)
	}
	elemType := c.checkExpr(n.Elems[0])
	for _, el := range n.Elems[1:] {
		t := c.checkExpr(el)
		if elemType.Kind == types.Unknown {
			elemType = t
			continue
		}
		if !sameType(elemType, t) {
			c.errorf(n.Lbrack, InvalidOperation, "array elements must have the same type, got %s and %s", elemType, t)
		}
	}
	return types.NewArray(elemType)
}

func isNumericOrUnknown(t types.Type) bool { return t.IsNumeric() || t.Kind == types.Unknown }

func (c *Checker) checkBinary(n *ast.BinaryExpr) types.Type {
	left := c.checkExpr(n.Left)
	right := c.checkExpr(n.Right)

	switch n.Op {
	case ast.Add:
		if left.Kind == types.String && right.Kind == types.String {
			return types.StringType
		}
		return c.checkArithmetic(n, left, right)
	case ast.Sub, ast.Mul, ast.Div:
		return c.checkArithmetic(n, left, right)
	case ast.Mod:
		if !isIntOrUnknown(left) || !isIntOrUnknown(right) {
			c.errorf(n.OpPos, InvalidOperation, "%% requires int operands, got %s and %s", left, right)
			return types.UnknownType
		}
		return types.IntType
	case ast.Eq, ast.Ne:
		if !types.Compatible(left, right) {
			c.errorf(n.OpPos, TypeMismatch, "cannot compare %s and %s", left, right)
		}
		return types.BoolType
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if !isNumericOrUnknown(left) || !isNumericOrUnknown(right) {
			c.errorf(n.OpPos, InvalidOperation, "comparison requires numeric operands, got %s and %s", left, right)
		}
		return types.BoolType
	case ast.And, ast.Or:
		if !isBoolOrUnknown(left) || !isBoolOrUnknown(right) {
			c.errorf(n.OpPos, InvalidOperation, "logical operator requires bool operands, got %s and %s", left, right)
		}
		return types.BoolType
	}
	return types.UnknownType
}

func isIntOrUnknown(t types.Type) bool  { return t.Kind == types.Int || t.Kind == types.Unknown }
func isBoolOrUnknown(t types.Type) bool { return t.Kind == types.Bool || t.Kind == types.Unknown }

func (c *Checker) checkArithmetic(n *ast.BinaryExpr, left, right types.Type) types.Type {
	if !isNumericOrUnknown(left) || !isNumericOrUnknown(right) {
		c.errorf(n.OpPos, InvalidOperation, "arithmetic requires numeric operands, got %s and %s", left, right)
		return types.UnknownType
	}
	if left.Kind == types.Float || right.Kind == types.Float {
		return types.FloatType
	}
	if left.Kind == types.Unknown || right.Kind == types.Unknown {
		return types.UnknownType
	}
	return types.IntType
}

func (c *Checker) checkUnary(n *ast.UnaryExpr) types.Type {
	operand := c.checkExpr(n.Right)
	switch n.Op {
	case ast.Not:
		if !isBoolOrUnknown(operand) {
			c.errorf(n.OpPos, InvalidOperation, "! requires a bool operand, got %s", operand)
		}
		return types.BoolType
	case ast.Negate:
		if !isNumericOrUnknown(operand) {
			c.errorf(n.OpPos, InvalidOperation, "unary - requires a numeric operand, got %s", operand)
			return types.UnknownType
		}
		return operand
	}
	return types.UnknownType
}

func (c *Checker) checkCall(n *ast.CallExpr) types.Type {
	var fnType types.Type
	if ident, ok := n.Callee.(*ast.IdentifierExpr); ok {
		sym, ok := c.lookup(ident.Name)
		if !ok {
			c.errorf(ident.Start, UndefinedFunction, "undefined function %q", ident.Name)
			return types.UnknownType
		}
		fnType = sym.typ
	} else {
		fnType = c.checkExpr(n.Callee)
	}
	if fnType.Kind == types.Unknown {
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return types.UnknownType
	}
	if fnType.Kind != types.Function {
		c.errorf(n.Lparen, InvalidOperation, "cannot call a value of type %s", fnType)
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return types.UnknownType
	}
	c.checkCallSite(fnType, n.Args, n.Lparen)
	return *fnType.Return
}

func (c *Checker) checkCallSite(fnType types.Type, args []ast.Expr, pos token.Pos) {
	if len(args) != len(fnType.Params) {
		c.errorf(pos, ArgumentCountMismatch, "expected %d argument(s), got %d", len(fnType.Params), len(args))
	}
	n := len(args)
	if len(fnType.Params) < n {
		n = len(fnType.Params)
	}
	for i := 0; i < n; i++ {
		argType := c.checkExpr(args[i])
		if !types.Compatible(fnType.Params[i], argType) {
			c.errorf(pos, ArgumentTypeMismatch, "argument %d: expected %s, got %s", i+1, fnType.Params[i], argType)
		}
	}
	for i := n; i < len(args); i++ {
		c.checkExpr(args[i])
	}
}

func (c *Checker) checkMethodCall(n *ast.MethodCallExpr) types.Type {
	objType := c.checkExpr(n.Obj)
	typeName := objType.Name
	if typeName == "" || (objType.Kind != types.Struct && objType.Kind != types.Named) {
		c.errorf(n.Dot, InvalidOperation, "cannot call method %q on %s", n.Name, objType)
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return types.UnknownType
	}
	sig, ok := c.methods.Get(typeName + "." + n.Name)
	if !ok {
		c.errorf(n.NamePos, UndefinedFunction, "undefined method %s.%s", typeName, n.Name)
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return types.UnknownType
	}
	c.checkCallSite(sig.Fn, n.Args, n.Lparen)
	return *sig.Fn.Return
}

func (c *Checker) checkIndex(n *ast.IndexExpr) types.Type {
	objType := c.checkExpr(n.Obj)
	idxType := c.checkExpr(n.Index)
	if idxType.Kind != types.Int && idxType.Kind != types.Unknown {
		c.errorf(n.Lbrack, TypeMismatch, "array index must be int, got %s", idxType)
	}
	if objType.Kind == types.Unknown {
		return types.UnknownType
	}
	if objType.Kind != types.Array {
		c.errorf(n.Lbrack, InvalidOperation, "cannot index a value of type %s", objType)
		return types.UnknownType
	}
	return *objType.Elem
}

func (c *Checker) checkIndexAssign(n *ast.IndexAssignExpr) types.Type {
	objType := c.checkExpr(n.Obj)
	idxType := c.checkExpr(n.Index)
	valType := c.checkExpr(n.Value)
	if idxType.Kind != types.Int && idxType.Kind != types.Unknown {
		c.errorf(n.Lbrack, TypeMismatch, "array index must be int, got %s", idxType)
	}
	if objType.Kind == types.Unknown {
		return valType
	}
	if objType.Kind != types.Array {
		c.errorf(n.Lbrack, InvalidOperation, "cannot index-assign a value of type %s", objType)
		return valType
	}
	if !types.Compatible(*objType.Elem, valType) {
		c.errorf(n.Assign, TypeMismatch, "cannot assign %s to element of %s", valType, objType)
	}
	return *objType.Elem
}

func (c *Checker) checkAssign(n *ast.AssignExpr) types.Type {
	sym, ok := c.lookup(n.Name)
	if !ok {
		c.errorf(n.NamePos, UndefinedVariable, "undefined variable %q", n.Name)
		c.checkExpr(n.Value)
		return types.UnknownType
	}
	if !sym.mutable {
		c.errorf(n.NamePos, ImmutableAssignment, "cannot assign to immutable variable %q", n.Name)
	}
	valType := c.checkExpr(n.Value)
	if !types.Compatible(sym.typ, valType) {
		c.errorf(n.Assign, TypeMismatch, "cannot assign %s to variable %q of type %s", valType, n.Name, sym.typ)
	}
	return sym.typ
}

func (c *Checker) checkFieldAccess(n *ast.FieldAccessExpr) types.Type {
	objType := c.checkExpr(n.Obj)
	if objType.Kind == types.Unknown {
		return types.UnknownType
	}
	if objType.Kind != types.Struct {
		c.errorf(n.Dot, InvalidOperation, "cannot access field %q on %s", n.Field, objType)
		return types.UnknownType
	}
	f, ok := objType.FieldByName(n.Field)
	if !ok {
		c.errorf(n.FieldPos, InvalidOperation, "type %s has no field %q", objType, n.Field)
		return types.UnknownType
	}
	return f.Type
}

func (c *Checker) checkFieldAssign(n *ast.FieldAssignExpr) types.Type {
	objType := c.checkExpr(n.Obj)
	valType := c.checkExpr(n.Value)
	if objType.Kind == types.Unknown {
		return valType
	}
	if objType.Kind != types.Struct {
		c.errorf(n.Dot, InvalidOperation, "cannot assign field %q on %s", n.Field, objType)
		return valType
	}
	f, ok := objType.FieldByName(n.Field)
	if !ok {
		c.errorf(n.FieldPos, InvalidOperation, "type %s has no field %q", objType, n.Field)
		return valType
	}
	if !types.Compatible(f.Type, valType) {
		c.errorf(n.Assign, TypeMismatch, "cannot assign %s to field %q of type %s", valType, n.Field, f.Type)
	}
	return f.Type
}

func (c *Checker) checkStructLiteral(n *ast.StructLiteralExpr) types.Type {
	declared := c.resolveNamed(n.Name, n.NamePos, 0)
	if declared.Kind != types.Struct {
		c.errorf(n.NamePos, InvalidOperation, "%q is not a struct type", n.Name)
		for _, f := range n.Fields {
			c.checkExpr(f.Value)
		}
		return types.UnknownType
	}
	if len(n.Fields) != len(declared.Fields) {
		c.errorf(n.NamePos, ArgumentCountMismatch, "struct %s has %d field(s), literal has %d", n.Name, len(declared.Fields), len(n.Fields))
	}
	for _, lit := range n.Fields {
		valType := c.checkExpr(lit.Value)
		f, ok := declared.FieldByName(lit.Name)
		if !ok {
			c.errorf(lit.NamePos, InvalidOperation, "struct %s has no field %q", n.Name, lit.Name)
			continue
		}
		if !types.Compatible(f.Type, valType) {
			c.errorf(lit.Colon, TypeMismatch, "field %q: expected %s, got %s", lit.Name, f.Type, valType)
		}
	}
	return declared
}

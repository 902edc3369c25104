package compiler

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/types"
)

// compileExpr lowers e, leaving exactly one Value on the stack: the result
// of evaluating e. Store instructions (StoreLocal/StoreGlobal) peek rather
// than pop, so an assignment used as a sub-expression naturally yields the
// assigned value without any extra Dup.
func (c *compiler) compileExpr(e ast.Expr) {
	line := lineOf(e)
	switch n := e.(type) {
	case *ast.IntegerExpr:
		c.emit(line, OpLoadConst, c.chunk.AddConstant(Int(n.Value)))
	case *ast.FloatExpr:
		c.emit(line, OpLoadConst, c.chunk.AddConstant(Float(n.Value)))
	case *ast.StringExpr:
		c.emit(line, OpLoadConst, c.chunk.AddConstant(String(n.Value)))
	case *ast.CharExpr:
		c.emit(line, OpLoadConst, c.chunk.AddConstant(Char(n.Value)))
	case *ast.BooleanExpr:
		c.emit(line, OpLoadConst, c.chunk.AddConstant(Bool(n.Value)))
	case *ast.IdentifierExpr:
		c.compileLoad(n.Name, line)
	case *ast.ArrayExpr:
		c.compileArray(n, line)
	case *ast.BinaryExpr:
		c.compileBinary(n, line)
	case *ast.UnaryExpr:
		c.compileExpr(n.Right)
		switch n.Op {
		case ast.Not:
			c.emit(line, OpNot)
		case ast.Negate:
			c.emit(line, OpNegate)
		}
	case *ast.CallExpr:
		c.compileCall(n, line)
	case *ast.MethodCallExpr:
		c.compileMethodCall(n, line)
	case *ast.IndexExpr:
		c.compileExpr(n.Obj)
		c.compileExpr(n.Index)
		c.emit(line, OpArrayGet)
	case *ast.IndexAssignExpr:
		c.compileIndexAssign(n, line)
	case *ast.AssignExpr:
		c.compileExpr(n.Value)
		c.compileStore(n.Name, line)
	case *ast.FieldAccessExpr:
		c.compileFieldAccess(n, line)
	case *ast.FieldAssignExpr:
		c.compileFieldAssign(n, line)
	case *ast.StructLiteralExpr:
		c.compileStructLiteral(n, line)
	}
}

func (c *compiler) compileLoad(name string, line uint32) {
	if slot, ok := c.resolveLocal(name); ok {
		c.emit(line, OpLoadLocal, uint32(slot))
		return
	}
	c.emit(line, OpLoadGlobal, c.internString(name))
}

func (c *compiler) compileStore(name string, line uint32) {
	if slot, ok := c.resolveLocal(name); ok {
		c.emit(line, OpStoreLocal, uint32(slot))
		return
	}
	c.emit(line, OpStoreGlobal, c.internString(name))
}

func (c *compiler) compileArray(n *ast.ArrayExpr, line uint32) {
	for _, el := range n.Elems {
		c.compileExpr(el)
	}
	c.emit(line, OpNewArray, uint32(len(n.Elems)))
}

// compileBinary lowers And/Or with short-circuit jumps and every other
// binary operator as evaluate-both-sides-then-opcode.
func (c *compiler) compileBinary(n *ast.BinaryExpr, line uint32) {
	switch n.Op {
	case ast.And:
		c.compileExpr(n.Left)
		j := c.emit(line, OpJumpIfFalse, 0)
		c.emit(line, OpPop)
		c.compileExpr(n.Right)
		c.chunk.PatchOperand(j, uint32(c.chunk.Len()))
		return
	case ast.Or:
		c.compileExpr(n.Left)
		j := c.emit(line, OpJumpIfTrue, 0)
		c.emit(line, OpPop)
		c.compileExpr(n.Right)
		c.chunk.PatchOperand(j, uint32(c.chunk.Len()))
		return
	}

	c.compileExpr(n.Left)
	c.compileExpr(n.Right)
	switch n.Op {
	case ast.Add:
		c.emit(line, OpAdd)
	case ast.Sub:
		c.emit(line, OpSub)
	case ast.Mul:
		c.emit(line, OpMul)
	case ast.Div:
		c.emit(line, OpDiv)
	case ast.Mod:
		c.emit(line, OpMod)
	case ast.Eq:
		c.emit(line, OpEq)
	case ast.Ne:
		c.emit(line, OpNe)
	case ast.Lt:
		c.emit(line, OpLt)
	case ast.Le:
		c.emit(line, OpLe)
	case ast.Gt:
		c.emit(line, OpGt)
	case ast.Ge:
		c.emit(line, OpGe)
	}
}

func (c *compiler) compileCall(n *ast.CallExpr, line uint32) {
	c.compileExpr(n.Callee)
	for _, a := range n.Args {
		c.compileExpr(a)
	}
	c.emit(line, OpCall, uint32(len(n.Args)))
}

// compileMethodCall resolves obj.name(args) to a plain call of the global
// function registered as "TypeName.name" with obj spliced in as the
// implicit first ("self") argument.
func (c *compiler) compileMethodCall(n *ast.MethodCallExpr, line uint32) {
	typ := c.typeOf(n.Obj)
	c.emit(line, OpLoadGlobal, c.internString(typ.Name+"."+n.Name))
	c.compileExpr(n.Obj)
	for _, a := range n.Args {
		c.compileExpr(a)
	}
	c.emit(line, OpCall, uint32(len(n.Args)+1))
}

// compileIndexAssign evaluates obj[index] = value, leaving the new array on
// the stack, and stores that new array back into obj's slot when obj is a
// plain identifier (the only addressable case the language allows).
func (c *compiler) compileIndexAssign(n *ast.IndexAssignExpr, line uint32) {
	c.compileExpr(n.Obj)
	c.compileExpr(n.Index)
	c.compileExpr(n.Value)
	c.emit(line, OpArraySet)
	if id, ok := n.Obj.(*ast.IdentifierExpr); ok {
		c.compileStore(id.Name, line)
	}
}

func (c *compiler) compileFieldAccess(n *ast.FieldAccessExpr, line uint32) {
	idx := c.fieldIndex(n.Obj, n.Field)
	c.compileExpr(n.Obj)
	c.emit(line, OpFieldGet, uint32(idx))
}

// compileFieldAssign evaluates obj.field = value, leaving the new struct on
// the stack, and stores it back into obj's slot when obj is an identifier.
func (c *compiler) compileFieldAssign(n *ast.FieldAssignExpr, line uint32) {
	idx := c.fieldIndex(n.Obj, n.Field)
	c.compileExpr(n.Obj)
	c.compileExpr(n.Value)
	c.emit(line, OpFieldSet, uint32(idx))
	if id, ok := n.Obj.(*ast.IdentifierExpr); ok {
		c.compileStore(id.Name, line)
	}
}

// fieldIndex resolves a field name on obj's static struct type to its
// declaration-order index, the slot FieldGet/FieldSet address by.
func (c *compiler) fieldIndex(obj ast.Expr, field string) int {
	typ := c.typeOf(obj)
	if typ.Kind != types.Struct {
		if st, ok := c.structOf(typ.Name); ok {
			typ = st
		}
	}
	for i, f := range typ.Fields {
		if f.Name == field {
			return i
		}
	}
	return 0
}

// compileStructLiteral pushes each field's value in declaration order, then
// the struct's name and its field-name list as constants, so NewStruct can
// build a fully-named Value without the VM needing any static type info of
// its own.
func (c *compiler) compileStructLiteral(n *ast.StructLiteralExpr, line uint32) {
	st, _ := c.structOf(n.Name)
	values := make(map[string]ast.Expr, len(n.Fields))
	for _, f := range n.Fields {
		values[f.Name] = f.Value
	}
	names := make([]Value, len(st.Fields))
	for i, f := range st.Fields {
		if v, ok := values[f.Name]; ok {
			c.compileExpr(v)
		} else {
			c.emit(line, OpLoadNull)
		}
		names[i] = String(f.Name)
	}
	c.emit(line, OpLoadConst, c.chunk.AddConstant(String(n.Name)))
	c.emit(line, OpLoadConst, c.chunk.AddConstant(Array(names)))
	c.emit(line, OpNewStruct, uint32(len(st.Fields)))
}

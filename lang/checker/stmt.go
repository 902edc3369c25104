package checker

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/types"
)

func (c *Checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		c.checkExpr(n.X)
	case *ast.VarDeclStmt:
		c.checkVarDecl(n)
	case *ast.FnDeclStmt:
		c.checkFnDecl(n)
	case *ast.StructDeclStmt:
		// already registered in predeclare; field types were resolved there.
	case *ast.TypeAliasStmt:
		// already registered in predeclare.
	case *ast.ImplBlockStmt:
		c.checkImplBlock(n)
	case *ast.ReturnStmt:
		c.checkReturn(n)
	case *ast.IfStmt:
		c.checkIf(n)
	case *ast.WhileStmt:
		c.checkWhile(n)
	case *ast.ForStmt:
		c.checkFor(n)
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.errorf(n.Start, BreakOutsideLoop, "break outside of a loop")
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.errorf(n.Start, ContinueOutsideLoop, "continue outside of a loop")
		}
	case *ast.PrintStmt:
		c.checkExpr(n.Value)
	case *ast.BlockStmt:
		c.pushScope()
		c.checkBlock(n.Block)
		c.popScope()
	}
}

func (c *Checker) checkBlock(b *ast.Block) {
	c.predeclare(b.Stmts)
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
}

func (c *Checker) checkVarDecl(n *ast.VarDeclStmt) {
	var initType types.Type
	if n.Init != nil {
		initType = c.checkExpr(n.Init)
	} else {
		initType = types.UnknownType
	}

	declared := initType
	if n.Type != nil {
		declared = c.resolveTypeExpr(n.Type)
		if n.Init != nil && !types.Compatible(declared, initType) {
			c.errorf(n.NamePos, TypeMismatch, "cannot assign %s to variable %q of type %s", initType, n.Name, declared)
		}
	} else if n.Init == nil {
		c.errorf(n.NamePos, CannotInferType, "variable %q has no type annotation or initializer", n.Name)
	}
	c.declare(n.Name, declared, n.Mutable)
}

func (c *Checker) checkFnDecl(n *ast.FnDeclStmt) {
	fnType := c.fnType(n)

	c.pushScope()
	for i, p := range n.Params {
		c.declare(p.Name, fnType.Params[i], true)
	}
	prevReturn := c.currentReturn
	ret := *fnType.Return
	c.currentReturn = &ret
	c.checkBlock(n.Body)
	c.currentReturn = prevReturn
	c.popScope()
}

func (c *Checker) checkImplBlock(n *ast.ImplBlockStmt) {
	selfType := c.resolveNamed(n.TypeName, n.NamePos, 0)
	for _, m := range n.Methods {
		fnType := c.fnType(m)
		c.pushScope()
		for i, p := range m.Params {
			c.declare(p.Name, fnType.Params[i], true)
		}
		// declared after the parameters, so a leading "self" parameter is
		// bound to the receiver's type
		c.declare("self", selfType, false)
		prevReturn := c.currentReturn
		ret := *fnType.Return
		c.currentReturn = &ret
		c.checkBlock(m.Body)
		c.currentReturn = prevReturn
		c.popScope()
	}
}

func (c *Checker) checkReturn(n *ast.ReturnStmt) {
	actual := types.VoidType
	if n.Value != nil {
		actual = c.checkExpr(n.Value)
	}
	if c.currentReturn == nil {
		return
	}
	if !types.Compatible(*c.currentReturn, actual) {
		c.errorf(n.Start, ReturnTypeMismatch, "function returns %s but this return produces %s", *c.currentReturn, actual)
	}
}

func (c *Checker) checkIf(n *ast.IfStmt) {
	cond := c.checkExpr(n.Cond)
	if cond.Kind != types.Bool && cond.Kind != types.Unknown {
		c.errorf(n.If, TypeMismatch, "if condition must be bool, got %s", cond)
	}
	c.pushScope()
	c.checkBlock(n.Then)
	c.popScope()
	switch e := n.Else.(type) {
	case nil:
	case *ast.IfStmt:
		c.checkStmt(e)
	case *ast.BlockStmt:
		c.pushScope()
		c.checkBlock(e.Block)
		c.popScope()
	}
}

func (c *Checker) checkWhile(n *ast.WhileStmt) {
	cond := c.checkExpr(n.Cond)
	if cond.Kind != types.Bool && cond.Kind != types.Unknown {
		c.errorf(n.While, TypeMismatch, "while condition must be bool, got %s", cond)
	}
	c.loopDepth++
	c.pushScope()
	c.checkBlock(n.Body)
	c.popScope()
	c.loopDepth--
}

func (c *Checker) checkFor(n *ast.ForStmt) {
	lo := c.checkExpr(n.RangeLo)
	hi := c.checkExpr(n.RangeHi)
	if lo.Kind != types.Int && lo.Kind != types.Unknown {
		c.errorf(n.For, TypeMismatch, "for range start must be int, got %s", lo)
	}
	if hi.Kind != types.Int && hi.Kind != types.Unknown {
		c.errorf(n.For, TypeMismatch, "for range end must be int, got %s", hi)
	}
	c.loopDepth++
	c.pushScope()
	c.declare(n.VarName, types.IntType, true)
	c.checkBlock(n.Body)
	c.popScope()
	c.loopDepth--
}

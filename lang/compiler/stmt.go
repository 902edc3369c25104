package compiler

import (
	"github.com/mna/zero/lang/ast"
)

func (c *compiler) compileStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		c.compileExpr(n.X)
		c.emit(lineOf(n.X), OpPop)
	case *ast.VarDeclStmt:
		c.compileVarDecl(n)
	case *ast.FnDeclStmt:
		c.compileFnDecl(n)
	case *ast.StructDeclStmt:
		// struct layout already known via the checker's Info; nothing to emit.
	case *ast.TypeAliasStmt:
		// resolved entirely at check time.
	case *ast.ImplBlockStmt:
		c.compileImplBlock(n)
	case *ast.ReturnStmt:
		c.compileReturn(n)
	case *ast.IfStmt:
		c.compileIf(n)
	case *ast.WhileStmt:
		c.compileWhile(n)
	case *ast.ForStmt:
		c.compileFor(n)
	case *ast.BreakStmt:
		c.compileBreak(n)
	case *ast.ContinueStmt:
		c.compileContinue(n)
	case *ast.PrintStmt:
		c.compileExpr(n.Value)
		c.emit(lineOf(n.Value), OpPrint)
	case *ast.BlockStmt:
		c.beginScope()
		c.compileStmts(n.Block.Stmts)
		c.endScope()
	}
}

func lineOf(n ast.Node) uint32 {
	start, _ := n.Span()
	line, _ := start.LineCol()
	return uint32(line)
}

func (c *compiler) compileVarDecl(n *ast.VarDeclStmt) {
	line := lineOf(n)
	if n.Init != nil {
		c.compileExpr(n.Init)
	} else {
		c.emit(line, OpLoadNull)
	}
	if c.scopeDepth == 0 {
		idx := c.internString(n.Name)
		c.emit(line, OpStoreGlobal, idx)
		c.emit(line, OpPop)
	} else {
		c.addLocal(n.NamePos, n.Name, n.Mutable)
	}
}

func (c *compiler) compileFnDecl(n *ast.FnDeclStmt) {
	fn := c.compileFunction(n.Name, n.Params, n.Body, false)
	idx := c.chunk.AddConstant(FnValue(fn))
	line := lineOf(n)
	c.emit(line, OpLoadConst, idx)
	if c.scopeDepth == 0 {
		nameIdx := c.internString(n.Name)
		c.emit(line, OpStoreGlobal, nameIdx)
		c.emit(line, OpPop)
	} else {
		c.addLocal(n.NamePos, n.Name, false)
	}
}

// compileFunction compiles a function body (optionally with an implicit
// "self" receiver parameter first) into its own nested Chunk.
func (c *compiler) compileFunction(name string, params []*ast.Param, body *ast.Block, withSelf bool) *Function {
	fc := &compiler{chunk: &Chunk{}, info: c.info}
	fc.beginScope()
	if withSelf && len(params) > 0 && params[0].Name == "self" {
		params = params[1:]
	}
	arity := len(params)
	if withSelf {
		fc.addLocal(0, "self", false)
		arity++
	}
	for _, p := range params {
		fc.addLocal(p.NamePos, p.Name, true)
	}
	fc.compileStmts(body.Stmts)
	fc.emit(lineOf(body), OpLoadNull)
	fc.emit(lineOf(body), OpReturn)
	if fc.err != nil && c.err == nil {
		c.err = fc.err
	}
	return &Function{Name: name, Arity: arity, LocalsCount: len(fc.locals), Chunk: fc.chunk}
}

func (c *compiler) compileImplBlock(n *ast.ImplBlockStmt) {
	for _, m := range n.Methods {
		fn := c.compileFunction(n.TypeName+"."+m.Name, m.Params, m.Body, true)
		idx := c.chunk.AddConstant(FnValue(fn))
		line := lineOf(m)
		c.emit(line, OpLoadConst, idx)
		nameIdx := c.internString(n.TypeName + "." + m.Name)
		c.emit(line, OpStoreGlobal, nameIdx)
		c.emit(line, OpPop)
	}
}

func (c *compiler) compileReturn(n *ast.ReturnStmt) {
	line := lineOf(n)
	if n.Value != nil {
		c.compileExpr(n.Value)
	} else {
		c.emit(line, OpLoadNull)
	}
	c.emit(line, OpReturn)
}

func (c *compiler) compileIf(n *ast.IfStmt) {
	line := lineOf(n)
	c.compileExpr(n.Cond)
	elseJump := c.emit(line, OpJumpIfFalse, 0)
	c.emit(line, OpPop)

	c.beginScope()
	c.compileStmts(n.Then.Stmts)
	c.endScope()

	endJump := c.emit(line, OpJump, 0)
	c.chunk.PatchOperand(elseJump, uint32(c.chunk.Len()))
	c.emit(line, OpPop)

	switch e := n.Else.(type) {
	case nil:
	case *ast.IfStmt:
		c.compileStmt(e)
	case *ast.BlockStmt:
		c.beginScope()
		c.compileStmts(e.Block.Stmts)
		c.endScope()
	}
	c.chunk.PatchOperand(endJump, uint32(c.chunk.Len()))
}

func (c *compiler) compileWhile(n *ast.WhileStmt) {
	line := lineOf(n)
	start := c.chunk.Len()
	c.compileExpr(n.Cond)
	exitJump := c.emit(line, OpJumpIfFalse, 0)
	c.emit(line, OpPop)

	c.loops = append(c.loops, loopCtx{start: start, localsBase: len(c.locals)})
	c.beginScope()
	c.compileStmts(n.Body.Stmts)
	c.endScope()
	c.patchContinues(uint32(start))
	c.emit(line, OpLoop, uint32(start))

	c.chunk.PatchOperand(exitJump, uint32(c.chunk.Len()))
	c.emit(line, OpPop)
	c.patchBreaks()
}

func (c *compiler) compileFor(n *ast.ForStmt) {
	line := lineOf(n)
	c.beginScope()
	c.compileExpr(n.RangeLo)
	varSlot := c.addLocal(n.VarPos, n.VarName, true)
	c.compileExpr(n.RangeHi)
	endSlot := c.addLocal(n.VarPos, "__end__", false)

	start := c.chunk.Len()
	c.emit(line, OpLoadLocal, uint32(varSlot))
	c.emit(line, OpLoadLocal, uint32(endSlot))
	c.emit(line, OpLt)
	exitJump := c.emit(line, OpJumpIfFalse, 0)
	c.emit(line, OpPop)

	c.loops = append(c.loops, loopCtx{start: start, localsBase: len(c.locals)})
	c.beginScope()
	c.compileStmts(n.Body.Stmts)
	c.endScope()

	c.patchContinues(uint32(c.chunk.Len()))
	c.emit(line, OpLoadLocal, uint32(varSlot))
	oneIdx := c.chunk.AddConstant(Int(1))
	c.emit(line, OpLoadConst, oneIdx)
	c.emit(line, OpAdd)
	c.emit(line, OpStoreLocal, uint32(varSlot))
	c.emit(line, OpPop)
	c.emit(line, OpLoop, uint32(start))

	c.chunk.PatchOperand(exitJump, uint32(c.chunk.Len()))
	c.emit(line, OpPop)
	c.patchBreaks()
	c.endScope()
}

// unwindLoopLocals pops every local declared since the enclosing loop began
// (i.e. ones a nested block's own endScope would not reach), so a break or
// continue jumping out of that block leaves the stack exactly where the
// loop's own bookkeeping code expects it.
func (c *compiler) unwindLoopLocals(top int, line uint32) {
	for i := len(c.locals) - 1; i >= c.loops[top].localsBase; i-- {
		c.emit(line, OpPop)
	}
}

func (c *compiler) compileBreak(n *ast.BreakStmt) {
	if len(c.loops) == 0 {
		c.fail(n.Start, "break outside of a loop")
		return
	}
	line := lineOf(n)
	top := len(c.loops) - 1
	c.unwindLoopLocals(top, line)
	j := c.emit(line, OpJump, 0)
	c.loops[top].breakJumps = append(c.loops[top].breakJumps, j)
}

func (c *compiler) compileContinue(n *ast.ContinueStmt) {
	if len(c.loops) == 0 {
		c.fail(n.Start, "continue outside of a loop")
		return
	}
	line := lineOf(n)
	top := len(c.loops) - 1
	c.unwindLoopLocals(top, line)
	j := c.emit(line, OpJump, 0)
	c.loops[top].continueJumps = append(c.loops[top].continueJumps, j)
}

// patchContinues patches every continue jump recorded for the innermost
// loop to target (the increment step for "for", the condition re-check for
// "while"). Called once that target's offset is known, before the loop's
// own back-edge is emitted.
func (c *compiler) patchContinues(target uint32) {
	top := len(c.loops) - 1
	for _, j := range c.loops[top].continueJumps {
		c.chunk.PatchOperand(j, target)
	}
}

// patchBreaks patches every break jump recorded for the innermost loop to
// the current offset (just past the loop entirely) and pops that loop's
// tracking context.
func (c *compiler) patchBreaks() {
	top := len(c.loops) - 1
	target := uint32(c.chunk.Len())
	for _, j := range c.loops[top].breakJumps {
		c.chunk.PatchOperand(j, target)
	}
	c.loops = c.loops[:top]
}

package compiler

import (
	"fmt"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/token"
	"github.com/mna/zero/lang/types"
)

// maxLocals bounds the number of local-variable slots a single function (or
// the top-level chunk) may declare.
const maxLocals = 256

// Error is a compile-time failure: a structural problem the checker cannot
// see (too many locals, a break outside any loop the compiler is tracking,
// etc).
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string { return e.Msg }

type local struct {
	name    string
	depth   int
	mutable bool
}

// loopCtx tracks one enclosing loop while its body is being compiled.
// start is the back-edge target for a plain "next iteration": the condition
// check, for both while and for loops (a for loop's continue jumps go to its
// increment step instead, see patchContinues). localsBase is the locals
// count when the loop began, so break/continue can unwind any locals a
// nested block introduced before jumping out. breakJumps and continueJumps
// are forward-jump offsets patched once their real targets are known.
type loopCtx struct {
	start         int
	localsBase    int
	breakJumps    []int
	continueJumps []int
}

// compiler lowers one function body (or the top-level chunk) into a Chunk.
// Each nested function declaration gets its own compiler sharing the info
// computed by the checker.
type compiler struct {
	chunk      *Chunk
	info       *checker.Info
	locals     []local
	scopeDepth int
	loops      []loopCtx
	err        *Error
}

// Compile type-checks chunk with checker.CheckWithTypes, returning the first
// type error if there is any, and otherwise lowers it into a top-level Chunk.
// Compiling stops at the first structural error.
func Compile(chunk *ast.Chunk) (*Chunk, error) {
	info, errs := checker.CheckWithTypes(chunk)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	c := &compiler{chunk: &Chunk{}, info: info}
	c.compileStmts(chunk.Block.Stmts)
	c.emit(0, OpHalt)
	if c.err != nil {
		return nil, c.err
	}
	return c.chunk, nil
}

func (c *compiler) fail(pos token.Pos, format string, args ...any) {
	if c.err == nil {
		c.err = &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	}
}

func (c *compiler) emit(line uint32, op OpCode, operands ...uint32) int {
	return c.chunk.Emit(line, op, operands...)
}

func (c *compiler) compileStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.compileStmt(s)
	}
}

func (c *compiler) beginScope() { c.scopeDepth++ }

func (c *compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
		c.emit(0, OpPop)
	}
}

// addLocal appends name to the current function's locals vector; the
// stack slot is its index.
func (c *compiler) addLocal(pos token.Pos, name string, mutable bool) int {
	if len(c.locals) >= maxLocals {
		c.fail(pos, "too many local variables in function (max %d)", maxLocals)
		return 0
	}
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth, mutable: mutable})
	return len(c.locals) - 1
}

// resolveLocal reverse-scans the locals vector for name, matching the most
// recent (innermost) declaration.
func (c *compiler) resolveLocal(name string) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i, true
		}
	}
	return 0, false
}

func (c *compiler) internString(s string) uint32 {
	return c.chunk.AddConstant(String(s))
}

func (c *compiler) typeOf(e ast.Expr) types.Type {
	if t, ok := c.info.Types[e]; ok {
		return t
	}
	return types.UnknownType
}

// structOf returns the resolved struct type for a name: the live registry
// from the checker, which already de-references aliases.
func (c *compiler) structOf(name string) (types.Type, bool) {
	t, ok := c.info.Structs[name]
	return t, ok
}

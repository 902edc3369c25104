// Package interp implements the legacy tree-walking evaluator selected by
// the CLI's --old flag (spec.md §6). It re-validates the program with the
// same checker the compiler uses, then executes the AST directly instead
// of compiling to bytecode and dispatching through lang/vm. It exists
// purely as a slower, simpler reference execution path; lang/vm is the
// language's primary runtime.
//
// interp deliberately narrows one corner the checker accepts: a call's
// callee must be a plain identifier naming a declared function or method.
// Zero's type system allows function-typed values in general, but no
// example program in this tree ever calls through one, and supporting
// first-class function values here would require giving the tree-walker
// its own closure representation that the bytecode VM doesn't need.
// Calling through a computed callee reports InvalidOperation.
package interp

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/token"
	"github.com/mna/zero/lang/types"
	"github.com/mna/zero/lang/vm"
)

// stepCheckInterval mirrors lang/vm's cadence for polling ctx cancellation,
// so neither execution path pays a syscall-ish check on every statement.
const stepCheckInterval = 256

// Interp walks a checked *ast.Chunk and evaluates it directly.
type Interp struct {
	// Stdout receives print statement output. Defaults to os.Stdout.
	Stdout io.Writer
	// MaxSteps bounds the number of statements executed plus function calls
	// made before the run
	// aborts with ResourceExhausted. Zero means no limit.
	MaxSteps uint64

	ctx     context.Context
	steps   uint64
	structs map[string]types.Type
	funcs   map[string]*ast.FnDeclStmt
	methods map[string]*ast.FnDeclStmt
	globals *env
}

// New returns an Interp ready to Run a chunk.
func New() *Interp {
	return &Interp{Stdout: os.Stdout}
}

// signalKind tags what, if anything, an executed statement is propagating
// up to its enclosing block: a break/continue out of a loop or a return
// out of a function body.
type signalKind int

const (
	sigNone signalKind = iota
	sigReturn
	sigBreak
	sigContinue
)

type signal struct {
	kind signalKind
	val  compiler.Value
}

// Run type-checks chunk and, if it is well-typed, executes its top-level
// statements, returning the value of its last `return`, or Null if control
// falls off the end (mirroring the VM's top-level frame behavior).
func (ip *Interp) Run(ctx context.Context, chunk *ast.Chunk) (compiler.Value, error) {
	if ip.Stdout == nil {
		ip.Stdout = os.Stdout
	}
	info, errs := checker.CheckWithTypes(chunk)
	if len(errs) > 0 {
		return compiler.Null(), errs[0]
	}

	ip.ctx = ctx
	ip.structs = info.Structs
	ip.funcs = make(map[string]*ast.FnDeclStmt)
	ip.methods = make(map[string]*ast.FnDeclStmt)
	collectDecls(chunk.Block.Stmts, ip.funcs, ip.methods)
	ip.globals = newEnv(nil)

	sig, err := ip.execStmts(chunk.Block.Stmts, ip.globals)
	if err != nil {
		return compiler.Null(), err
	}
	if sig.kind == sigReturn {
		return sig.val, nil
	}
	return compiler.Null(), nil
}

// collectDecls registers every function declaration and impl-block method
// anywhere in stmts (recursing into nested blocks), so a call can resolve
// regardless of where in the chunk it textually appears relative to its
// callee's declaration. This is the tree-walker's counterpart to the
// checker's predeclare, flattened: predeclare re-scopes per block so a
// nested function can shadow an outer one of the same name, but no example
// program in this tree relies on that, and a single flat registry keeps
// the legacy interpreter simple.
func collectDecls(stmts []ast.Stmt, funcs, methods map[string]*ast.FnDeclStmt) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.FnDeclStmt:
			funcs[n.Name] = n
			collectDecls(n.Body.Stmts, funcs, methods)
		case *ast.ImplBlockStmt:
			for _, m := range n.Methods {
				methods[n.TypeName+"."+m.Name] = m
				collectDecls(m.Body.Stmts, funcs, methods)
			}
		case *ast.IfStmt:
			collectDecls(n.Then.Stmts, funcs, methods)
			if n.Else != nil {
				collectDecls([]ast.Stmt{n.Else}, funcs, methods)
			}
		case *ast.WhileStmt:
			collectDecls(n.Body.Stmts, funcs, methods)
		case *ast.ForStmt:
			collectDecls(n.Body.Stmts, funcs, methods)
		case *ast.BlockStmt:
			collectDecls(n.Block.Stmts, funcs, methods)
		}
	}
}

// tick advances the step counter, aborting the run once MaxSteps is
// exceeded or ctx is canceled, polled every stepCheckInterval steps.
func (ip *Interp) tick() error {
	ip.steps++
	if ip.MaxSteps > 0 && ip.steps > ip.MaxSteps {
		return &Error{Kind: vm.ResourceExhausted, Msg: "step limit exceeded"}
	}
	if ip.ctx != nil && ip.steps%stepCheckInterval == 0 {
		select {
		case <-ip.ctx.Done():
			return &Error{Kind: vm.ResourceExhausted, Msg: ip.ctx.Err().Error()}
		default:
		}
	}
	return nil
}

func lineOf(p token.Pos) uint32 {
	line, _ := p.LineCol()
	return uint32(line)
}

func (ip *Interp) execStmts(stmts []ast.Stmt, e *env) (signal, error) {
	for _, s := range stmts {
		sig, err := ip.execStmt(s, e)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return signal{}, nil
}

func (ip *Interp) execStmt(s ast.Stmt, e *env) (signal, error) {
	if err := ip.tick(); err != nil {
		return signal{}, err
	}
	switch n := s.(type) {
	case *ast.ExprStmt:
		_, err := ip.evalExpr(n.X, e)
		return signal{}, err

	case *ast.VarDeclStmt:
		v := compiler.Null()
		if n.Init != nil {
			var err error
			v, err = ip.evalExpr(n.Init, e)
			if err != nil {
				return signal{}, err
			}
		}
		e.define(n.Name, v)
		return signal{}, nil

	case *ast.FnDeclStmt, *ast.StructDeclStmt, *ast.TypeAliasStmt, *ast.ImplBlockStmt:
		// Declarations only take effect through collectDecls at Run time.
		return signal{}, nil

	case *ast.ReturnStmt:
		v := compiler.Null()
		if n.Value != nil {
			var err error
			v, err = ip.evalExpr(n.Value, e)
			if err != nil {
				return signal{}, err
			}
		}
		return signal{kind: sigReturn, val: v}, nil

	case *ast.IfStmt:
		return ip.execIf(n, e)

	case *ast.WhileStmt:
		return ip.execWhile(n, e)

	case *ast.ForStmt:
		return ip.execFor(n, e)

	case *ast.BreakStmt:
		return signal{kind: sigBreak}, nil

	case *ast.ContinueStmt:
		return signal{kind: sigContinue}, nil

	case *ast.PrintStmt:
		v, err := ip.evalExpr(n.Value, e)
		if err != nil {
			return signal{}, err
		}
		fmt.Fprintln(ip.Stdout, v.Display())
		return signal{}, nil

	case *ast.BlockStmt:
		return ip.execStmts(n.Block.Stmts, newEnv(e))
	}
	return signal{}, nil
}

func (ip *Interp) execIf(n *ast.IfStmt, e *env) (signal, error) {
	cond, err := ip.evalExpr(n.Cond, e)
	if err != nil {
		return signal{}, err
	}
	if cond.Truthy() {
		return ip.execStmts(n.Then.Stmts, newEnv(e))
	}
	switch branch := n.Else.(type) {
	case nil:
		return signal{}, nil
	case *ast.IfStmt:
		return ip.execIf(branch, e)
	default:
		return ip.execStmt(n.Else, e)
	}
}

func (ip *Interp) execWhile(n *ast.WhileStmt, e *env) (signal, error) {
	for {
		cond, err := ip.evalExpr(n.Cond, e)
		if err != nil {
			return signal{}, err
		}
		if !cond.Truthy() {
			return signal{}, nil
		}
		sig, err := ip.execStmts(n.Body.Stmts, newEnv(e))
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return signal{}, nil
		case sigReturn:
			return sig, nil
		}
	}
}

func (ip *Interp) execFor(n *ast.ForStmt, e *env) (signal, error) {
	lo, err := ip.evalExpr(n.RangeLo, e)
	if err != nil {
		return signal{}, err
	}
	hi, err := ip.evalExpr(n.RangeHi, e)
	if err != nil {
		return signal{}, err
	}
	if lo.Kind != compiler.KindInt || hi.Kind != compiler.KindInt {
		return signal{}, &Error{Kind: vm.TypeError, Line: lineOf(n.For), Msg: "for range bounds must be int"}
	}
	for i := lo.Int; i < hi.Int; i++ {
		loopEnv := newEnv(e)
		loopEnv.define(n.VarName, compiler.Int(i))
		sig, err := ip.execStmts(n.Body.Stmts, loopEnv)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return signal{}, nil
		case sigReturn:
			return sig, nil
		}
	}
	return signal{}, nil
}

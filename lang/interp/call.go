package interp

import (
	"fmt"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/vm"
)

func (ip *Interp) evalCall(n *ast.CallExpr, e *env) (compiler.Value, error) {
	ident, ok := n.Callee.(*ast.IdentifierExpr)
	if !ok {
		return compiler.Value{}, &Error{Kind: vm.InvalidOperation, Line: lineOf(n.Lparen),
			Msg: "the legacy interpreter only supports calling a function by its declared name"}
	}
	decl, ok := ip.funcs[ident.Name]
	if !ok {
		return compiler.Value{}, &Error{Kind: vm.UndefinedVariable, Line: lineOf(n.Lparen),
			Msg: fmt.Sprintf("undefined function %q", ident.Name)}
	}
	args, err := ip.evalArgs(n.Args, e)
	if err != nil {
		return compiler.Value{}, err
	}
	return ip.callFn(decl, args)
}

// evalMethodCall resolves obj.name(args) to the global declaration
// registered as "TypeName.name", splicing the receiver in as the first
// argument. A method's declared parameter list writes its receiver
// explicitly as a leading "self" parameter (parseFnDecl doesn't special-
// case it), so this mirrors the compiler's compileMethodCall exactly: no
// separate self-binding mechanism is needed. The type name comes from
// obj's own runtime SName rather than a statically recorded type of n.Obj,
// as in fieldGet.
func (ip *Interp) evalMethodCall(n *ast.MethodCallExpr, e *env) (compiler.Value, error) {
	obj, err := ip.evalExpr(n.Obj, e)
	if err != nil {
		return compiler.Value{}, err
	}
	if obj.Kind != compiler.KindStruct {
		return compiler.Value{}, &Error{Kind: vm.TypeError, Line: lineOf(n.Dot), Msg: "method call requires a struct"}
	}
	key := obj.SName + "." + n.Name
	decl, ok := ip.methods[key]
	if !ok {
		return compiler.Value{}, &Error{Kind: vm.UndefinedVariable, Line: lineOf(n.Dot),
			Msg: fmt.Sprintf("undefined method %s.%s", obj.SName, n.Name)}
	}
	rest, err := ip.evalArgs(n.Args, e)
	if err != nil {
		return compiler.Value{}, err
	}
	args := append([]compiler.Value{obj}, rest...)
	return ip.callFn(decl, args)
}

func (ip *Interp) evalArgs(exprs []ast.Expr, e *env) ([]compiler.Value, error) {
	args := make([]compiler.Value, len(exprs))
	for i, a := range exprs {
		v, err := ip.evalExpr(a, e)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// callFn executes decl's body in a fresh scope chained directly to the
// interpreter's globals (Zero has no closures, so a call never sees its
// caller's locals), binding args positionally against decl.Params.
func (ip *Interp) callFn(decl *ast.FnDeclStmt, args []compiler.Value) (compiler.Value, error) {
	if err := ip.tick(); err != nil {
		return compiler.Value{}, err
	}
	fnEnv := newEnv(ip.globals)
	for i, p := range decl.Params {
		v := compiler.Null()
		if i < len(args) {
			v = args[i]
		}
		fnEnv.define(p.Name, v)
	}
	sig, err := ip.execStmts(decl.Body.Stmts, fnEnv)
	if err != nil {
		return compiler.Value{}, err
	}
	if sig.kind == sigReturn {
		return sig.val, nil
	}
	return compiler.Null(), nil
}

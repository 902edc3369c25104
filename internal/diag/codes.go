package diag

import (
	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/interp"
	"github.com/mna/zero/lang/scanner"
	"github.com/mna/zero/lang/token"
	"github.com/mna/zero/lang/vm"
)

// checkerCodes maps the checker's ErrorKind enum onto registry codes, in
// the same order the enum declares them, so T001 is TypeMismatch, T002 is
// UndefinedVariable, and so on.
var checkerCodes = map[checker.ErrorKind]Code{
	checker.TypeMismatch:          "T001",
	checker.UndefinedVariable:     "T002",
	checker.UndefinedFunction:     "T003",
	checker.ArgumentCountMismatch: "T004",
	checker.ArgumentTypeMismatch:  "T005",
	checker.ReturnTypeMismatch:    "T006",
	checker.CannotInferType:       "T007",
	checker.InvalidOperation:      "T008",
	checker.ImmutableAssignment:   "T009",
	checker.BreakOutsideLoop:      "T010",
	checker.ContinueOutsideLoop:   "T011",
}

// vmCodes maps the VM's ErrorKind enum onto registry codes; R001 is
// StackUnderflow, matching spec.md §7's R001 example.
var vmCodes = map[vm.ErrorKind]Code{
	vm.StackUnderflow:    "R001",
	vm.StackOverflow:     "R002",
	vm.TypeError:         "R003",
	vm.UndefinedVariable: "R004",
	vm.DivisionByZero:    "R005",
	vm.InvalidOperation:  "R006",
	vm.ResourceExhausted: "R007",
}

// positioner is implemented by parser.firstError (unexported, but its
// Position method is), letting FromError recover a position without
// depending on the parser's internal error type.
type positioner interface{ Position() token.Position }

// FromScannerError converts a single lexer failure.
func FromScannerError(e *scanner.Error) Diagnostic {
	return Diagnostic{
		Code:    "L000",
		Phase:   PhaseLexer,
		Pos:     e.Pos,
		Message: e.Msg,
		Args:    map[string]string{"message": e.Msg},
	}
}

// FromScannerErrorList converts the first failure in a scanner.ErrorList,
// matching the pipeline's halt-at-first-error behavior (spec.md §7).
func FromScannerErrorList(el scanner.ErrorList) Diagnostic {
	if len(el) == 0 {
		return Diagnostic{Code: "L000", Phase: PhaseLexer, Message: "unknown lexical error"}
	}
	return FromScannerError(el[0])
}

// FromCheckerError converts a type-checking failure. file resolves the
// error's packed token.Pos into a full, filename-qualified Position.
func FromCheckerError(e *checker.Error, file *token.File) Diagnostic {
	code, ok := checkerCodes[e.Kind]
	if !ok {
		code = "T001"
	}
	args := map[string]string{"message": e.Msg}
	return Diagnostic{
		Code:    code,
		Phase:   PhaseChecker,
		Pos:     file.Position(e.Pos),
		Message: e.Msg,
		Args:    args,
	}
}

// FromCompilerError converts a compile-time structural failure (too many
// locals, break outside any loop the compiler tracks, etc).
func FromCompilerError(e *compiler.Error, file *token.File) Diagnostic {
	return Diagnostic{
		Code:    "C001",
		Phase:   PhaseCompiler,
		Pos:     file.Position(e.Pos),
		Message: e.Msg,
		Args:    map[string]string{"message": e.Msg},
	}
}

// FromVMError converts a runtime failure. The VM only tracks a line
// number (its chunk has no column/file info), so Pos carries just that.
func FromVMError(e *vm.Error) Diagnostic {
	code, ok := vmCodes[e.Kind]
	if !ok {
		code = "R006"
	}
	args := map[string]string{"message": e.Msg}
	if code == "R002" {
		args["limit"] = e.Msg
	}
	if code == "R007" {
		args["resource"] = "step"
		args["limit"] = e.Msg
	}
	return Diagnostic{
		Code:    code,
		Phase:   PhaseRuntime,
		Pos:     token.Position{Pos: token.MakePos(int(e.Line), 1)},
		Message: e.Msg,
		Args:    args,
	}
}

// FromInterpError converts a legacy tree-walking-interpreter runtime
// failure. It shares the VM's ErrorKind taxonomy, so it reuses vmCodes
// directly instead of a parallel table.
func FromInterpError(e *interp.Error) Diagnostic {
	code, ok := vmCodes[e.Kind]
	if !ok {
		code = "R006"
	}
	return Diagnostic{
		Code:    code,
		Phase:   PhaseRuntime,
		Pos:     token.Position{Pos: token.MakePos(int(e.Line), 1)},
		Message: e.Msg,
		Args:    map[string]string{"message": e.Msg},
	}
}

// FromError dispatches on err's concrete type to build a Diagnostic. file
// is used to resolve checker/compiler positions and may be nil if the
// caller knows err cannot be one of those (e.g. it already ran the
// scanner/parser phase and knows the failure is a parse error).
func FromError(err error, file *token.File) Diagnostic {
	switch e := err.(type) {
	case *scanner.Error:
		return FromScannerError(e)
	case scanner.ErrorList:
		return FromScannerErrorList(e)
	case *checker.Error:
		return FromCheckerError(e, file)
	case *compiler.Error:
		return FromCompilerError(e, file)
	case *vm.Error:
		return FromVMError(e)
	case *interp.Error:
		return FromInterpError(e)
	}
	if p, ok := err.(positioner); ok {
		msg := err.Error()
		return Diagnostic{
			Code:    "P000",
			Phase:   PhaseParser,
			Pos:     p.Position(),
			Message: msg,
			Args:    map[string]string{"message": msg},
		}
	}
	msg := err.Error()
	return Diagnostic{Code: "R006", Phase: PhaseRuntime, Message: msg, Args: map[string]string{"message": msg}}
}

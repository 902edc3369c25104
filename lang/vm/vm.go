// Package vm executes a compiled Chunk: an operand stack, a global
// name→value table, and a call-frame stack, dispatching on compiler.OpCode
// in a straight fetch-decode-execute loop. Grounded on the teacher's
// lang/machine package for the overall frame/stack shape and the
// step-counted, context-cancellable dispatch loop, generalized to this
// language's fixed-width instruction set and stripped of everything
// Starlark-specific the Language doesn't have: closures and cells, defer and
// catch blocks, iterators, and module loading.
package vm

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dolthub/swiss"

	"github.com/mna/zero/lang/compiler"
)

// defaultMaxStack bounds the operand stack when MaxStack is left at zero,
// matching spec.md §4.5's "bounded, e.g. 1024".
const defaultMaxStack = 1024

// stepCheckInterval is how often, in dispatched instructions, the VM polls
// its context for cancellation; checking every instruction would dominate
// the cost of the dispatch loop itself.
const stepCheckInterval = 256

// VM holds the configuration for one or more program executions. A VM value
// is safe to reuse across calls to Run; each Run gets its own stack, frame
// stack and globals table.
type VM struct {
	// Stdout is where Print writes. Defaults to os.Stdout when nil.
	Stdout io.Writer

	// MaxStack bounds the operand stack's height. A value <= 0 uses
	// defaultMaxStack.
	MaxStack int

	// MaxSteps bounds the number of dispatched instructions before the
	// thread aborts with ResourceExhausted. A value <= 0 means no limit.
	MaxSteps int

	// MaxCallDepth bounds the number of live call frames. A value <= 0
	// means no limit.
	MaxCallDepth int

	// Debug prints a disassembly of chunk to Stdout before executing it,
	// the ZERO_DEBUG=1 trace.
	Debug bool
}

// New returns a VM with the spec's suggested defaults.
func New() *VM {
	return &VM{Stdout: os.Stdout, MaxStack: defaultMaxStack}
}

// frame is one call-frame activation record: the chunk being executed, the
// program counter within it, and the operand-stack base index below which
// this frame may never read or write (its locals start at base).
type frame struct {
	chunk *compiler.Chunk
	pc    int
	base  int
}

// thread is the mutable execution state of a single Run call.
type thread struct {
	vm      *VM
	stack   []compiler.Value
	frames  []frame
	globals *swiss.Map[string, compiler.Value]
	stdout  io.Writer
	steps   uint64
}

// Run executes chunk from its first instruction and returns the value
// produced by a top-level Return, or Null after a Halt. Execution stops at
// the first runtime error, or when ctx is cancelled.
func (vm *VM) Run(ctx context.Context, chunk *compiler.Chunk) (compiler.Value, error) {
	stdout := vm.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	if vm.Debug {
		fmt.Fprint(stdout, compiler.Disassemble(chunk, "<toplevel>"))
	}
	th := &thread{
		vm:      vm,
		globals: swiss.NewMap[string, compiler.Value](16),
		stdout:  stdout,
	}
	th.frames = append(th.frames, frame{chunk: chunk})
	return th.run(ctx)
}

func (th *thread) maxStack() int {
	if th.vm.MaxStack > 0 {
		return th.vm.MaxStack
	}
	return defaultMaxStack
}

func (th *thread) run(ctx context.Context) (compiler.Value, error) {
	for {
		if len(th.frames) == 0 {
			return compiler.Null(), nil
		}
		fr := &th.frames[len(th.frames)-1]
		if fr.pc >= len(fr.chunk.Code) {
			return compiler.Null(), nil
		}

		th.steps++
		if th.vm.MaxSteps > 0 && th.steps > uint64(th.vm.MaxSteps) {
			return compiler.Value{}, &Error{Kind: ResourceExhausted, Line: fr.chunk.Lines[fr.pc], Msg: "step limit exceeded"}
		}
		if th.steps%stepCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return compiler.Value{}, ctx.Err()
			default:
			}
		}

		op := compiler.OpCode(fr.chunk.Code[fr.pc])
		line := fr.chunk.Lines[fr.pc]
		var arg uint32
		if op.OperandCount() == 1 {
			arg = fr.chunk.ReadUint32(fr.pc + 1)
		}
		fr.pc += op.InstrSize()

		if v, err := th.dispatch(op, arg, line); err != nil {
			return compiler.Value{}, err
		} else if v != nil {
			return *v, nil
		}
	}
}

// dispatch executes one instruction. It returns a non-nil *compiler.Value
// only for Halt/top-level-Return, signalling th.run to stop; otherwise a nil
// value and nil error means "keep going".
func (th *thread) dispatch(op compiler.OpCode, arg uint32, line uint32) (*compiler.Value, error) {
	switch op {
	case compiler.OpLoadConst:
		fr := th.topFrame()
		return nil, th.push(fr.chunk.Constants[arg], line)
	case compiler.OpLoadNull:
		return nil, th.push(compiler.Null(), line)
	case compiler.OpLoadLocal:
		v, err := th.local(arg, line)
		if err != nil {
			return nil, err
		}
		return nil, th.push(v, line)
	case compiler.OpStoreLocal:
		v, err := th.peek(line)
		if err != nil {
			return nil, err
		}
		return nil, th.setLocal(arg, v, line)
	case compiler.OpLoadGlobal:
		name := th.topFrame().chunk.Constants[arg].Str
		v, ok := th.globals.Get(name)
		if !ok {
			return nil, &Error{Kind: UndefinedVariable, Line: line, Msg: fmt.Sprintf("undefined global %q", name)}
		}
		return nil, th.push(v, line)
	case compiler.OpStoreGlobal:
		name := th.topFrame().chunk.Constants[arg].Str
		v, err := th.peek(line)
		if err != nil {
			return nil, err
		}
		th.globals.Put(name, v)
		return nil, nil

	case compiler.OpAdd:
		return nil, th.binaryAdd(line)
	case compiler.OpSub, compiler.OpMul, compiler.OpDiv, compiler.OpMod:
		return nil, th.binaryArith(op, line)
	case compiler.OpNegate:
		return nil, th.negate(line)

	case compiler.OpEq, compiler.OpNe:
		b, err := th.pop(line)
		if err != nil {
			return nil, err
		}
		a, err := th.pop(line)
		if err != nil {
			return nil, err
		}
		eq := a.Equal(b)
		if op == compiler.OpNe {
			eq = !eq
		}
		return nil, th.push(compiler.Bool(eq), line)
	case compiler.OpLt, compiler.OpLe, compiler.OpGt, compiler.OpGe:
		return nil, th.compare(op, line)

	case compiler.OpNot:
		v, err := th.pop(line)
		if err != nil {
			return nil, err
		}
		return nil, th.push(compiler.Bool(!v.Truthy()), line)
	case compiler.OpAnd, compiler.OpOr:
		b, err := th.pop(line)
		if err != nil {
			return nil, err
		}
		a, err := th.pop(line)
		if err != nil {
			return nil, err
		}
		var r bool
		if op == compiler.OpAnd {
			r = a.Truthy() && b.Truthy()
		} else {
			r = a.Truthy() || b.Truthy()
		}
		return nil, th.push(compiler.Bool(r), line)

	case compiler.OpJump, compiler.OpLoop:
		th.topFrame().pc = int(arg)
		return nil, nil
	case compiler.OpJumpIfFalse:
		v, err := th.peek(line)
		if err != nil {
			return nil, err
		}
		if !v.Truthy() {
			th.topFrame().pc = int(arg)
		}
		return nil, nil
	case compiler.OpJumpIfTrue:
		v, err := th.peek(line)
		if err != nil {
			return nil, err
		}
		if v.Truthy() {
			th.topFrame().pc = int(arg)
		}
		return nil, nil

	case compiler.OpCall:
		return nil, th.call(int(arg), line)
	case compiler.OpReturn:
		return th.doReturn(line)

	case compiler.OpNewArray:
		return nil, th.newArray(int(arg), line)
	case compiler.OpArrayGet:
		return nil, th.arrayGet(line)
	case compiler.OpArraySet:
		return nil, th.arraySet(line)
	case compiler.OpArrayLen:
		v, err := th.pop(line)
		if err != nil {
			return nil, err
		}
		if v.Kind != compiler.KindArray {
			return nil, &Error{Kind: TypeError, Line: line, Msg: "ArrayLen on a non-array value"}
		}
		return nil, th.push(compiler.Int(int64(len(v.Elems))), line)

	case compiler.OpNewStruct:
		return nil, th.newStruct(int(arg), line)
	case compiler.OpFieldGet:
		return nil, th.fieldGet(int(arg), line)
	case compiler.OpFieldSet:
		return nil, th.fieldSet(int(arg), line)

	case compiler.OpPop:
		_, err := th.pop(line)
		return nil, err
	case compiler.OpDup:
		v, err := th.peek(line)
		if err != nil {
			return nil, err
		}
		return nil, th.push(v, line)
	case compiler.OpPrint:
		v, err := th.pop(line)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(th.stdout, v.Display())
		return nil, nil
	case compiler.OpHalt:
		null := compiler.Null()
		return &null, nil
	}
	return nil, &Error{Kind: InvalidOperation, Line: line, Msg: fmt.Sprintf("unimplemented opcode %s", op)}
}

func (th *thread) topFrame() *frame { return &th.frames[len(th.frames)-1] }

func (th *thread) push(v compiler.Value, line uint32) error {
	if len(th.stack) >= th.maxStack() {
		return &Error{Kind: StackOverflow, Line: line, Msg: "operand stack overflow"}
	}
	th.stack = append(th.stack, v)
	return nil
}

func (th *thread) pop(line uint32) (compiler.Value, error) {
	base := th.topFrame().base
	if len(th.stack) <= base {
		return compiler.Value{}, &Error{Kind: StackUnderflow, Line: line, Msg: "operand stack underflow"}
	}
	v := th.stack[len(th.stack)-1]
	th.stack = th.stack[:len(th.stack)-1]
	return v, nil
}

func (th *thread) peek(line uint32) (compiler.Value, error) {
	base := th.topFrame().base
	if len(th.stack) <= base {
		return compiler.Value{}, &Error{Kind: StackUnderflow, Line: line, Msg: "operand stack underflow"}
	}
	return th.stack[len(th.stack)-1], nil
}

func (th *thread) local(slot uint32, line uint32) (compiler.Value, error) {
	idx := th.topFrame().base + int(slot)
	if idx < 0 || idx >= len(th.stack) {
		return compiler.Value{}, &Error{Kind: InvalidOperation, Line: line, Msg: fmt.Sprintf("invalid local slot %d", slot)}
	}
	return th.stack[idx], nil
}

func (th *thread) setLocal(slot uint32, v compiler.Value, line uint32) error {
	idx := th.topFrame().base + int(slot)
	if idx < 0 || idx >= len(th.stack) {
		return &Error{Kind: InvalidOperation, Line: line, Msg: fmt.Sprintf("invalid local slot %d", slot)}
	}
	th.stack[idx] = v
	return nil
}

func asFloat(v compiler.Value) float64 {
	if v.Kind == compiler.KindFloat {
		return v.Float
	}
	return float64(v.Int)
}

func (th *thread) binaryAdd(line uint32) error {
	b, err := th.pop(line)
	if err != nil {
		return err
	}
	a, err := th.pop(line)
	if err != nil {
		return err
	}
	if a.Kind == compiler.KindString && b.Kind == compiler.KindString {
		return th.push(compiler.String(a.Str+b.Str), line)
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return &Error{Kind: TypeError, Line: line, Msg: "Add requires two numbers or two strings"}
	}
	if a.Kind == compiler.KindFloat || b.Kind == compiler.KindFloat {
		return th.push(compiler.Float(asFloat(a)+asFloat(b)), line)
	}
	return th.push(compiler.Int(a.Int+b.Int), line)
}

func (th *thread) binaryArith(op compiler.OpCode, line uint32) error {
	b, err := th.pop(line)
	if err != nil {
		return err
	}
	a, err := th.pop(line)
	if err != nil {
		return err
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return &Error{Kind: TypeError, Line: line, Msg: fmt.Sprintf("%s requires two numbers", op)}
	}
	if op == compiler.OpMod {
		if a.Kind != compiler.KindInt || b.Kind != compiler.KindInt {
			return &Error{Kind: TypeError, Line: line, Msg: "Mod requires two integers"}
		}
		if b.Int == 0 {
			return &Error{Kind: DivisionByZero, Line: line, Msg: "modulo by zero"}
		}
		return th.push(compiler.Int(a.Int%b.Int), line)
	}
	if a.Kind == compiler.KindFloat || b.Kind == compiler.KindFloat {
		af, bf := asFloat(a), asFloat(b)
		if op == compiler.OpDiv && bf == 0 {
			return &Error{Kind: DivisionByZero, Line: line, Msg: "division by zero"}
		}
		var r float64
		switch op {
		case compiler.OpSub:
			r = af - bf
		case compiler.OpMul:
			r = af * bf
		case compiler.OpDiv:
			r = af / bf
		}
		return th.push(compiler.Float(r), line)
	}
	if op == compiler.OpDiv && b.Int == 0 {
		return &Error{Kind: DivisionByZero, Line: line, Msg: "division by zero"}
	}
	var r int64
	switch op {
	case compiler.OpSub:
		r = a.Int - b.Int
	case compiler.OpMul:
		r = a.Int * b.Int
	case compiler.OpDiv:
		r = a.Int / b.Int
	}
	return th.push(compiler.Int(r), line)
}

func (th *thread) negate(line uint32) error {
	v, err := th.pop(line)
	if err != nil {
		return err
	}
	switch v.Kind {
	case compiler.KindInt:
		return th.push(compiler.Int(-v.Int), line)
	case compiler.KindFloat:
		return th.push(compiler.Float(-v.Float), line)
	}
	return &Error{Kind: TypeError, Line: line, Msg: "Negate requires a number"}
}

func (th *thread) compare(op compiler.OpCode, line uint32) error {
	b, err := th.pop(line)
	if err != nil {
		return err
	}
	a, err := th.pop(line)
	if err != nil {
		return err
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return &Error{Kind: TypeError, Line: line, Msg: fmt.Sprintf("%s requires two numbers", op)}
	}
	af, bf := asFloat(a), asFloat(b)
	var r bool
	switch op {
	case compiler.OpLt:
		r = af < bf
	case compiler.OpLe:
		r = af <= bf
	case compiler.OpGt:
		r = af > bf
	case compiler.OpGe:
		r = af >= bf
	}
	return th.push(compiler.Bool(r), line)
}

func (th *thread) call(argc int, line uint32) error {
	base := len(th.stack) - argc
	if base <= 0 {
		return &Error{Kind: StackUnderflow, Line: line, Msg: "call: missing callee or arguments"}
	}
	callee := th.stack[base-1]
	if callee.Kind != compiler.KindFunction {
		return &Error{Kind: TypeError, Line: line, Msg: "attempt to call a non-function value"}
	}
	fn := callee.Fn
	if fn.Arity != argc {
		return &Error{Kind: InvalidOperation, Line: line, Msg: fmt.Sprintf("%s expects %d argument(s), got %d", fn.Name, fn.Arity, argc)}
	}
	if th.vm.MaxCallDepth > 0 && len(th.frames) >= th.vm.MaxCallDepth {
		return &Error{Kind: StackOverflow, Line: line, Msg: "call stack overflow"}
	}

	// Remove the callee from below its arguments, leaving exactly argc
	// values on top of the stack: these become the callee's first argc
	// local slots, per the compiler's "locals live on the stack" scheme.
	copy(th.stack[base-1:], th.stack[base:])
	th.stack = th.stack[:len(th.stack)-1]

	th.frames = append(th.frames, frame{chunk: fn.Chunk, base: base - 1})
	return nil
}

// doReturn pops the result, unwinds the current frame's stack region back
// to its base, pops the frame and pushes the result for the caller. When
// there is no caller left (a Return compiled into the top-level chunk,
// which Compile never does but Assemble-authored bytecode may), execution
// stops and the result is returned from Run.
func (th *thread) doReturn(line uint32) (*compiler.Value, error) {
	result, err := th.pop(line)
	if err != nil {
		return nil, err
	}
	fr := th.topFrame()
	base := fr.base
	th.stack = th.stack[:base]
	th.frames = th.frames[:len(th.frames)-1]
	if len(th.frames) == 0 {
		return &result, nil
	}
	if err := th.push(result, line); err != nil {
		return nil, err
	}
	return nil, nil
}

func (th *thread) newArray(n int, line uint32) error {
	elems := make([]compiler.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := th.pop(line)
		if err != nil {
			return err
		}
		elems[i] = v
	}
	return th.push(compiler.Array(elems), line)
}

func (th *thread) arrayIndex(v compiler.Value, line uint32) (int, error) {
	if v.Kind != compiler.KindInt {
		return 0, &Error{Kind: TypeError, Line: line, Msg: "array index must be an integer"}
	}
	return int(v.Int), nil
}

func (th *thread) arrayGet(line uint32) error {
	idxVal, err := th.pop(line)
	if err != nil {
		return err
	}
	arr, err := th.pop(line)
	if err != nil {
		return err
	}
	if arr.Kind != compiler.KindArray {
		return &Error{Kind: TypeError, Line: line, Msg: "index operator requires an array"}
	}
	idx, err := th.arrayIndex(idxVal, line)
	if err != nil {
		return err
	}
	if idx < 0 {
		idx += len(arr.Elems)
	}
	if idx < 0 || idx >= len(arr.Elems) {
		return &Error{Kind: InvalidOperation, Line: line, Msg: "index out of bounds"}
	}
	return th.push(arr.Elems[idx], line)
}

func (th *thread) arraySet(line uint32) error {
	val, err := th.pop(line)
	if err != nil {
		return err
	}
	idxVal, err := th.pop(line)
	if err != nil {
		return err
	}
	arr, err := th.pop(line)
	if err != nil {
		return err
	}
	if arr.Kind != compiler.KindArray {
		return &Error{Kind: TypeError, Line: line, Msg: "index operator requires an array"}
	}
	idx, err := th.arrayIndex(idxVal, line)
	if err != nil {
		return err
	}
	if idx < 0 {
		idx += len(arr.Elems)
	}
	if idx < 0 || idx >= len(arr.Elems) {
		return &Error{Kind: InvalidOperation, Line: line, Msg: "index out of bounds"}
	}
	out := arr.Clone()
	out.Elems[idx] = val
	return th.push(out, line)
}

func (th *thread) newStruct(n int, line uint32) error {
	namesVal, err := th.pop(line)
	if err != nil {
		return err
	}
	nameVal, err := th.pop(line)
	if err != nil {
		return err
	}
	if namesVal.Kind != compiler.KindArray || nameVal.Kind != compiler.KindString {
		return &Error{Kind: TypeError, Line: line, Msg: "malformed NewStruct operands"}
	}
	fields := make([]compiler.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := th.pop(line)
		if err != nil {
			return err
		}
		fields[i] = v
	}
	names := make([]string, len(namesVal.Elems))
	for i, nv := range namesVal.Elems {
		names[i] = nv.Str
	}
	return th.push(compiler.Struct(nameVal.Str, names, fields), line)
}

func (th *thread) fieldGet(idx int, line uint32) error {
	obj, err := th.pop(line)
	if err != nil {
		return err
	}
	if obj.Kind != compiler.KindStruct {
		return &Error{Kind: TypeError, Line: line, Msg: "field access requires a struct"}
	}
	if idx < 0 || idx >= len(obj.Fields) {
		return &Error{Kind: InvalidOperation, Line: line, Msg: "undefined field"}
	}
	return th.push(obj.Fields[idx], line)
}

func (th *thread) fieldSet(idx int, line uint32) error {
	val, err := th.pop(line)
	if err != nil {
		return err
	}
	obj, err := th.pop(line)
	if err != nil {
		return err
	}
	if obj.Kind != compiler.KindStruct {
		return &Error{Kind: TypeError, Line: line, Msg: "field access requires a struct"}
	}
	if idx < 0 || idx >= len(obj.Fields) {
		return &Error{Kind: InvalidOperation, Line: line, Msg: "undefined field"}
	}
	out := obj.Clone()
	out.Fields[idx] = val
	return th.push(out, line)
}

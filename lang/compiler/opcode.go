// Package compiler lowers a checked AST into a Chunk: a flat instruction
// stream with a constant pool and a parallel per-instruction line table. It
// also defines the data model shared with the virtual machine — OpCode,
// Chunk and Value — so that the VM never imports the AST or checker.
package compiler

// OpCode identifies a single bytecode instruction. Every OpCode is encoded
// as one byte in the instruction stream; the operand count and width are
// fixed per opcode (always a 4-byte little-endian unsigned integer per
// operand), unlike a variable-length (varint) encoding — this keeps the
// disassembler and the VM's fetch loop free of branching on operand size.
type OpCode byte

const (
	OpLoadConst  OpCode = iota // u32 constant index
	OpLoadNull                 // -
	OpLoadLocal                // u32 stack slot
	OpStoreLocal               // u32 stack slot
	OpLoadGlobal               // u32 name constant index
	OpStoreGlobal              // u32 name constant index

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNegate

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpNot
	OpAnd
	OpOr

	OpJump        // u32 absolute offset
	OpJumpIfFalse // u32 absolute offset
	OpJumpIfTrue  // u32 absolute offset
	OpLoop        // u32 absolute offset

	OpCall   // u32 argument count
	OpReturn // -

	OpNewArray // u32 element count
	OpArrayGet
	OpArraySet
	OpArrayLen

	OpNewStruct // u32 field count
	OpFieldGet  // u32 field index
	OpFieldSet  // u32 field index

	OpPop
	OpDup
	OpPrint
	OpHalt

	maxOpCode
)

var opcodeNames = [...]string{
	OpLoadConst:  "LoadConst",
	OpLoadNull:   "LoadNull",
	OpLoadLocal:  "LoadLocal",
	OpStoreLocal: "StoreLocal",
	OpLoadGlobal: "LoadGlobal",

	OpStoreGlobal: "StoreGlobal",
	OpAdd:         "Add",
	OpSub:         "Sub",
	OpMul:         "Mul",
	OpDiv:         "Div",
	OpMod:         "Mod",
	OpNegate:      "Negate",

	OpEq: "Eq",
	OpNe: "Ne",
	OpLt: "Lt",
	OpLe: "Le",
	OpGt: "Gt",
	OpGe: "Ge",

	OpNot: "Not",
	OpAnd: "And",
	OpOr:  "Or",

	OpJump:        "Jump",
	OpJumpIfFalse: "JumpIfFalse",
	OpJumpIfTrue:  "JumpIfTrue",
	OpLoop:        "Loop",

	OpCall:   "Call",
	OpReturn: "Return",

	OpNewArray: "NewArray",
	OpArrayGet: "ArrayGet",
	OpArraySet: "ArraySet",
	OpArrayLen: "ArrayLen",

	OpNewStruct: "NewStruct",
	OpFieldGet:  "FieldGet",
	OpFieldSet:  "FieldSet",

	OpPop:   "Pop",
	OpDup:   "Dup",
	OpPrint: "Print",
	OpHalt:  "Halt",
}

func (op OpCode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) || opcodeNames[op] == "" {
		return "OpCode(?)"
	}
	return opcodeNames[op]
}

// operandCounts reports how many u32 operands follow each opcode in the
// instruction stream.
var operandCounts = [...]int{
	OpLoadConst:  1,
	OpLoadNull:   0,
	OpLoadLocal:  1,
	OpStoreLocal: 1,
	OpLoadGlobal: 1,

	OpStoreGlobal: 1,
	OpAdd:         0,
	OpSub:         0,
	OpMul:         0,
	OpDiv:         0,
	OpMod:         0,
	OpNegate:      0,

	OpEq: 0,
	OpNe: 0,
	OpLt: 0,
	OpLe: 0,
	OpGt: 0,
	OpGe: 0,

	OpNot: 0,
	OpAnd: 0,
	OpOr:  0,

	OpJump:        1,
	OpJumpIfFalse: 1,
	OpJumpIfTrue:  1,
	OpLoop:        1,

	OpCall:   1,
	OpReturn: 0,

	OpNewArray: 1,
	OpArrayGet: 0,
	OpArraySet: 0,
	OpArrayLen: 0,

	OpNewStruct: 1,
	OpFieldGet:  1,
	OpFieldSet:  1,

	OpPop:   0,
	OpDup:   0,
	OpPrint: 0,
	OpHalt:  0,
}

// OperandCount returns the number of u32 operands that follow op in the
// instruction stream.
func (op OpCode) OperandCount() int {
	if int(op) >= len(operandCounts) {
		return 0
	}
	return operandCounts[op]
}

// InstrSize returns the total byte size of op and its operands: 1 for the
// opcode byte plus 4 per operand.
func (op OpCode) InstrSize() int { return 1 + 4*op.OperandCount() }

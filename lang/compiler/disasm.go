package compiler

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Disassemble renders chunk as a human-readable instruction listing: one
// line per instruction with its byte offset, source line, mnemonic and
// decoded operand, preceded by the constant pool. Every Function constant is
// disassembled recursively after the chunk that references it. This backs
// the ZERO_DEBUG=1 trace.
func Disassemble(chunk *Chunk, name string) string {
	var b strings.Builder
	dasmChunk(&b, chunk, name)
	return b.String()
}

func dasmChunk(b *strings.Builder, chunk *Chunk, name string) {
	fmt.Fprintf(b, "== %s ==\n", name)
	if len(chunk.Constants) > 0 {
		fmt.Fprintf(b, "constants:\n")
		for i, c := range chunk.Constants {
			fmt.Fprintf(b, "  %4d %s\n", i, dasmConstant(c))
		}
	}
	fmt.Fprintf(b, "code:\n")
	var nested []*Function
	for off := 0; off < len(chunk.Code); {
		op := OpCode(chunk.Code[off])
		line := chunk.Lines[off]
		if op.OperandCount() == 1 {
			arg := chunk.ReadUint32(off + 1)
			fmt.Fprintf(b, "  %04d %4d %-14s %d\n", off, line, op, arg)
		} else {
			fmt.Fprintf(b, "  %04d %4d %-14s\n", off, line, op)
		}
		off += op.InstrSize()
	}
	for _, c := range chunk.Constants {
		if c.Kind == KindFunction {
			nested = append(nested, c.Fn)
		}
	}
	for _, fn := range nested {
		b.WriteString("\n")
		dasmChunk(b, fn.Chunk, fmt.Sprintf("%s/%d", fn.Name, fn.Arity))
	}
}

// dasmConstant renders a single constant-pool entry: scalars print directly,
// a function prints its name, arity and locals count (its code is listed
// separately), and go-spew pretty-prints the nested structure of arrays and
// structs.
func dasmConstant(v Value) string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("int %d", v.Int)
	case KindFloat:
		return fmt.Sprintf("float %g", v.Float)
	case KindString:
		return fmt.Sprintf("string %q", v.Str)
	case KindChar:
		return fmt.Sprintf("char %q", v.Str)
	case KindBool:
		return fmt.Sprintf("bool %v", v.Bool)
	case KindNull:
		return "null"
	case KindFunction:
		return fmt.Sprintf("function %s/%d (locals=%d)", v.Fn.Name, v.Fn.Arity, v.Fn.LocalsCount)
	case KindArray:
		return "array " + spew.Sdump(v.Elems)
	case KindStruct:
		return fmt.Sprintf("struct %s %s", v.SName, spew.Sdump(v.Fields))
	default:
		return "?"
	}
}

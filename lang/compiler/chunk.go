package compiler

import "encoding/binary"

// Chunk is a flat instruction stream paired with its constant pool and a
// per-instruction source-line table: Code[i] corresponds to Lines[i] for
// the opcode byte that begins instruction i (operand bytes share the
// opcode's line).
type Chunk struct {
	Code      []byte
	Constants []Value
	Lines     []uint32
}

// AddConstant appends v to the pool and returns its index.
func (c *Chunk) AddConstant(v Value) uint32 {
	c.Constants = append(c.Constants, v)
	return uint32(len(c.Constants) - 1)
}

// Emit appends op and its operands to the code stream, recording line for
// every byte written (so Lines stays parallel to Code), and returns the
// byte offset op was written at.
func (c *Chunk) Emit(line uint32, op OpCode, operands ...uint32) int {
	if len(operands) != op.OperandCount() {
		panic("compiler: operand count mismatch for " + op.String())
	}
	offset := len(c.Code)
	c.Code = append(c.Code, byte(op))
	c.Lines = append(c.Lines, line)
	for _, o := range operands {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], o)
		c.Code = append(c.Code, buf[:]...)
		for range buf {
			c.Lines = append(c.Lines, line)
		}
	}
	return offset
}

// PatchOperand overwrites the single u32 operand of the instruction at
// offset with value. Used to back-patch a forward jump once its target
// offset is known.
func (c *Chunk) PatchOperand(offset int, value uint32) {
	binary.LittleEndian.PutUint32(c.Code[offset+1:offset+5], value)
}

// ReadUint32 reads the u32 at byte offset off.
func (c *Chunk) ReadUint32(off int) uint32 {
	return binary.LittleEndian.Uint32(c.Code[off : off+4])
}

// Len returns the current length of the code stream, i.e. the offset the
// next emitted instruction will occupy.
func (c *Chunk) Len() int { return len(c.Code) }

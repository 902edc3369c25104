package compiler

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Bytecode file format (little-endian throughout), per the language's on-disk
// representation: a 4-byte magic, a major/minor version pair, the constant
// pool, the instruction stream, and the parallel line table. Encode/Decode
// are each other's inverse: Disassemble(chunk) == Disassemble(Decode(Encode(chunk))).
var magic = [4]byte{'Z', 'E', 'R', 'O'}

const (
	versionMajor uint16 = 0
	versionMinor uint16 = 1
)

// Value type tags for the on-disk encoding.
const (
	tagInt byte = 1 + iota
	tagFloat
	tagString
	tagBool
	tagArray
	tagFunction
	tagNull
	tagStruct
	tagChar
)

// Encode serializes chunk to the bytecode file format.
func Encode(chunk *Chunk) []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	writeUint16(&buf, versionMajor)
	writeUint16(&buf, versionMinor)
	encodeChunkBody(&buf, chunk)
	return buf.Bytes()
}

// encodeChunkBody writes constants_len, code_len, constants, code and lines,
// without the file-level magic/version header, so it can also encode a
// nested Function's Chunk as part of a Function Value's payload.
func encodeChunkBody(buf *bytes.Buffer, chunk *Chunk) {
	writeUint32(buf, uint32(len(chunk.Constants)))
	writeUint32(buf, uint32(len(chunk.Code)))
	for _, c := range chunk.Constants {
		encodeValue(buf, c)
	}
	buf.Write(chunk.Code)
	for _, l := range chunk.Lines {
		writeUint32(buf, l)
	}
}

func encodeValue(buf *bytes.Buffer, v Value) {
	switch v.Kind {
	case KindInt:
		buf.WriteByte(tagInt)
		writeUint64(buf, uint64(v.Int))
	case KindFloat:
		buf.WriteByte(tagFloat)
		writeUint64(buf, math.Float64bits(v.Float))
	case KindString:
		buf.WriteByte(tagString)
		encodeString32(buf, v.Str)
	case KindBool:
		buf.WriteByte(tagBool)
		if v.Bool {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case KindChar:
		buf.WriteByte(tagChar)
		encodeString8(buf, v.Str)
	case KindNull:
		buf.WriteByte(tagNull)
	case KindArray:
		buf.WriteByte(tagArray)
		writeUint32(buf, uint32(len(v.Elems)))
		for _, e := range v.Elems {
			encodeValue(buf, e)
		}
	case KindStruct:
		buf.WriteByte(tagStruct)
		encodeString32(buf, v.SName)
		writeUint32(buf, uint32(len(v.Fields)))
		for _, n := range v.FNames {
			encodeString32(buf, n)
		}
		for _, f := range v.Fields {
			encodeValue(buf, f)
		}
	case KindFunction:
		buf.WriteByte(tagFunction)
		encodeString32(buf, v.Fn.Name)
		writeUint32(buf, uint32(v.Fn.Arity))
		writeUint32(buf, uint32(v.Fn.LocalsCount))
		encodeChunkBody(buf, v.Fn.Chunk)
	}
}

func encodeString32(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func encodeString8(buf *bytes.Buffer, s string) {
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

// Decode parses the bytecode file format produced by Encode.
func Decode(data []byte) (*Chunk, error) {
	r := &decoder{b: data}
	var got [4]byte
	if !r.read(got[:]) || got != magic {
		return nil, fmt.Errorf("compiler: bad magic %q, want %q", got, magic)
	}
	major := r.uint16()
	minor := r.uint16()
	if r.err != nil {
		return nil, r.err
	}
	if major != versionMajor || minor != versionMinor {
		return nil, fmt.Errorf("compiler: unsupported bytecode version %d.%d", major, minor)
	}
	chunk := r.chunkBody()
	if r.err != nil {
		return nil, r.err
	}
	if len(r.b) != 0 {
		return nil, fmt.Errorf("compiler: %d trailing bytes after chunk", len(r.b))
	}
	return chunk, nil
}

type decoder struct {
	b   []byte
	err error
}

func (d *decoder) read(p []byte) bool {
	if d.err != nil {
		return false
	}
	if len(d.b) < len(p) {
		d.err = io.ErrUnexpectedEOF
		return false
	}
	copy(p, d.b[:len(p)])
	d.b = d.b[len(p):]
	return true
}

func (d *decoder) byte() byte {
	var b [1]byte
	d.read(b[:])
	return b[0]
}

func (d *decoder) uint16() uint16 {
	var b [2]byte
	if !d.read(b[:]) {
		return 0
	}
	return binary.LittleEndian.Uint16(b[:])
}

func (d *decoder) uint32() uint32 {
	var b [4]byte
	if !d.read(b[:]) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}

func (d *decoder) uint64() uint64 {
	var b [8]byte
	if !d.read(b[:]) {
		return 0
	}
	return binary.LittleEndian.Uint64(b[:])
}

func (d *decoder) string32() string {
	n := d.uint32()
	if d.err != nil || n == 0 {
		return ""
	}
	b := make([]byte, n)
	d.read(b)
	return string(b)
}

func (d *decoder) string8() string {
	n := int(d.byte())
	if d.err != nil || n == 0 {
		return ""
	}
	b := make([]byte, n)
	d.read(b)
	return string(b)
}

func (d *decoder) chunkBody() *Chunk {
	nconsts := d.uint32()
	ncode := d.uint32()
	if d.err != nil {
		return nil
	}
	chunk := &Chunk{
		Constants: make([]Value, nconsts),
		Code:      make([]byte, ncode),
		Lines:     make([]uint32, ncode),
	}
	for i := range chunk.Constants {
		chunk.Constants[i] = d.value()
	}
	d.read(chunk.Code)
	for i := range chunk.Lines {
		chunk.Lines[i] = d.uint32()
	}
	return chunk
}

func (d *decoder) value() Value {
	if d.err != nil {
		return Value{}
	}
	tag := d.byte()
	switch tag {
	case tagInt:
		return Int(int64(d.uint64()))
	case tagFloat:
		return Float(math.Float64frombits(d.uint64()))
	case tagString:
		return String(d.string32())
	case tagBool:
		return Bool(d.byte() != 0)
	case tagChar:
		return Char(d.string8())
	case tagNull:
		return Null()
	case tagArray:
		n := d.uint32()
		elems := make([]Value, n)
		for i := range elems {
			elems[i] = d.value()
		}
		return Array(elems)
	case tagStruct:
		name := d.string32()
		n := d.uint32()
		names := make([]string, n)
		for i := range names {
			names[i] = d.string32()
		}
		fields := make([]Value, n)
		for i := range fields {
			fields[i] = d.value()
		}
		return Struct(name, names, fields)
	case tagFunction:
		name := d.string32()
		arity := d.uint32()
		locals := d.uint32()
		body := d.chunkBody()
		return FnValue(&Function{Name: name, Arity: int(arity), LocalsCount: int(locals), Chunk: body})
	default:
		if d.err == nil {
			d.err = fmt.Errorf("compiler: unknown value tag 0x%02x", tag)
		}
		return Value{}
	}
}

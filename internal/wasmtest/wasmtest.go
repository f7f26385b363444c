// Package wasmtest builds binary modules in memory for tests.
package wasmtest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Section IDs.
const (
	SectionCustom   byte = 0
	SectionType     byte = 1
	SectionFunction byte = 3
	SectionTable    byte = 4
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionStart    byte = 8
	SectionCode     byte = 10
	SectionData     byte = 11
)

// Value types.
const (
	I32     byte = 0x7F
	I64     byte = 0x7E
	F32     byte = 0x7D
	F64     byte = 0x7C
	V128    byte = 0x7B
	FuncRef byte = 0x70
)

// Opcodes used by initializer expressions.
const (
	OpUnreachable byte = 0x00
	OpNop         byte = 0x01
	OpEnd         byte = 0x0B
	OpDrop        byte = 0x1A
	OpLocalGet    byte = 0x20
	OpGlobalGet   byte = 0x23
	OpGlobalSet   byte = 0x24
	OpI32Const    byte = 0x41
	OpI64Const    byte = 0x42
	OpF32Const    byte = 0x43
	OpF64Const    byte = 0x44
	OpI32Add      byte = 0x6A
)

// Writer accumulates binary encodings.
type Writer struct {
	buf bytes.Buffer
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Byte writes a single byte.
func (w *Writer) Byte(b ...byte) {
	w.buf.Write(b)
}

// WriteU32 writes an unsigned LEB128 encoded uint32.
func (w *Writer) WriteU32(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// WriteS64 writes a signed LEB128 encoded int64.
func (w *Writer) WriteS64(v int64) {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && (b&0x40) == 0) || (v == -1 && (b&0x40) != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.buf.WriteByte(b)
	}
}

// WriteU32LE writes a little-endian uint32.
func (w *Writer) WriteU32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteName writes a length-prefixed name.
func (w *Writer) WriteName(s string) {
	w.WriteU32(uint32(len(s)))
	w.buf.WriteString(s)
}

// U32 returns the LEB128 encoding of v.
func U32(v uint32) []byte {
	var w Writer
	w.WriteU32(v)
	return w.Bytes()
}

// I32Const encodes i32.const v.
func I32Const(v int32) []byte {
	var w Writer
	w.Byte(OpI32Const)
	w.WriteS64(int64(v))
	return w.Bytes()
}

// I64Const encodes i64.const v.
func I64Const(v int64) []byte {
	var w Writer
	w.Byte(OpI64Const)
	w.WriteS64(v)
	return w.Bytes()
}

// F32Const encodes f32.const v.
func F32Const(v float32) []byte {
	var w Writer
	w.Byte(OpF32Const)
	w.WriteU32LE(math.Float32bits(v))
	return w.Bytes()
}

// F64Const encodes f64.const v.
func F64Const(v float64) []byte {
	var w Writer
	w.Byte(OpF64Const)
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.Byte(b[:]...)
	return w.Bytes()
}

// GlobalGet encodes global.get idx.
func GlobalGet(idx uint32) []byte {
	return append([]byte{OpGlobalGet}, U32(idx)...)
}

// Expr concatenates operator encodings and appends end.
func Expr(ops ...[]byte) []byte {
	var out []byte
	for _, op := range ops {
		out = append(out, op...)
	}
	return append(out, OpEnd)
}

// Global is one global section entry. Init must include its end opcode.
type Global struct {
	Init    []byte
	Type    byte
	Mutable bool
}

// Module assembles sections in call order behind a valid header.
type Module struct {
	sections []section
}

type section struct {
	payload []byte
	id      byte
}

// NewModule starts an empty module.
func NewModule() *Module {
	return &Module{}
}

// Header returns the eight byte preamble.
func Header() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
}

// Section appends a raw section.
func (m *Module) Section(id byte, payload []byte) *Module {
	m.sections = append(m.sections, section{id: id, payload: payload})
	return m
}

// Custom appends a custom section.
func (m *Module) Custom(name string, data []byte) *Module {
	var w Writer
	w.WriteName(name)
	w.Byte(data...)
	return m.Section(SectionCustom, w.Bytes())
}

// Globals appends a global section.
func (m *Module) Globals(globals ...Global) *Module {
	var w Writer
	w.WriteU32(uint32(len(globals)))
	for _, g := range globals {
		w.Byte(g.Type)
		if g.Mutable {
			w.Byte(1)
		} else {
			w.Byte(0)
		}
		w.Byte(g.Init...)
	}
	return m.Section(SectionGlobal, w.Bytes())
}

// Table appends a table section with one funcref table of min elements.
func (m *Module) Table(min uint32) *Module {
	var w Writer
	w.WriteU32(1)
	w.Byte(FuncRef, 0x00)
	w.WriteU32(min)
	return m.Section(SectionTable, w.Bytes())
}

// Memory appends a memory section with one memory of min pages.
func (m *Module) Memory(min uint32) *Module {
	var w Writer
	w.WriteU32(1)
	w.Byte(0x00)
	w.WriteU32(min)
	return m.Section(SectionMemory, w.Bytes())
}

// Start appends a start section.
func (m *Module) Start(fn uint32) *Module {
	return m.Section(SectionStart, U32(fn))
}

// Bytes encodes the module.
func (m *Module) Bytes() []byte {
	var w Writer
	w.Byte(Header()...)
	for _, s := range m.sections {
		w.Byte(s.id)
		w.WriteU32(uint32(len(s.payload)))
		w.Byte(s.payload...)
	}
	return w.Bytes()
}

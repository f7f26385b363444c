package wasm

import (
	"fmt"

	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/wasm/internal/binary"
)

// Operator is one decoded instruction. Imm holds one of the *Imm types
// below, or nil for operators without immediates.
type Operator struct {
	Imm    any
	Offset int
	// Sub is the sub-opcode for the 0xFC and 0xFD prefixed families.
	Sub    uint32
	Opcode byte
}

// BlockImm holds the block type for block, loop and if.
type BlockImm struct {
	Type int64 // -64=void, -1=i32, -2=i64, -3=f32, -4=f64, -5=v128, >=0=type index
}

// BranchImm holds the label index for br and br_if.
type BranchImm struct {
	LabelIdx uint32
}

// BrTableImm holds the label table for br_table.
type BrTableImm struct {
	Labels  []uint32
	Default uint32
}

// CallImm holds the function index for call.
type CallImm struct {
	FuncIdx uint32
}

// CallIndirectImm holds type and table indices for call_indirect.
type CallIndirectImm struct {
	TypeIdx  uint32
	TableIdx uint32
}

// LocalImm holds the local index for local.get, local.set, local.tee.
type LocalImm struct {
	LocalIdx uint32
}

// GlobalImm holds the global index for global.get and global.set.
type GlobalImm struct {
	GlobalIdx uint32
}

// TableImm holds the table index for table.get and table.set.
type TableImm struct {
	TableIdx uint32
}

// MemoryImm holds memory access parameters for load and store instructions.
type MemoryImm struct {
	Offset uint64
	Align  uint32
	MemIdx uint32
}

// MemoryIdxImm holds the memory index for memory.size and memory.grow.
type MemoryIdxImm struct {
	MemIdx uint32
}

// I32Imm holds the constant value for i32.const.
type I32Imm struct {
	Value int32
}

// I64Imm holds the constant value for i64.const.
type I64Imm struct {
	Value int64
}

// F32Imm holds the constant value for f32.const.
type F32Imm struct {
	Value float32
}

// F64Imm holds the constant value for f64.const.
type F64Imm struct {
	Value float64
}

// V128Imm holds the constant value for v128.const.
type V128Imm struct {
	Bytes [16]byte
}

// RefNullImm holds the heap type for ref.null.
type RefNullImm struct {
	HeapType int64
}

// RefFuncImm holds the function index for ref.func.
type RefFuncImm struct {
	FuncIdx uint32
}

// SelectTypeImm holds the result types for typed select.
type SelectTypeImm struct {
	Types []ValType
}

var controlNames = map[byte]string{
	OpUnreachable:  "unreachable",
	OpNop:          "nop",
	OpBlock:        "block",
	OpLoop:         "loop",
	OpIf:           "if",
	OpElse:         "else",
	OpEnd:          "end",
	OpBr:           "br",
	OpBrIf:         "br_if",
	OpBrTable:      "br_table",
	OpReturn:       "return",
	OpCall:         "call",
	OpCallIndirect: "call_indirect",
	OpDrop:         "drop",
	OpSelect:       "select",
	OpSelectType:   "select",
	OpLocalGet:     "local.get",
	OpLocalSet:     "local.set",
	OpLocalTee:     "local.tee",
	OpGlobalGet:    "global.get",
	OpGlobalSet:    "global.set",
	OpTableGet:     "table.get",
	OpTableSet:     "table.set",
	OpMemorySize:   "memory.size",
	OpMemoryGrow:   "memory.grow",
	OpI32Const:     "i32.const",
	OpI64Const:     "i64.const",
	OpF32Const:     "f32.const",
	OpF64Const:     "f64.const",
	OpRefNull:      "ref.null",
	OpRefIsNull:    "ref.is_null",
	OpRefFunc:      "ref.func",
}

// indexed by opcode - OpI32Load
var memoryNames = [...]string{
	"i32.load", "i64.load", "f32.load", "f64.load",
	"i32.load8_s", "i32.load8_u", "i32.load16_s", "i32.load16_u",
	"i64.load8_s", "i64.load8_u", "i64.load16_s", "i64.load16_u", "i64.load32_s", "i64.load32_u",
	"i32.store", "i64.store", "f32.store", "f64.store",
	"i32.store8", "i32.store16", "i64.store8", "i64.store16", "i64.store32",
}

// indexed by opcode - OpI32Eqz
var numericNames = [...]string{
	"i32.eqz", "i32.eq", "i32.ne", "i32.lt_s", "i32.lt_u", "i32.gt_s", "i32.gt_u", "i32.le_s", "i32.le_u", "i32.ge_s", "i32.ge_u",
	"i64.eqz", "i64.eq", "i64.ne", "i64.lt_s", "i64.lt_u", "i64.gt_s", "i64.gt_u", "i64.le_s", "i64.le_u", "i64.ge_s", "i64.ge_u",
	"f32.eq", "f32.ne", "f32.lt", "f32.gt", "f32.le", "f32.ge",
	"f64.eq", "f64.ne", "f64.lt", "f64.gt", "f64.le", "f64.ge",
	"i32.clz", "i32.ctz", "i32.popcnt", "i32.add", "i32.sub", "i32.mul", "i32.div_s", "i32.div_u", "i32.rem_s", "i32.rem_u",
	"i32.and", "i32.or", "i32.xor", "i32.shl", "i32.shr_s", "i32.shr_u", "i32.rotl", "i32.rotr",
	"i64.clz", "i64.ctz", "i64.popcnt", "i64.add", "i64.sub", "i64.mul", "i64.div_s", "i64.div_u", "i64.rem_s", "i64.rem_u",
	"i64.and", "i64.or", "i64.xor", "i64.shl", "i64.shr_s", "i64.shr_u", "i64.rotl", "i64.rotr",
	"f32.abs", "f32.neg", "f32.ceil", "f32.floor", "f32.trunc", "f32.nearest", "f32.sqrt",
	"f32.add", "f32.sub", "f32.mul", "f32.div", "f32.min", "f32.max", "f32.copysign",
	"f64.abs", "f64.neg", "f64.ceil", "f64.floor", "f64.trunc", "f64.nearest", "f64.sqrt",
	"f64.add", "f64.sub", "f64.mul", "f64.div", "f64.min", "f64.max", "f64.copysign",
	"i32.wrap_i64", "i32.trunc_f32_s", "i32.trunc_f32_u", "i32.trunc_f64_s", "i32.trunc_f64_u",
	"i64.extend_i32_s", "i64.extend_i32_u", "i64.trunc_f32_s", "i64.trunc_f32_u", "i64.trunc_f64_s", "i64.trunc_f64_u",
	"f32.convert_i32_s", "f32.convert_i32_u", "f32.convert_i64_s", "f32.convert_i64_u", "f32.demote_f64",
	"f64.convert_i32_s", "f64.convert_i32_u", "f64.convert_i64_s", "f64.convert_i64_u", "f64.promote_f32",
	"i32.reinterpret_f32", "i64.reinterpret_f64", "f32.reinterpret_i32", "f64.reinterpret_i64",
	"i32.extend8_s", "i32.extend16_s", "i64.extend8_s", "i64.extend16_s", "i64.extend32_s",
}

var miscNames = [...]string{
	"i32.trunc_sat_f32_s", "i32.trunc_sat_f32_u", "i32.trunc_sat_f64_s", "i32.trunc_sat_f64_u",
	"i64.trunc_sat_f32_s", "i64.trunc_sat_f32_u", "i64.trunc_sat_f64_s", "i64.trunc_sat_f64_u",
}

// Name returns the operator's text-format mnemonic.
func (o Operator) Name() string {
	switch {
	case o.Opcode == OpPrefixMisc:
		if o.Sub <= MiscI64TruncSatF64U {
			return miscNames[o.Sub]
		}
		return fmt.Sprintf("0xfc %d", o.Sub)
	case o.Opcode == OpPrefixSIMD:
		if o.Sub == SIMDV128Const {
			return "v128.const"
		}
		return fmt.Sprintf("0xfd %d", o.Sub)
	case o.Opcode >= OpI32Load && o.Opcode <= OpI64Store32:
		return memoryNames[o.Opcode-OpI32Load]
	case o.Opcode >= OpI32Eqz && o.Opcode <= OpI64Extend32S:
		return numericNames[o.Opcode-OpI32Eqz]
	}
	if name, ok := controlNames[o.Opcode]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", o.Opcode)
}

func (o Operator) String() string {
	switch imm := o.Imm.(type) {
	case I32Imm:
		return fmt.Sprintf("%s %d", o.Name(), imm.Value)
	case I64Imm:
		return fmt.Sprintf("%s %d", o.Name(), imm.Value)
	case F32Imm:
		return fmt.Sprintf("%s %v", o.Name(), imm.Value)
	case F64Imm:
		return fmt.Sprintf("%s %v", o.Name(), imm.Value)
	case GlobalImm:
		return fmt.Sprintf("%s %d", o.Name(), imm.GlobalIdx)
	case LocalImm:
		return fmt.Sprintf("%s %d", o.Name(), imm.LocalIdx)
	case CallImm:
		return fmt.Sprintf("%s %d", o.Name(), imm.FuncIdx)
	case RefFuncImm:
		return fmt.Sprintf("%s %d", o.Name(), imm.FuncIdx)
	}
	return o.Name()
}

// OperatorReader decodes a stream of operators from borrowed bytes.
type OperatorReader struct {
	r *binary.Reader
}

// NewOperatorReader creates a reader over data, whose first byte sits at
// absolute offset offset.
func NewOperatorReader(data []byte, offset int) *OperatorReader {
	return &OperatorReader{r: binary.NewReader(data, offset)}
}

// Done reports whether every byte has been consumed.
func (o *OperatorReader) Done() bool {
	return o.r.Len() == 0
}

// Offset returns the absolute offset of the next operator.
func (o *OperatorReader) Offset() int {
	return o.r.Position()
}

// Next decodes one operator.
func (o *OperatorReader) Next() (Operator, error) {
	start := o.r.Position()
	op, err := o.next(start)
	if err != nil {
		if _, ok := errors.KindOf(err); ok {
			return Operator{}, err
		}
		return Operator{}, errors.Decode(o.r.Position(), fmt.Sprintf("operator at offset %d", start), err)
	}
	return op, nil
}

func (o *OperatorReader) next(start int) (Operator, error) {
	r := o.r
	opcode, err := r.ReadByte()
	if err != nil {
		return Operator{}, err
	}
	op := Operator{Opcode: opcode, Offset: start}

	switch {
	case opcode >= OpI32Load && opcode <= OpI64Store32:
		imm, err := readMemArg(r)
		if err != nil {
			return Operator{}, err
		}
		op.Imm = imm
		return op, nil
	case opcode >= OpI32Eqz && opcode <= OpI64Extend32S:
		return op, nil
	}

	switch opcode {
	case OpUnreachable, OpNop, OpElse, OpEnd, OpReturn, OpDrop, OpSelect, OpRefIsNull:

	case OpBlock, OpLoop, OpIf:
		bt, err := r.ReadS33()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = BlockImm{Type: bt}

	case OpBr, OpBrIf:
		idx, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = BranchImm{LabelIdx: idx}

	case OpBrTable:
		count, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		if int64(count) > int64(r.Len()) {
			return Operator{}, errors.Decode(r.Position(), fmt.Sprintf("br_table declares %d labels in %d bytes", count, r.Len()), nil)
		}
		labels := make([]uint32, count)
		for i := range labels {
			if labels[i], err = r.ReadU32(); err != nil {
				return Operator{}, err
			}
		}
		def, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = BrTableImm{Labels: labels, Default: def}

	case OpCall:
		idx, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = CallImm{FuncIdx: idx}

	case OpCallIndirect:
		typeIdx, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		tableIdx, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = CallIndirectImm{TypeIdx: typeIdx, TableIdx: tableIdx}

	case OpSelectType:
		count, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		if int64(count) > int64(r.Len()) {
			return Operator{}, errors.Decode(r.Position(), fmt.Sprintf("select declares %d types in %d bytes", count, r.Len()), nil)
		}
		types := make([]ValType, count)
		for i := range types {
			b, err := r.ReadByte()
			if err != nil {
				return Operator{}, err
			}
			types[i] = ValType(b)
		}
		op.Imm = SelectTypeImm{Types: types}

	case OpLocalGet, OpLocalSet, OpLocalTee:
		idx, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = LocalImm{LocalIdx: idx}

	case OpGlobalGet, OpGlobalSet:
		idx, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = GlobalImm{GlobalIdx: idx}

	case OpTableGet, OpTableSet:
		idx, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = TableImm{TableIdx: idx}

	case OpMemorySize, OpMemoryGrow:
		idx, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = MemoryIdxImm{MemIdx: idx}

	case OpI32Const:
		v, err := r.ReadS32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = I32Imm{Value: v}

	case OpI64Const:
		v, err := r.ReadS64()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = I64Imm{Value: v}

	case OpF32Const:
		v, err := r.ReadF32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = F32Imm{Value: v}

	case OpF64Const:
		v, err := r.ReadF64()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = F64Imm{Value: v}

	case OpRefNull:
		ht, err := r.ReadS33()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = RefNullImm{HeapType: ht}

	case OpRefFunc:
		idx, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		op.Imm = RefFuncImm{FuncIdx: idx}

	case OpPrefixMisc:
		sub, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		if sub > MiscI64TruncSatF64U {
			return Operator{}, unknownOpcode(start, fmt.Sprintf("0xfc %d", sub))
		}
		op.Sub = sub

	case OpPrefixSIMD:
		sub, err := r.ReadU32()
		if err != nil {
			return Operator{}, err
		}
		if sub != SIMDV128Const {
			return Operator{}, unknownOpcode(start, fmt.Sprintf("0xfd %d", sub))
		}
		b, err := r.ReadBytes(16)
		if err != nil {
			return Operator{}, err
		}
		var imm V128Imm
		copy(imm.Bytes[:], b)
		op.Sub = sub
		op.Imm = imm

	default:
		return Operator{}, unknownOpcode(start, fmt.Sprintf("0x%02x", opcode))
	}
	return op, nil
}

func unknownOpcode(offset int, name string) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Offset(offset).
		Value(name).
		Detail("unknown opcode %s", name).
		Build()
}

func readMemArg(r *binary.Reader) (MemoryImm, error) {
	alignRaw, err := r.ReadU32()
	if err != nil {
		return MemoryImm{}, err
	}

	var memIdx uint32
	if alignRaw&memArgMultiMemBit != 0 {
		memIdx, err = r.ReadU32()
		if err != nil {
			return MemoryImm{}, err
		}
	}

	offset, err := r.ReadU64()
	if err != nil {
		return MemoryImm{}, err
	}

	return MemoryImm{
		Align:  alignRaw &^ uint32(memArgMultiMemBit),
		Offset: offset,
		MemIdx: memIdx,
	}, nil
}

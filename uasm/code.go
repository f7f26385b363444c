package uasm

import (
	"fmt"
)

// Opcode is a target instruction opcode.
type Opcode int

const (
	OpNop Opcode = iota
	OpPush
	OpPop
	OpJump
	OpJumpIfFalse
	OpJumpIndirect
	OpCopy
	OpExtern
	// OpAnnotation marks a value in the IR. It has no text form.
	OpAnnotation
)

var opcodeNames = [...]string{
	OpNop:          "NOP",
	OpPush:         "PUSH",
	OpPop:          "POP",
	OpJump:         "JUMP",
	OpJumpIfFalse:  "JUMP_IF_FALSE",
	OpJumpIndirect: "JUMP_INDIRECT",
	OpCopy:         "COPY",
	OpExtern:       "EXTERN",
	OpAnnotation:   "ANNOTATION",
}

func (o Opcode) String() string {
	if o >= 0 && int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return fmt.Sprintf("Opcode(%d)", int(o))
}

// HaltAddress is the jump target that stops the program.
const HaltAddress uint32 = 0xFFFFFFFC

// Instruction is one opcode with its operand folded in.
type Instruction struct {
	// Value is set for annotations only.
	Value   *Literal
	Operand string
	Op      Opcode
}

// Nop returns NOP.
func Nop() Instruction { return Instruction{Op: OpNop} }

// Push returns PUSH,<name>.
func Push(name string) Instruction { return Instruction{Op: OpPush, Operand: name} }

// Pop returns POP.
func Pop() Instruction { return Instruction{Op: OpPop} }

// Jump returns JUMP,<label>.
func Jump(label Label) Instruction { return Instruction{Op: OpJump, Operand: string(label)} }

// JumpAddr returns JUMP to an absolute address.
func JumpAddr(addr uint32) Instruction {
	return Instruction{Op: OpJump, Operand: fmt.Sprintf("0x%08X", addr)}
}

// JumpIfFalse returns JUMP_IF_FALSE,<label>.
func JumpIfFalse(label Label) Instruction {
	return Instruction{Op: OpJumpIfFalse, Operand: string(label)}
}

// JumpIndirect returns JUMP_INDIRECT,<name>.
func JumpIndirect(name string) Instruction {
	return Instruction{Op: OpJumpIndirect, Operand: name}
}

// Copy returns COPY.
func Copy() Instruction { return Instruction{Op: OpCopy} }

// Extern returns EXTERN,"<symbol>".
func Extern(symbol string) Instruction { return Instruction{Op: OpExtern, Operand: symbol} }

// Annotation returns an annotation carrying lit.
func Annotation(lit Literal) Instruction {
	return Instruction{Op: OpAnnotation, Value: &lit}
}

func (i Instruction) String() string {
	switch i.Op {
	case OpNop, OpPop, OpCopy:
		return i.Op.String()
	case OpExtern:
		return fmt.Sprintf("%s,%q", i.Op, i.Operand)
	case OpAnnotation:
		if i.Value != nil {
			return fmt.Sprintf("%s(%s)", i.Op, i.Value.Text)
		}
		return i.Op.String()
	}
	return i.Op.String() + "," + i.Operand
}

// Label names a code block.
type Label string

// Block is an ordered list of instructions.
type Block struct {
	instrs []Instruction
}

// NewBlock creates a block holding instrs.
func NewBlock(instrs ...Instruction) *Block {
	return &Block{instrs: append([]Instruction(nil), instrs...)}
}

// Push appends an instruction.
func (b *Block) Push(i Instruction) {
	b.instrs = append(b.instrs, i)
}

// Instructions returns the block's instructions. The slice must not be
// modified.
func (b *Block) Instructions() []Instruction {
	return b.instrs
}

// Len returns the number of instructions.
func (b *Block) Len() int {
	return len(b.instrs)
}

// CodeMap maps labels to blocks and remembers first-insertion order.
type CodeMap struct {
	blocks map[Label]*Block
	order  []Label
}

// NewCodeMap creates an empty code map.
func NewCodeMap() *CodeMap {
	return &CodeMap{blocks: make(map[Label]*Block)}
}

// SetBlock inserts or replaces the block under label. A replaced label
// keeps its position.
func (m *CodeMap) SetBlock(label Label, b *Block) {
	if _, ok := m.blocks[label]; !ok {
		m.order = append(m.order, label)
	}
	m.blocks[label] = b
}

// Block returns the block under label.
func (m *CodeMap) Block(label Label) (*Block, bool) {
	b, ok := m.blocks[label]
	return b, ok
}

// Labels returns labels in first-insertion order. The slice must not be
// modified.
func (m *CodeMap) Labels() []Label {
	return m.order
}

// Len returns the number of labels.
func (m *CodeMap) Len() int {
	return len(m.order)
}

// Merge sets every block of other into m, in other's order.
func (m *CodeMap) Merge(other *CodeMap) {
	if other == nil {
		return
	}
	for _, l := range other.order {
		m.SetBlock(l, other.blocks[l])
	}
}

func (m *CodeMap) clone() *CodeMap {
	c := NewCodeMap()
	c.Merge(m)
	return c
}

// CodeSection is a code map with its export flag. Exported sections emit
// an export directive per label.
type CodeSection struct {
	Code     *CodeMap
	Exported bool
}

// NewCodeSection creates a code section.
func NewCodeSection(exported bool, code *CodeMap) *CodeSection {
	if code == nil {
		code = NewCodeMap()
	}
	return &CodeSection{Exported: exported, Code: code}
}

package translate

import (
	"fmt"

	"github.com/willf/bitset"

	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/uasm"
	"github.com/wippyai/wasm-uasm/wasm"
)

// globalEnv tracks the globals declared so far in a global section.
type globalEnv struct {
	mutable bitset.BitSet
	types   []uasm.Type
}

func (e *globalEnv) declare(typ uasm.Type, mutable bool) {
	if mutable {
		e.mutable.Set(uint(len(e.types)))
	}
	e.types = append(e.types, typ)
}

// stackValue is an entry of the simulated target stack: a variable pushed
// by an instruction or a literal carried by an annotation.
type stackValue struct {
	lit  *uasm.Literal
	name string
	typ  uasm.Type
}

// lower interprets the initializer of global index, named self and of
// type typ. A constant result becomes the declaration's initial value and
// leaves the block empty. A variable result is copied into self by the
// block. Annotations never reach the block.
func (e *globalEnv) lower(index uint32, self string, typ uasm.Type, expr wasm.ConstExpr) (*uasm.Block, *uasm.Literal, error) {
	block := uasm.NewBlock()
	var stack []stackValue

	ops := expr.Operators()
	for !ops.Done() {
		op, err := ops.Next()
		if err != nil {
			return nil, nil, err
		}

		var ref stackValue
		if op.Opcode == wasm.OpGlobalGet {
			if ref, err = e.reference(index, op); err != nil {
				return nil, nil, err
			}
		}

		instrs, err := InterpretOperator(op, ModuleScope)
		if err != nil {
			return nil, nil, err
		}

		for _, ins := range instrs {
			switch ins.Op {
			case uasm.OpAnnotation:
				stack = append(stack, stackValue{lit: ins.Value, typ: ins.Value.Type})
				continue
			case uasm.OpPush:
				if op.Opcode == wasm.OpGlobalGet {
					ref.name = ins.Operand
					stack = append(stack, ref)
				} else {
					stack = append(stack, stackValue{name: ins.Operand})
				}
			case uasm.OpPop:
				if len(stack) == 0 {
					return nil, nil, stackError(op, "stack underflow")
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.lit != nil {
					// the literal was never pushed
					continue
				}
			case uasm.OpCopy:
				if len(stack) < 2 {
					return nil, nil, stackError(op, "stack underflow")
				}
				if stack[len(stack)-2].lit != nil {
					return nil, nil, stackError(op, "constant cannot be copied into a variable")
				}
				stack = stack[:len(stack)-2]
			}
			block.Push(ins)
		}
	}

	if len(stack) != 1 {
		return nil, nil, errors.Decode(expr.Offset, fmt.Sprintf("initializer leaves %d values, want 1", len(stack)), nil)
	}
	top := stack[0]
	if top.lit == nil && top.name == "" {
		return nil, nil, errors.Internal(errors.PhaseInterpret, "initializer of global %d leaves an untyped value", index)
	}
	if top.typ != typ {
		return nil, nil, errors.Decode(expr.Offset,
			fmt.Sprintf("initializer produces %s, global is %s", top.typ, typ), nil)
	}
	if top.lit != nil {
		return block, top.lit, nil
	}
	block.Push(uasm.Push(self))
	block.Push(uasm.Copy())
	return block, nil, nil
}

// reference validates a global.get inside the initializer of global index
// and returns the stack value it produces.
func (e *globalEnv) reference(index uint32, op wasm.Operator) (stackValue, error) {
	imm, ok := op.Imm.(wasm.GlobalImm)
	if !ok {
		return stackValue{}, badImmediate(op)
	}
	ref := imm.GlobalIdx
	if ref >= index || int(ref) >= len(e.types) {
		return stackValue{}, errors.Decode(op.Offset,
			fmt.Sprintf("global.get %d in initializer of global %d must reference an earlier global", ref, index), nil)
	}
	if e.mutable.Test(uint(ref)) {
		return stackValue{}, errors.Decode(op.Offset,
			fmt.Sprintf("global.get %d in initializer reads a mutable global", ref), nil)
	}
	return stackValue{typ: e.types[ref]}, nil
}

func stackError(op wasm.Operator, detail string) error {
	return errors.Decode(op.Offset, fmt.Sprintf("%s at %s", detail, op.Name()), nil)
}

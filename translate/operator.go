package translate

import (
	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/mangle"
	"github.com/wippyai/wasm-uasm/uasm"
	"github.com/wippyai/wasm-uasm/wasm"
)

// Scope is the context an operator is interpreted in. Locals exist only
// inside a function.
type Scope struct {
	FuncName   string
	InFunction bool
}

// ModuleScope is the scope of initializer expressions.
var ModuleScope = Scope{}

// FunctionScope returns the scope of the named function's body.
func FunctionScope(name string) Scope {
	return Scope{FuncName: name, InFunction: true}
}

// InterpretOperator maps one source operator to its target instructions.
// Operators without a mapping fail with an unsupported instruction error.
// Constants become annotations carrying their literal.
func InterpretOperator(op wasm.Operator, scope Scope) ([]uasm.Instruction, error) {
	switch op.Opcode {
	case wasm.OpNop:
		return []uasm.Instruction{uasm.Nop()}, nil

	case wasm.OpEnd:
		return nil, nil

	case wasm.OpDrop:
		return []uasm.Instruction{uasm.Pop()}, nil

	case wasm.OpUnreachable:
		return []uasm.Instruction{uasm.JumpAddr(uasm.HaltAddress)}, nil

	case wasm.OpGlobalGet, wasm.OpGlobalSet:
		imm, ok := op.Imm.(wasm.GlobalImm)
		if !ok {
			return nil, badImmediate(op)
		}
		name := mangle.Mangle(mangle.Global{Index: imm.GlobalIdx})
		if op.Opcode == wasm.OpGlobalGet {
			return []uasm.Instruction{uasm.Push(name)}, nil
		}
		return []uasm.Instruction{uasm.Push(name), uasm.Copy()}, nil

	case wasm.OpLocalGet, wasm.OpLocalSet, wasm.OpLocalTee:
		if !scope.InFunction {
			return nil, errors.UnsupportedInstruction(op.Name(), op.Offset)
		}
		imm, ok := op.Imm.(wasm.LocalImm)
		if !ok {
			return nil, badImmediate(op)
		}
		name := mangle.Mangle(mangle.Local{FuncName: scope.FuncName, Index: imm.LocalIdx})
		switch op.Opcode {
		case wasm.OpLocalGet:
			return []uasm.Instruction{uasm.Push(name)}, nil
		case wasm.OpLocalSet:
			return []uasm.Instruction{uasm.Push(name), uasm.Copy()}, nil
		default:
			return []uasm.Instruction{uasm.Push(name), uasm.Copy(), uasm.Push(name)}, nil
		}

	case wasm.OpI32Const, wasm.OpI64Const, wasm.OpF32Const, wasm.OpF64Const:
		lit, ok := constLiteral(op)
		if !ok {
			return nil, badImmediate(op)
		}
		return []uasm.Instruction{uasm.Annotation(lit)}, nil
	}
	return nil, errors.UnsupportedInstruction(op.Name(), op.Offset)
}

func constLiteral(op wasm.Operator) (uasm.Literal, bool) {
	switch imm := op.Imm.(type) {
	case wasm.I32Imm:
		return uasm.Int32(imm.Value), true
	case wasm.I64Imm:
		return uasm.Int64(imm.Value), true
	case wasm.F32Imm:
		return uasm.Single(imm.Value), true
	case wasm.F64Imm:
		return uasm.Double(imm.Value), true
	}
	return uasm.Literal{}, false
}

func badImmediate(op wasm.Operator) error {
	return errors.New(errors.PhaseInterpret, errors.KindInternal).
		Offset(op.Offset).
		Value(op.Imm).
		Detail("%s carries immediate %T", op.Name(), op.Imm).
		Build()
}

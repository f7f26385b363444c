package uasm

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/wasm-uasm/errors"
)

const (
	declIndent  = "    "
	instrIndent = "        "
)

// Render returns the assembly text of p. The output depends only on p's
// content, so rendering the same program twice yields identical text.
func Render(p *Program) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteTo renders p into w. Nothing is written when rendering fails.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := render(&buf, p); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

func render(buf *bytes.Buffer, p *Program) error {
	if p == nil {
		return nil
	}
	if p.Data != nil {
		buf.WriteString(".data_start\n")
		for i, d := range p.Data.decls {
			if err := renderDecl(buf, d); err != nil {
				return errors.New(errors.PhaseCodegen, errors.KindInternal).
					Path("data", fmt.Sprint(i)).
					Cause(err).
					Detail("declaration %s", d.Variable.Name).
					Build()
			}
		}
		buf.WriteString(".data_end\n")
	}
	if p.Code != nil {
		buf.WriteString(".code_start\n")
		if m := p.Code.Code; m != nil {
			for _, label := range m.order {
				if p.Code.Exported {
					buf.WriteString(declIndent + ".export " + string(label) + "\n")
				}
				buf.WriteString(declIndent + string(label) + ":\n")
				for i, ins := range m.blocks[label].Instructions() {
					text, err := RenderInstruction(ins)
					if err != nil {
						return errors.New(errors.PhaseCodegen, errors.KindInternal).
							Path(string(label), fmt.Sprint(i)).
							Cause(err).
							Detail("instruction %d of %s", i, label).
							Build()
					}
					buf.WriteString(instrIndent + text + "\n")
				}
			}
		}
		buf.WriteString(".code_end\n")
	}
	return nil
}

func renderDecl(buf *bytes.Buffer, d DataDecl) error {
	v := d.Variable
	switch d.Attribute.Kind {
	case AttrNone:
	case AttrExport:
		buf.WriteString(declIndent + ".export " + v.Name + "\n")
	case AttrSync:
		mode := d.Attribute.Sync.String()
		if mode == "" {
			return errors.Internal(errors.PhaseCodegen, "unknown sync mode %d", int(d.Attribute.Sync))
		}
		buf.WriteString(declIndent + ".sync " + v.Name + ", " + mode + "\n")
	default:
		return errors.Internal(errors.PhaseCodegen, "unknown attribute kind %d", int(d.Attribute.Kind))
	}

	kw := v.Type.Keyword()
	if kw == "" {
		return errors.Internal(errors.PhaseCodegen, "unknown type %d", int(v.Type))
	}
	init := "null"
	if v.Init != nil {
		init = v.Init.Text
	}
	buf.WriteString(declIndent + v.Name + ": " + kw + ", " + init + "\n")
	return nil
}

// RenderDecl returns the indented lines of a single declaration, its
// attribute line first when it has one.
func RenderDecl(d DataDecl) ([]string, error) {
	var buf bytes.Buffer
	if err := renderDecl(&buf, d); err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), nil
}

// RenderInstruction returns the text of a single instruction. Annotations
// have no text and are an internal error.
func RenderInstruction(i Instruction) (string, error) {
	switch i.Op {
	case OpNop, OpPop, OpCopy:
		return i.Op.String(), nil
	case OpPush, OpJump, OpJumpIfFalse, OpJumpIndirect:
		if strings.TrimSpace(i.Operand) == "" {
			return "", errors.Internal(errors.PhaseCodegen, "%s without operand", i.Op)
		}
		return i.Op.String() + "," + i.Operand, nil
	case OpExtern:
		return fmt.Sprintf("%s,%q", i.Op, i.Operand), nil
	case OpAnnotation:
		return "", errors.Internal(errors.PhaseCodegen, "annotation cannot be rendered")
	}
	return "", errors.Internal(errors.PhaseCodegen, "unknown opcode %d", int(i.Op))
}

package wasm

import (
	"fmt"

	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/wasm/internal/binary"
)

// GlobalReader decodes global section entries one at a time.
type GlobalReader struct {
	data  []byte
	r     *binary.Reader
	count uint32
	next  uint32
}

func newGlobalReader(entries []byte, offset int, count uint32) *GlobalReader {
	return &GlobalReader{
		data:  entries,
		r:     binary.NewReader(entries, offset),
		count: count,
	}
}

// Count returns the number of entries the section declares.
func (g *GlobalReader) Count() uint32 {
	return g.count
}

// Index returns the index of the entry the next Read decodes.
func (g *GlobalReader) Index() uint32 {
	return g.next
}

// More reports whether entries remain.
func (g *GlobalReader) More() bool {
	return g.next < g.count
}

// Read decodes the next entry. Errors identify the entry index.
func (g *GlobalReader) Read() (Global, error) {
	if !g.More() {
		return Global{}, errors.Internal(errors.PhaseDecode, "read past %d global entries", g.count)
	}
	idx := g.next
	gl, err := g.read()
	if err != nil {
		if _, ok := errors.KindOf(err); !ok {
			err = errors.Decode(g.r.Position(), "malformed global entry", err)
		}
		return Global{}, errors.InvalidEntry("global", int(idx), err)
	}
	g.next++
	return gl, nil
}

// Finish checks that every declared entry was read and no bytes trail the
// last one.
func (g *GlobalReader) Finish() error {
	if g.More() {
		return errors.Internal(errors.PhaseDecode, "%d of %d global entries unread", g.count-g.next, g.count)
	}
	if g.r.Len() != 0 {
		return errors.Decode(g.r.Position(), fmt.Sprintf("global section has %d trailing bytes", g.r.Len()), nil)
	}
	return nil
}

func (g *GlobalReader) read() (Global, error) {
	gt, err := readGlobalType(g.r)
	if err != nil {
		return Global{}, err
	}
	init, err := g.readConstExpr()
	if err != nil {
		return Global{}, err
	}
	return Global{Type: gt, Init: init}, nil
}

func readGlobalType(r *binary.Reader) (GlobalType, error) {
	start := r.Position()
	b, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, err
	}
	vt := ValType(b)
	if !vt.IsValid() {
		return GlobalType{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(start).
			Value(b).
			Detail("invalid value type 0x%02x", b).
			Build()
	}
	gt := GlobalType{ValType: vt}

	// GC reference types carry a heap type
	if vt == ValRefNull || vt == ValRef {
		ht, err := r.ReadS33()
		if err != nil {
			return GlobalType{}, err
		}
		gt.HeapType = ht
	}

	mutPos := r.Position()
	mut, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, err
	}
	switch mut {
	case 0:
	case 1:
		gt.Mutable = true
	default:
		return GlobalType{}, errors.Decode(mutPos, fmt.Sprintf("invalid mutability flag 0x%02x", mut), nil)
	}
	return gt, nil
}

// readConstExpr scans operators up to the end closing depth 0 and returns
// the expression bytes, end included.
func (g *GlobalReader) readConstExpr() (ConstExpr, error) {
	start := g.r.Consumed()
	offset := g.r.Position()
	ops := &OperatorReader{r: g.r}
	depth := 0
	for {
		if ops.Done() {
			return ConstExpr{}, errors.Decode(ops.Offset(), "constant expression missing end", nil)
		}
		op, err := ops.Next()
		if err != nil {
			return ConstExpr{}, err
		}
		switch op.Opcode {
		case OpBlock, OpLoop, OpIf:
			depth++
		case OpEnd:
			if depth == 0 {
				end := g.r.Consumed()
				return ConstExpr{Data: g.data[start:end:end], Offset: offset}, nil
			}
			depth--
		}
	}
}

package wasm

import (
	"fmt"

	"github.com/willf/bitset"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/wasm/internal/binary"
)

// Chunk is the outcome of one Parse call: either a decoded record with the
// number of bytes it consumed, or a request for at least Hint more bytes.
type Chunk struct {
	Section  Section
	Consumed int
	Hint     int
}

// NeedMoreData reports whether the chunk asks for more input.
func (c Chunk) NeedMoreData() bool {
	return c.Section == nil
}

type parserState int

const (
	stateHeader parserState = iota
	stateSections
	stateEnd
)

// Parser is an incremental decoder for the module container. Each call to
// Parse decodes at most one record from the front of data.
type Parser struct {
	seen      bitset.BitSet
	offset    int
	lastOrder int
	state     parserState
}

// NewParser creates a parser whose first input byte sits at absolute
// offset offset.
func NewParser(offset int) *Parser {
	return &Parser{offset: offset}
}

// Offset returns the absolute offset of the next byte the parser expects.
func (p *Parser) Offset() int {
	return p.offset
}

// Done reports whether the end of the module has been reached.
func (p *Parser) Done() bool {
	return p.state == stateEnd
}

// Parse decodes the next record from data, the unread suffix of the module.
// When eof is false and data holds an incomplete record, Parse returns a
// chunk asking for more data; when eof is true the same input is a decode
// error.
func (p *Parser) Parse(data []byte, eof bool) (Chunk, error) {
	switch p.state {
	case stateHeader:
		return p.parseHeader(data, eof)
	case stateSections:
		return p.parseSection(data, eof)
	default:
		return Chunk{}, errors.Internal(errors.PhaseDecode, "parse called after end of module at offset %d", p.offset)
	}
}

func (p *Parser) parseHeader(data []byte, eof bool) (Chunk, error) {
	if len(data) < HeaderSize {
		if !eof {
			return Chunk{Hint: HeaderSize - len(data)}, nil
		}
		return Chunk{}, errors.Decode(p.offset+len(data), "truncated module header", nil)
	}

	r := binary.NewReader(data, p.offset)
	magic, _ := r.ReadU32LE()
	if magic != Magic {
		return Chunk{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(p.offset).
			Value(magic).
			Detail("invalid wasm magic number 0x%08x", magic).
			Build()
	}
	version, _ := r.ReadU32LE()
	if version != Version {
		return Chunk{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(p.offset + 4).
			Value(version).
			Detail("unsupported wasm version %d", version).
			Build()
	}

	h := &Header{
		Version: version,
		Span:    Range{Start: p.offset, End: p.offset + HeaderSize},
	}
	p.offset += HeaderSize
	p.state = stateSections
	return Chunk{Section: h, Consumed: HeaderSize}, nil
}

func (p *Parser) parseSection(data []byte, eof bool) (Chunk, error) {
	if len(data) == 0 {
		if !eof {
			return Chunk{Hint: 1}, nil
		}
		p.state = stateEnd
		return Chunk{Section: &End{Offset: p.offset}}, nil
	}

	start := p.offset
	r := binary.NewReader(data, start)
	id, _ := r.ReadByte()

	size, err := r.ReadU32()
	if err != nil {
		if binary.IsTruncated(err) {
			if !eof {
				return Chunk{Hint: 1}, nil
			}
			return Chunk{}, errors.Decode(r.Position(), "truncated section size", err)
		}
		return Chunk{}, errors.Decode(start+1, "invalid section size", err)
	}

	if int64(size) > int64(r.Len()) {
		if !eof {
			return Chunk{Hint: int(int64(size) - int64(r.Len()))}, nil
		}
		return Chunk{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(r.Position()).
			Value(size).
			Detail("section size %d exceeds remaining %d bytes", size, r.Len()).
			Build()
	}

	if err := p.checkOrder(id, start); err != nil {
		return Chunk{}, err
	}

	payloadOffset := r.Position()
	payload, _ := r.ReadBytes(int(size))
	span := Range{Start: start, End: r.Position()}

	sec, err := decodeSection(id, payload, payloadOffset, span)
	if err != nil {
		return Chunk{}, err
	}

	consumed := r.Consumed()
	p.offset += consumed
	Logger().Debug("section parsed",
		zap.Stringer("kind", sec.Kind()),
		zap.Int("offset", start),
		zap.Uint32("size", size))
	return Chunk{Section: sec, Consumed: consumed}, nil
}

// checkOrder enforces canonical section order. Custom sections may repeat
// and appear anywhere.
func (p *Parser) checkOrder(id byte, offset int) error {
	if id > maxSectionID {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(offset).
			Value(id).
			Detail("unknown section ID: 0x%02x", id).
			Build()
	}
	if id == SectionCustom {
		return nil
	}
	if p.seen.Test(uint(id)) {
		return errors.Decode(offset, fmt.Sprintf("duplicate %s section", sectionKind(id)), nil)
	}
	order := sectionOrder(id)
	if order <= p.lastOrder {
		return errors.Decode(offset, fmt.Sprintf("%s section appears out of order", sectionKind(id)), nil)
	}
	p.seen.Set(uint(id))
	p.lastOrder = order
	return nil
}

// sectionOrder returns the canonical ordering for a section ID.
// Non-custom sections must appear in a canonical order that differs from their IDs.
func sectionOrder(id byte) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionTag:
		return 6 // Tag comes after Memory, before Global
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11 // DataCount must come before Code
	case SectionCode:
		return 12
	case SectionData:
		return 13
	default:
		return 100
	}
}

func sectionKind(id byte) Kind {
	switch id {
	case SectionCustom:
		return KindCustom
	case SectionType:
		return KindType
	case SectionImport:
		return KindImport
	case SectionFunction:
		return KindFunction
	case SectionTable:
		return KindTable
	case SectionMemory:
		return KindMemory
	case SectionGlobal:
		return KindGlobal
	case SectionExport:
		return KindExport
	case SectionStart:
		return KindStart
	case SectionElement:
		return KindElement
	case SectionCode:
		return KindCode
	case SectionData:
		return KindData
	case SectionDataCount:
		return KindDataCount
	case SectionTag:
		return KindTag
	default:
		return Kind(-1)
	}
}

func decodeSection(id byte, payload []byte, offset int, span Range) (Section, error) {
	r := binary.NewReader(payload, offset)
	kind := sectionKind(id)

	switch id {
	case SectionCustom:
		name, err := r.ReadName()
		if err != nil {
			return nil, errors.Decode(r.Position(), "custom section name", err)
		}
		return &CustomSection{Name: name, Data: r.Remaining(), Span: span}, nil

	case SectionStart, SectionDataCount:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, errors.Decode(r.Position(), fmt.Sprintf("%s section", kind), err)
		}
		if r.Len() != 0 {
			return nil, errors.Decode(r.Position(), fmt.Sprintf("%s section has %d trailing bytes", kind, r.Len()), nil)
		}
		if id == SectionStart {
			return &StartSection{Func: idx, Span: span}, nil
		}
		return &DataCountSection{Count: idx, Span: span}, nil
	}

	count, err := r.ReadU32()
	if err != nil {
		return nil, errors.Decode(r.Position(), fmt.Sprintf("%s section count", kind), err)
	}
	// every entry occupies at least one byte
	if int64(count) > int64(r.Len()) {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(offset).
			Value(count).
			Detail("%s section declares %d entries in %d bytes", kind, count, r.Len()).
			Build()
	}
	v := Vector{Count: count, EntriesOffset: r.Position(), Span: span}
	v.Entries = r.Remaining()

	switch id {
	case SectionType:
		return &TypeSection{v}, nil
	case SectionImport:
		return &ImportSection{v}, nil
	case SectionFunction:
		return &FunctionSection{v}, nil
	case SectionTable:
		return &TableSection{v}, nil
	case SectionMemory:
		return &MemorySection{v}, nil
	case SectionGlobal:
		return &GlobalSection{v}, nil
	case SectionExport:
		return &ExportSection{v}, nil
	case SectionElement:
		return &ElementSection{v}, nil
	case SectionCode:
		return &CodeSection{v}, nil
	case SectionData:
		return &DataSection{v}, nil
	case SectionTag:
		return &TagSection{v}, nil
	}
	return nil, errors.Internal(errors.PhaseDecode, "section id 0x%02x passed order check without a decoder", id)
}

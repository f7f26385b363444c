package wasm

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-uasm/errors"
)

// Decoder drives a Parser over a fully loaded module. It borrows the
// module bytes; every record it yields aliases them.
type Decoder struct {
	parser *Parser
	data   []byte
	pos    int
	eof    bool
}

// NewDecoder creates a decoder over data that begins decoding at offset.
// The whole module is assumed to be present, so end of input is asserted.
func NewDecoder(data []byte, offset int) *Decoder {
	return &Decoder{
		parser: NewParser(offset),
		data:   data,
		pos:    offset,
		eof:    true,
	}
}

// Position returns the absolute cursor offset.
func (d *Decoder) Position() int {
	return d.pos
}

// Decode decodes the next record and advances the cursor past it.
func (d *Decoder) Decode() (Chunk, error) {
	if d.pos < 0 || d.pos > len(d.data) {
		return Chunk{}, errors.Decode(d.pos, "offset outside module bytes", nil)
	}
	chunk, err := d.parser.Parse(d.data[d.pos:], d.eof)
	if err != nil {
		return Chunk{}, err
	}
	if chunk.NeedMoreData() {
		return chunk, nil
	}
	d.pos += chunk.Consumed
	Logger().Debug("decoded",
		zap.Stringer("kind", chunk.Section.Kind()),
		zap.Int("consumed", chunk.Consumed),
		zap.Int("position", d.pos))
	return chunk, nil
}

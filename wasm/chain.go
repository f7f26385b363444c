package wasm

import (
	"context"

	"github.com/wippyai/wasm-uasm/errors"
)

// DecodeAll decodes every record of the module in encounter order. The end
// marker is not included. The first decode error aborts the walk.
func DecodeAll(d *Decoder) ([]Section, error) {
	return DecodeAllContext(context.Background(), d)
}

// DecodeAllContext is DecodeAll that checks ctx before each record.
func DecodeAllContext(ctx context.Context, d *Decoder) ([]Section, error) {
	var sections []Section
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk, err := d.Decode()
		if err != nil {
			return nil, err
		}
		if chunk.NeedMoreData() {
			return nil, errors.Internal(errors.PhaseDecode,
				"decoder requested %d more bytes after end of input at offset %d", chunk.Hint, d.Position())
		}
		if chunk.Section.Kind() == KindEnd {
			return sections, nil
		}
		sections = append(sections, chunk.Section)
	}
}

// Decode is DecodeAll over a fresh decoder starting at offset 0.
func Decode(data []byte) ([]Section, error) {
	return DecodeAll(NewDecoder(data, 0))
}

package wasm_test

import (
	"testing"

	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/internal/wasmtest"
	"github.com/wippyai/wasm-uasm/wasm"
)

func TestParseHeaderIncrementally(t *testing.T) {
	data := wasmtest.Header()
	p := wasm.NewParser(0)

	chunk, err := p.Parse(data[:4], false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !chunk.NeedMoreData() || chunk.Hint != 4 {
		t.Fatalf("expected need-more-data hint 4, got %+v", chunk)
	}

	chunk, err = p.Parse(data, false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h, ok := chunk.Section.(*wasm.Header)
	if !ok {
		t.Fatalf("expected *wasm.Header, got %T", chunk.Section)
	}
	if h.Version != 1 || chunk.Consumed != 8 {
		t.Errorf("header = %+v consumed %d", h, chunk.Consumed)
	}

	chunk, err = p.Parse(nil, false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !chunk.NeedMoreData() || chunk.Hint != 1 {
		t.Errorf("expected hint 1 at section boundary, got %+v", chunk)
	}

	chunk, err = p.Parse(nil, true)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if chunk.Section.Kind() != wasm.KindEnd {
		t.Errorf("expected end record, got %s", chunk.Section.Kind())
	}
	if !p.Done() {
		t.Error("parser should be done")
	}

	if _, err := p.Parse(nil, true); !errors.IsInternal(err) {
		t.Errorf("parse after end: expected internal error, got %v", err)
	}
}

func TestParseSectionNeedsMoreData(t *testing.T) {
	p := wasm.NewParser(0)
	if _, err := p.Parse(wasmtest.Header(), false); err != nil {
		t.Fatalf("Parse header: %v", err)
	}

	tests := []struct {
		name string
		data []byte
		hint int
	}{
		{"id only", []byte{wasm.SectionGlobal}, 1},
		{"partial size", []byte{wasm.SectionGlobal, 0x80}, 1},
		{"partial payload", []byte{wasm.SectionGlobal, 0x05, 0x01}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk, err := p.Parse(tt.data, false)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !chunk.NeedMoreData() {
				t.Fatalf("expected need-more-data, got %T", chunk.Section)
			}
			if chunk.Hint != tt.hint {
				t.Errorf("hint = %d, want %d", chunk.Hint, tt.hint)
			}
		})
	}
}

func TestDecodeAllOrder(t *testing.T) {
	data := wasmtest.NewModule().
		Custom("producers", []byte{1, 2}).
		Table(1).
		Custom("name", nil).
		Globals(wasmtest.Global{Type: wasmtest.I32, Init: wasmtest.Expr(wasmtest.I32Const(42))}).
		Bytes()

	sections, err := wasm.DecodeAll(wasm.NewDecoder(data, 0))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}

	want := []wasm.Kind{wasm.KindHeader, wasm.KindCustom, wasm.KindTable, wasm.KindCustom, wasm.KindGlobal}
	if len(sections) != len(want) {
		t.Fatalf("got %d sections, want %d", len(sections), len(want))
	}
	for i, s := range sections {
		if s.Kind() != want[i] {
			t.Errorf("section %d: got %s, want %s", i, s.Kind(), want[i])
		}
	}

	custom := sections[1].(*wasm.CustomSection)
	if custom.Name != "producers" || len(custom.Data) != 2 {
		t.Errorf("custom = %q %v", custom.Name, custom.Data)
	}

	// ranges tile the module
	prev := 0
	for _, s := range sections {
		if s.Range().Start != prev {
			t.Errorf("%s starts at %d, want %d", s.Kind(), s.Range().Start, prev)
		}
		prev = s.Range().End
	}
	if prev != len(data) {
		t.Errorf("last section ends at %d, want %d", prev, len(data))
	}
}

func TestDecodeAllBorrowsBytes(t *testing.T) {
	data := wasmtest.NewModule().Custom("x", []byte{7}).Bytes()
	sections, err := wasm.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	custom := sections[1].(*wasm.CustomSection)
	data[len(data)-1] = 9
	if custom.Data[0] != 9 {
		t.Error("custom payload should alias the module bytes")
	}
}

func TestDecoderOffset(t *testing.T) {
	module := wasmtest.NewModule().Bytes()
	data := append([]byte{0xAA, 0xBB, 0xCC}, module...)

	sections, err := wasm.DecodeAll(wasm.NewDecoder(data, 3))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if r := sections[0].Range(); r.Start != 3 || r.End != 11 {
		t.Errorf("header range = %+v", r)
	}
}

func TestDecodeAllErrors(t *testing.T) {
	global := wasmtest.Global{Type: wasmtest.I32, Init: wasmtest.Expr(wasmtest.I32Const(0))}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated header", []byte{0x00, 0x61, 0x73}},
		{"bad magic", []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
		{"bad version", []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}},
		{"truncated size", append(wasmtest.Header(), wasm.SectionGlobal, 0x80)},
		{"size past end", append(wasmtest.Header(), wasm.SectionGlobal, 0x05, 0x01)},
		{"size overflow", append(wasmtest.Header(), wasm.SectionGlobal, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F)},
		{"unknown section", append(wasmtest.Header(), 0x0E, 0x00)},
		{"out of order", wasmtest.NewModule().Globals(global).Table(1).Bytes()},
		{"duplicate", wasmtest.NewModule().Globals(global).Globals(global).Bytes()},
		{"count past payload", wasmtest.NewModule().Section(wasm.SectionGlobal, []byte{0x05}).Bytes()},
		{"start trailing bytes", wasmtest.NewModule().Section(wasm.SectionStart, []byte{0x00, 0x00}).Bytes()},
		{"bad custom name", wasmtest.NewModule().Section(wasm.SectionCustom, []byte{0x02, 0xFF, 0xFE}).Bytes()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections, err := wasm.Decode(tt.data)
			if err == nil {
				t.Fatalf("expected error, got %d sections", len(sections))
			}
			if sections != nil {
				t.Error("no records may be returned on error")
			}
			if !errors.IsDecode(err) {
				t.Errorf("expected decode error, got %v", err)
			}
		})
	}
}

func TestDecodeErrorOffset(t *testing.T) {
	data := append(wasmtest.Header(), 0x0E, 0x00)
	_, err := wasm.Decode(data)

	var e *errors.Error
	if !asError(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Offset != 8 {
		t.Errorf("offset = %d, want 8", e.Offset)
	}
}

func TestSectionCount(t *testing.T) {
	data := wasmtest.NewModule().
		Globals(
			wasmtest.Global{Type: wasmtest.I32, Init: wasmtest.Expr(wasmtest.I32Const(1))},
			wasmtest.Global{Type: wasmtest.I64, Init: wasmtest.Expr(wasmtest.I64Const(2))},
		).
		Start(0).
		Bytes()

	sections, err := wasm.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n, ok := wasm.Count(sections[1]); !ok || n != 2 {
		t.Errorf("global count = %d, %v", n, ok)
	}
	if _, ok := wasm.Count(sections[2]); ok {
		t.Error("start section has no count")
	}
	if s := sections[2].(*wasm.StartSection); s.Func != 0 {
		t.Errorf("start func = %d", s.Func)
	}
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if ok {
		*target = e
	}
	return ok
}

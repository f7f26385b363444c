package binary

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data, 10)

	for i, want := range data {
		if r.Position() != 10+i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), 10+i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Consumed() != 3 {
		t.Errorf("consumed: got %d, want 3", r.Consumed())
	}

	_, err := r.ReadByte()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReaderReadBytesBorrows(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(data, 0)

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if &got[0] != &data[0] {
		t.Error("ReadBytes should alias the input")
	}
	if cap(got) != 3 {
		t.Errorf("cap: got %d, want 3", cap(got))
	}

	if _, err = r.ReadBytes(10); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}

	rest := r.Remaining()
	if len(rest) != 2 || rest[0] != 0x04 {
		t.Errorf("Remaining: got %v", rest)
	}
	if r.Len() != 0 {
		t.Errorf("Len after Remaining: got %d", r.Len())
	}
}

func TestReaderReadU32(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded, 0)
		got, err := r.ReadU32()
		if err != nil {
			t.Errorf("ReadU32(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadU32(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadU32Overflow(t *testing.T) {
	for _, encoded := range [][]byte{
		{0xff, 0xff, 0xff, 0xff, 0x1f},
		{0x80, 0x80, 0x80, 0x80, 0x80, 0x00},
	} {
		r := NewReader(encoded, 0)
		if _, err := r.ReadU32(); !errors.Is(err, ErrOverflow) {
			t.Errorf("ReadU32(%v): expected overflow, got %v", encoded, err)
		}
	}
}

func TestReaderReadU32Truncated(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80}, 0)
	if _, err := r.ReadU32(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReaderReadS32(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    int32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, -1},
		{[]byte{0x2a}, 42},
		{[]byte{0xc0, 0xbb, 0x78}, -123456},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x78}, math.MinInt32},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x07}, math.MaxInt32},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded, 0)
		got, err := r.ReadS32()
		if err != nil {
			t.Errorf("ReadS32(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadS32(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadS32Overflow(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, 0)
	if _, err := r.ReadS32(); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}
}

func TestReaderReadS64(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, -1},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7f}, math.MinInt64},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded, 0)
		got, err := r.ReadS64()
		if err != nil {
			t.Errorf("ReadS64(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadS64(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadS33(t *testing.T) {
	r := NewReader([]byte{0x40}, 0)
	got, err := r.ReadS33()
	if err != nil {
		t.Fatalf("ReadS33: %v", err)
	}
	if got != -64 {
		t.Errorf("ReadS33: got %d, want -64", got)
	}
}

func TestReaderReadName(t *testing.T) {
	r := NewReader([]byte{0x04, 'n', 'a', 'm', 'e'}, 0)
	name, err := r.ReadName()
	if err != nil {
		t.Fatalf("ReadName: %v", err)
	}
	if name != "name" {
		t.Errorf("ReadName: got %q", name)
	}

	r = NewReader([]byte{0x02, 0xff, 0xfe}, 0)
	if _, err := r.ReadName(); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestReaderReadFloats(t *testing.T) {
	r := NewReader([]byte{
		0x00, 0x00, 0xc0, 0x3f, // 1.5f
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0xc0, // -2.5
	}, 0)
	f32, err := r.ReadF32()
	if err != nil || f32 != 1.5 {
		t.Errorf("ReadF32: got %v, %v", f32, err)
	}
	f64, err := r.ReadF64()
	if err != nil || f64 != -2.5 {
		t.Errorf("ReadF64: got %v, %v", f64, err)
	}
}

func TestWrapError(t *testing.T) {
	r := NewReader([]byte{0x01}, 100)
	_, _ = r.ReadByte()
	err := r.WrapError("global section", io.ErrUnexpectedEOF)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if pe.Position != 101 {
		t.Errorf("Position: got %d, want 101", pe.Position)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("ParseError should unwrap to cause")
	}
}

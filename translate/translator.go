package translate

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-uasm/uasm"
	"github.com/wippyai/wasm-uasm/wasm"
)

// Options configures a Translator.
type Options struct {
	// Logger receives progress messages. Nil selects the package logger.
	Logger *zap.Logger
	// Offset is where decoding starts in the module bytes.
	Offset int
	// ExportInitializers renders initializer blocks with export directives.
	ExportInitializers bool
}

// DefaultOptions returns default translator configuration.
func DefaultOptions() Options {
	return Options{}
}

// Translator runs the decode, interpret, merge and render pipeline.
// A Translator holds no per-run state and may be shared.
type Translator struct {
	logger  *zap.Logger
	options Options
}

// New creates a Translator with the given options.
func New(opts Options) *Translator {
	l := opts.Logger
	if l == nil {
		l = Logger()
	}
	return &Translator{logger: l, options: opts}
}

// NewWithDefaults creates a Translator with default options.
func NewWithDefaults() *Translator {
	return New(DefaultOptions())
}

// Options returns the configuration.
func (t *Translator) Options() Options {
	return t.options
}

// Sections decodes data into section records in encounter order.
func (t *Translator) Sections(ctx context.Context, data []byte) ([]wasm.Section, error) {
	sections, err := wasm.DecodeAllContext(ctx, wasm.NewDecoder(data, t.options.Offset))
	if err != nil {
		t.logger.Debug("decode failed", zap.Error(err))
		return nil, err
	}
	for _, s := range sections {
		r := s.Range()
		t.logger.Debug("decoded section",
			zap.Stringer("kind", s.Kind()),
			zap.Int("offset", r.Start),
			zap.Int("consumed", r.Len()))
	}
	return sections, nil
}

// Units interprets each record into a unit, front to back.
func (t *Translator) Units(ctx context.Context, sections []wasm.Section) ([]uasm.Unit, error) {
	units := make([]uasm.Unit, 0, len(sections))
	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u, err := InterpretSection(s, t.options.ExportInitializers)
		if err != nil {
			t.logger.Debug("interpret failed", zap.Stringer("kind", s.Kind()), zap.Error(err))
			return nil, err
		}
		fields := []zap.Field{zap.Stringer("kind", s.Kind()), zap.Stringer("unit", u.Kind)}
		if u.Program.Data != nil {
			fields = append(fields, zap.Int("declarations", u.Program.Data.Len()))
		}
		if u.Program.Code != nil {
			fields = append(fields, zap.Int("blocks", u.Program.Code.Code.Len()))
		}
		t.logger.Debug("unit produced", fields...)
		units = append(units, u)
	}
	return units, nil
}

// Program decodes and interprets data and merges the units.
func (t *Translator) Program(ctx context.Context, data []byte) (*uasm.Program, error) {
	sections, err := t.Sections(ctx, data)
	if err != nil {
		return nil, err
	}
	units, err := t.Units(ctx, sections)
	if err != nil {
		return nil, err
	}
	p := uasm.Merge(units)

	fields := []zap.Field{zap.Int("units", len(units))}
	if p.Data != nil {
		fields = append(fields, zap.Int("declarations", p.Data.Len()))
	}
	if p.Code != nil {
		fields = append(fields, zap.Int("blocks", p.Code.Code.Len()))
	}
	t.logger.Debug("merged", fields...)
	return p, nil
}

// Translate returns the assembly text for data. On failure no text is
// returned.
func (t *Translator) Translate(ctx context.Context, data []byte) (string, error) {
	p, err := t.Program(ctx, data)
	if err != nil {
		return "", err
	}
	text, err := uasm.Render(p)
	if err != nil {
		return "", err
	}
	t.logger.Debug("rendered", zap.Int("bytes", len(text)))
	return text, nil
}

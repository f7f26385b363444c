package wasm

// Kind tags a section record.
type Kind int

const (
	KindHeader Kind = iota
	KindCustom
	KindType
	KindImport
	KindFunction
	KindTable
	KindMemory
	KindGlobal
	KindExport
	KindStart
	KindElement
	KindCode
	KindData
	KindDataCount
	KindTag
	KindEnd
)

var kindNames = [...]string{
	KindHeader:    "header",
	KindCustom:    "custom",
	KindType:      "type",
	KindImport:    "import",
	KindFunction:  "function",
	KindTable:     "table",
	KindMemory:    "memory",
	KindGlobal:    "global",
	KindExport:    "export",
	KindStart:     "start",
	KindElement:   "element",
	KindCode:      "code",
	KindData:      "data",
	KindDataCount: "datacount",
	KindTag:       "tag",
	KindEnd:       "end",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Range is the absolute byte span [Start, End) of a record in the module.
type Range struct {
	Start int
	End   int
}

// Len returns the span length in bytes.
func (r Range) Len() int { return r.End - r.Start }

// Section is one decoded record of the binary container. The concrete
// types below form a closed set; use a type switch on them.
type Section interface {
	Kind() Kind
	// Range covers the whole record, id and size prefix included.
	Range() Range
}

// Header is the module preamble: magic number and version.
type Header struct {
	Version uint32
	Span    Range
}

func (s *Header) Kind() Kind   { return KindHeader }
func (s *Header) Range() Range { return s.Span }

// End marks the end of the module. It carries no payload.
type End struct {
	Offset int
}

func (s *End) Kind() Kind   { return KindEnd }
func (s *End) Range() Range { return Range{Start: s.Offset, End: s.Offset} }

// CustomSection is a named custom section.
type CustomSection struct {
	Name string
	Data []byte
	Span Range
}

func (s *CustomSection) Kind() Kind   { return KindCustom }
func (s *CustomSection) Range() Range { return s.Span }

// Vector is the common shape of sections holding a counted vector of
// entries. Entries borrows the payload following the count prefix.
type Vector struct {
	Entries []byte
	Span    Range
	// EntriesOffset is the absolute offset of Entries[0].
	EntriesOffset int
	Count         uint32
}

func (v *Vector) Range() Range { return v.Span }

// TypeSection declares function signatures.
type TypeSection struct{ Vector }

func (*TypeSection) Kind() Kind { return KindType }

// ImportSection declares imports.
type ImportSection struct{ Vector }

func (*ImportSection) Kind() Kind { return KindImport }

// FunctionSection declares the type index of each defined function.
type FunctionSection struct{ Vector }

func (*FunctionSection) Kind() Kind { return KindFunction }

// TableSection declares tables.
type TableSection struct{ Vector }

func (*TableSection) Kind() Kind { return KindTable }

// MemorySection declares linear memories.
type MemorySection struct{ Vector }

func (*MemorySection) Kind() Kind { return KindMemory }

// GlobalSection declares globals. Entries are decoded lazily through Reader.
type GlobalSection struct{ Vector }

func (*GlobalSection) Kind() Kind { return KindGlobal }

// Reader returns a reader over the section's global entries.
func (s *GlobalSection) Reader() *GlobalReader {
	return newGlobalReader(s.Entries, s.EntriesOffset, s.Count)
}

// ExportSection declares exports.
type ExportSection struct{ Vector }

func (*ExportSection) Kind() Kind { return KindExport }

// StartSection names the start function.
type StartSection struct {
	Span Range
	Func uint32
}

func (s *StartSection) Kind() Kind   { return KindStart }
func (s *StartSection) Range() Range { return s.Span }

// ElementSection declares element segments.
type ElementSection struct{ Vector }

func (*ElementSection) Kind() Kind { return KindElement }

// CodeSection holds function bodies.
type CodeSection struct{ Vector }

func (*CodeSection) Kind() Kind { return KindCode }

// DataSection declares data segments.
type DataSection struct{ Vector }

func (*DataSection) Kind() Kind { return KindData }

// DataCountSection declares the number of data segments.
type DataCountSection struct {
	Span  Range
	Count uint32
}

func (s *DataCountSection) Kind() Kind   { return KindDataCount }
func (s *DataCountSection) Range() Range { return s.Span }

// TagSection declares exception tags.
type TagSection struct{ Vector }

func (*TagSection) Kind() Kind { return KindTag }

// Count returns the number of entries for vector sections and false for
// the others.
func Count(s Section) (uint32, bool) {
	if v, ok := s.(interface{ vector() *Vector }); ok {
		return v.vector().Count, true
	}
	return 0, false
}

func (v *Vector) vector() *Vector { return v }

// ID returns the binary section ID of k. The header and end marker have
// none.
func (k Kind) ID() (byte, bool) {
	for id := SectionCustom; id <= maxSectionID; id++ {
		if sectionKind(id) == k {
			return id, true
		}
	}
	return 0, false
}

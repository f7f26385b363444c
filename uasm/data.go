package uasm

// Variable is a named, typed slot with an optional initial value.
type Variable struct {
	Init *Literal
	Name string
	Type Type
}

// SyncMode is the network sync variant of a synced variable.
type SyncMode int

const (
	SyncNone SyncMode = iota
	SyncLinear
	SyncSmooth
)

var syncModeNames = [...]string{
	SyncNone:   "none",
	SyncLinear: "linear",
	SyncSmooth: "smooth",
}

func (m SyncMode) String() string {
	if m >= 0 && int(m) < len(syncModeNames) {
		return syncModeNames[m]
	}
	return ""
}

// AttributeKind selects the attribute of a data declaration.
type AttributeKind int

const (
	AttrNone AttributeKind = iota
	AttrExport
	AttrSync
)

// DataAttribute is the attribute of a data declaration. Sync is only
// meaningful when Kind is AttrSync.
type DataAttribute struct {
	Kind AttributeKind
	Sync SyncMode
}

// Export returns the export attribute.
func Export() DataAttribute {
	return DataAttribute{Kind: AttrExport}
}

// Sync returns a sync attribute with the given mode.
func Sync(mode SyncMode) DataAttribute {
	return DataAttribute{Kind: AttrSync, Sync: mode}
}

// DataDecl is one entry of a data section.
type DataDecl struct {
	Variable  Variable
	Attribute DataAttribute
}

// DataSection is an append-only list of declarations.
type DataSection struct {
	decls []DataDecl
}

// NewDataSection creates a data section holding decls.
func NewDataSection(decls ...DataDecl) *DataSection {
	s := &DataSection{}
	for _, d := range decls {
		s.Push(d)
	}
	return s
}

// Push appends a declaration.
func (s *DataSection) Push(d DataDecl) {
	s.decls = append(s.decls, d)
}

// Decls returns the declarations in append order. The slice must not be
// modified.
func (s *DataSection) Decls() []DataDecl {
	return s.decls
}

// Len returns the number of declarations.
func (s *DataSection) Len() int {
	return len(s.decls)
}

// Lookup returns the declaration of the variable named name.
func (s *DataSection) Lookup(name string) (DataDecl, bool) {
	for _, d := range s.decls {
		if d.Variable.Name == name {
			return d, true
		}
	}
	return DataDecl{}, false
}

func (s *DataSection) clone() *DataSection {
	return &DataSection{decls: append([]DataDecl(nil), s.decls...)}
}

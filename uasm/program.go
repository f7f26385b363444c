package uasm

// Program is the aggregated target IR. Either section may be absent.
type Program struct {
	Data *DataSection
	Code *CodeSection
}

// SetDataSection replaces the data section.
func (p *Program) SetDataSection(s *DataSection) {
	p.Data = s
}

// SetCodeSection replaces the code section.
func (p *Program) SetCodeSection(s *CodeSection) {
	p.Code = s
}

// Merge folds other into p. Declarations are appended after p's, blocks
// are merged label by label with other's block winning, and other's export
// flag wins. other is never modified and p never aliases its sections.
func (p *Program) Merge(other *Program) {
	if other == nil {
		return
	}
	if other.Data != nil {
		if p.Data == nil {
			p.Data = other.Data.clone()
		} else {
			p.Data.decls = append(p.Data.decls, other.Data.decls...)
		}
	}
	if other.Code != nil {
		if p.Code == nil {
			p.Code = &CodeSection{Code: other.Code.Code.clone()}
		} else {
			if p.Code.Code == nil {
				p.Code.Code = NewCodeMap()
			}
			p.Code.Code.Merge(other.Code.Code)
		}
		p.Code.Exported = other.Code.Exported
	}
}

// UnitKind tags the origin of a unit.
type UnitKind int

const (
	// NonGlobal units come from sections without module-scope state.
	NonGlobal UnitKind = iota
	// Global units carry module-scope declarations.
	Global
)

func (k UnitKind) String() string {
	if k == Global {
		return "global"
	}
	return "non-global"
}

// Unit is the IR produced for one section record.
type Unit struct {
	Program *Program
	Kind    UnitKind
}

// Merge aggregates units front to back into one program.
func Merge(units []Unit) *Program {
	p := &Program{}
	for _, u := range units {
		p.Merge(u.Program)
	}
	return p
}

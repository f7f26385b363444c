// Package mangle derives the target-assembly identifiers of source
// variables.
//
// Names are part of the generated assembly: changing the format breaks
// compatibility with anything that refers to them by name.
package mangle

import (
	"strconv"
	"strings"
)

// Role identifies a source variable. Local and Global are the only
// implementations.
type Role interface {
	role()
}

// Local is a function-local variable.
type Local struct {
	FuncName string
	Index    uint32
}

// Global is a module-level global.
type Global struct {
	Index uint32
}

func (Local) role()  {}
func (Global) role() {}

// Mangle returns the identifier for r:
//
//	Local{FuncName: "foo", Index: 1} -> __foo_L1
//	Global{Index: 2}                 -> __G__2
func Mangle(r Role) string {
	var b strings.Builder
	b.WriteString("__")
	switch r := r.(type) {
	case Local:
		b.WriteString(r.FuncName)
		b.WriteString("_L")
		b.WriteString(strconv.FormatUint(uint64(r.Index), 10))
	case Global:
		b.WriteString("G__")
		b.WriteString(strconv.FormatUint(uint64(r.Index), 10))
	}
	return b.String()
}

// InitLabel returns the label of the initializer block for the variable
// named name.
func InitLabel(name string) string {
	return "__INIT_" + name
}

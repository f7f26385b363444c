package translate

import (
	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/mangle"
	"github.com/wippyai/wasm-uasm/uasm"
	"github.com/wippyai/wasm-uasm/wasm"
)

// InterpretSection maps one section record to an IR unit. The header maps
// to an empty unit, the global section to declarations plus initializer
// blocks, and every other kind to an unsupported section error.
// exportInit marks the initializer code section as exported.
func InterpretSection(sec wasm.Section, exportInit bool) (uasm.Unit, error) {
	switch s := sec.(type) {
	case *wasm.Header:
		return uasm.Unit{Kind: uasm.NonGlobal, Program: &uasm.Program{}}, nil
	case *wasm.GlobalSection:
		return interpretGlobals(s, exportInit)
	}
	return uasm.Unit{}, errors.UnsupportedSection(sec.Kind().String())
}

func interpretGlobals(s *wasm.GlobalSection, exportInit bool) (uasm.Unit, error) {
	r := s.Reader()
	data := uasm.NewDataSection()
	code := uasm.NewCodeMap()
	env := &globalEnv{}

	for r.More() {
		idx := r.Index()
		g, err := r.Read()
		if err != nil {
			return uasm.Unit{}, err
		}

		typ, err := TranslateType(g.Type.ValType)
		if err != nil {
			return uasm.Unit{}, errors.InvalidEntry("global", int(idx), err)
		}

		name := mangle.Mangle(mangle.Global{Index: idx})
		block, init, err := env.lower(idx, name, typ, g.Init)
		if err != nil {
			return uasm.Unit{}, errors.InvalidEntry("global", int(idx), err)
		}

		code.SetBlock(uasm.Label(mangle.InitLabel(name)), block)
		data.Push(uasm.DataDecl{
			Attribute: uasm.DataAttribute{Kind: uasm.AttrNone},
			Variable:  uasm.Variable{Name: name, Type: typ, Init: init},
		})
		env.declare(typ, g.Type.Mutable)
	}
	if err := r.Finish(); err != nil {
		return uasm.Unit{}, err
	}

	return uasm.Unit{
		Kind: uasm.Global,
		Program: &uasm.Program{
			Data: data,
			Code: uasm.NewCodeSection(exportInit, code),
		},
	}, nil
}

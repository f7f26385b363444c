package uasm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/uasm"
)

func decl(name string, t uasm.Type) uasm.DataDecl {
	return uasm.DataDecl{Variable: uasm.Variable{Name: name, Type: t}}
}

func names(s *uasm.DataSection) []string {
	var out []string
	for _, d := range s.Decls() {
		out = append(out, d.Variable.Name)
	}
	return out
}

func TestTypeKeywords(t *testing.T) {
	tests := []struct {
		typ  uasm.Type
		want string
	}{
		{uasm.TypeInt32, "%SystemInt32"},
		{uasm.TypeInt64, "%SystemInt64"},
		{uasm.TypeSingle, "%SystemSingle"},
		{uasm.TypeDouble, "%SystemDouble"},
		{uasm.TypeString, "%SystemString"},
		{uasm.Type(42), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.Keyword())
	}
}

func TestLiterals(t *testing.T) {
	assert.Equal(t, "-7", uasm.Int32(-7).Text)
	assert.Equal(t, "9007199254740993", uasm.Int64(9007199254740993).Text)
	assert.Equal(t, "1.5", uasm.Single(1.5).Text)
	assert.Equal(t, "0.1", uasm.Double(0.1).Text)
	assert.Equal(t, `"a\"b"`, uasm.String(`a"b`).Text)
	assert.Equal(t, uasm.TypeSingle, uasm.Single(0).Type)
}

func TestCodeMapOrder(t *testing.T) {
	m := uasm.NewCodeMap()
	m.SetBlock("b", uasm.NewBlock(uasm.Nop()))
	m.SetBlock("a", uasm.NewBlock(uasm.Pop()))
	m.SetBlock("b", uasm.NewBlock(uasm.Copy()))

	assert.Equal(t, []uasm.Label{"b", "a"}, m.Labels())
	b, ok := m.Block("b")
	require.True(t, ok)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, uasm.OpCopy, b.Instructions()[0].Op)

	_, ok = m.Block("missing")
	assert.False(t, ok)
}

func TestProgramSetSections(t *testing.T) {
	p := &uasm.Program{}
	p.SetDataSection(uasm.NewDataSection(decl("x", uasm.TypeInt32)))
	p.SetDataSection(uasm.NewDataSection(decl("y", uasm.TypeInt32)))
	assert.Equal(t, []string{"y"}, names(p.Data))

	p.SetCodeSection(uasm.NewCodeSection(true, nil))
	p.SetCodeSection(uasm.NewCodeSection(false, nil))
	assert.False(t, p.Code.Exported)
}

func TestMergeConcatenatesData(t *testing.T) {
	unit := func(ns ...string) uasm.Unit {
		s := uasm.NewDataSection()
		for _, n := range ns {
			s.Push(decl(n, uasm.TypeInt32))
		}
		return uasm.Unit{Kind: uasm.Global, Program: &uasm.Program{Data: s}}
	}
	a, b, c := unit("a1", "a2"), unit("b1"), unit("c1", "c2")

	flat := uasm.Merge([]uasm.Unit{a, b, c})
	assert.Equal(t, []string{"a1", "a2", "b1", "c1", "c2"}, names(flat.Data))

	left := uasm.Merge([]uasm.Unit{a, b})
	left.Merge(c.Program)
	assert.Equal(t, names(flat.Data), names(left.Data))

	right := uasm.Merge([]uasm.Unit{b, c})
	grouped := uasm.Merge([]uasm.Unit{a, {Kind: uasm.Global, Program: right}})
	assert.Equal(t, names(flat.Data), names(grouped.Data))

	// inputs are untouched
	assert.Equal(t, []string{"a1", "a2"}, names(a.Program.Data))
}

func TestMergeCodeKeyWise(t *testing.T) {
	first := uasm.NewCodeMap()
	first.SetBlock("x", uasm.NewBlock(uasm.Nop()))
	first.SetBlock("y", uasm.NewBlock(uasm.Nop()))
	second := uasm.NewCodeMap()
	second.SetBlock("y", uasm.NewBlock(uasm.Pop()))
	second.SetBlock("z", uasm.NewBlock(uasm.Copy()))

	p := uasm.Merge([]uasm.Unit{
		{Kind: uasm.Global, Program: &uasm.Program{Code: uasm.NewCodeSection(true, first)}},
		{Kind: uasm.NonGlobal, Program: &uasm.Program{}},
		{Kind: uasm.Global, Program: &uasm.Program{Code: uasm.NewCodeSection(false, second)}},
	})

	require.NotNil(t, p.Code)
	assert.False(t, p.Code.Exported)
	assert.Equal(t, []uasm.Label{"x", "y", "z"}, p.Code.Code.Labels())
	y, _ := p.Code.Code.Block("y")
	assert.Equal(t, uasm.OpPop, y.Instructions()[0].Op)
	assert.Equal(t, 2, first.Len())
	assert.Nil(t, p.Data)
}

func TestMergeEmpty(t *testing.T) {
	p := uasm.Merge(nil)
	text, err := uasm.Render(p)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRender(t *testing.T) {
	init := uasm.Int32(42)
	data := uasm.NewDataSection(
		uasm.DataDecl{Variable: uasm.Variable{Name: "__G__0", Type: uasm.TypeInt32, Init: &init}},
		uasm.DataDecl{Attribute: uasm.Export(), Variable: uasm.Variable{Name: "__G__1", Type: uasm.TypeDouble}},
		uasm.DataDecl{Attribute: uasm.Sync(uasm.SyncSmooth), Variable: uasm.Variable{Name: "__G__2", Type: uasm.TypeSingle}},
	)
	code := uasm.NewCodeMap()
	code.SetBlock("_start", uasm.NewBlock(
		uasm.Nop(),
		uasm.Push("__G__0"),
		uasm.Pop(),
		uasm.JumpIfFalse("_start"),
		uasm.JumpIndirect("__G__1"),
		uasm.Copy(),
		uasm.Extern("SystemConsole.__WriteLine__SystemString__SystemVoid"),
		uasm.JumpAddr(uasm.HaltAddress),
	))
	code.SetBlock("_empty", uasm.NewBlock())
	p := &uasm.Program{Data: data, Code: uasm.NewCodeSection(true, code)}

	want := `.data_start
    __G__0: %SystemInt32, 42
    .export __G__1
    __G__1: %SystemDouble, null
    .sync __G__2, smooth
    __G__2: %SystemSingle, null
.data_end
.code_start
    .export _start
    _start:
        NOP
        PUSH,__G__0
        POP
        JUMP_IF_FALSE,_start
        JUMP_INDIRECT,__G__1
        COPY
        EXTERN,"SystemConsole.__WriteLine__SystemString__SystemVoid"
        JUMP,0xFFFFFFFC
    .export _empty
    _empty:
.code_end
`
	text, err := uasm.Render(p)
	require.NoError(t, err)
	assert.Equal(t, want, text)

	again, err := uasm.Render(p)
	require.NoError(t, err)
	assert.Equal(t, text, again)

	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(want)), n)
	assert.Equal(t, want, buf.String())
}

func TestRenderNotExported(t *testing.T) {
	code := uasm.NewCodeMap()
	code.SetBlock("__INIT___G__0", uasm.NewBlock(uasm.Push("__G__1"), uasm.Push("__G__0"), uasm.Copy()))
	text, err := uasm.Render(&uasm.Program{Code: uasm.NewCodeSection(false, code)})
	require.NoError(t, err)
	assert.Equal(t, ".code_start\n    __INIT___G__0:\n        PUSH,__G__1\n        PUSH,__G__0\n        COPY\n.code_end\n", text)
}

func TestRenderAnnotationIsInternal(t *testing.T) {
	code := uasm.NewCodeMap()
	code.SetBlock("l", uasm.NewBlock(uasm.Annotation(uasm.Int32(1))))

	var buf bytes.Buffer
	_, err := (&uasm.Program{Data: uasm.NewDataSection(), Code: uasm.NewCodeSection(false, code)}).WriteTo(&buf)
	require.Error(t, err)
	assert.True(t, errors.IsInternal(err))
	assert.Zero(t, buf.Len(), "no partial output")

	_, err = uasm.RenderInstruction(uasm.Annotation(uasm.Int32(1)))
	assert.True(t, errors.IsInternal(err))
}

func TestRenderInvalidDecl(t *testing.T) {
	tests := []uasm.DataDecl{
		{Variable: uasm.Variable{Name: "t", Type: uasm.Type(99)}},
		{Attribute: uasm.Sync(uasm.SyncMode(7)), Variable: uasm.Variable{Name: "s", Type: uasm.TypeInt32}},
		{Attribute: uasm.DataAttribute{Kind: uasm.AttributeKind(9)}, Variable: uasm.Variable{Name: "a", Type: uasm.TypeInt32}},
	}
	for _, d := range tests {
		_, err := uasm.Render(&uasm.Program{Data: uasm.NewDataSection(d)})
		assert.True(t, errors.IsInternal(err), "decl %s: %v", d.Variable.Name, err)
	}
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "PUSH,__G__0", uasm.Push("__G__0").String())
	assert.Equal(t, `EXTERN,"x"`, uasm.Extern("x").String())
	assert.Equal(t, "ANNOTATION(3)", uasm.Annotation(uasm.Int32(3)).String())
	assert.Equal(t, "global", uasm.Global.String())
}

func TestRenderDecl(t *testing.T) {
	seven := uasm.Int32(7)
	lines, err := uasm.RenderDecl(uasm.DataDecl{
		Variable:  uasm.Variable{Name: "speed", Type: uasm.TypeInt32, Init: &seven},
		Attribute: uasm.Sync(uasm.SyncSmooth),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"    .sync speed, smooth",
		"    speed: %SystemInt32, 7",
	}, lines)

	lines, err = uasm.RenderDecl(uasm.DataDecl{Variable: uasm.Variable{Name: "s", Type: uasm.TypeString}})
	require.NoError(t, err)
	assert.Equal(t, []string{"    s: %SystemString, null"}, lines)

	_, err = uasm.RenderDecl(uasm.DataDecl{Variable: uasm.Variable{Name: "x", Type: uasm.Type(42)}})
	assert.True(t, errors.IsInternal(err))
}

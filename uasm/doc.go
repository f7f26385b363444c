// Package uasm models Udon Assembly programs and renders them as text.
//
// A Program holds an optional DataSection of declarations and an optional
// CodeSection mapping labels to instruction blocks. Units produced per
// source section are folded into one Program with Merge, then rendered:
//
//	p := uasm.Merge(units)
//	text, err := uasm.Render(p)
//
// Rendered output looks like:
//
//	.data_start
//	    __G__0: %SystemInt32, 42
//	.data_end
//	.code_start
//	    __INIT___G__0:
//	.code_end
//
// Labels render in first-insertion order. Annotation instructions exist
// only in the IR; rendering one is an internal error.
package uasm

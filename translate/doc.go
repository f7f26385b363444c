// Package translate interprets decoded WebAssembly sections as Udon
// Assembly IR.
//
// The pipeline decodes the module, interprets each record into a
// uasm.Unit, merges the units front to back and renders the result:
//
//	text, err := translate.NewWithDefaults().Translate(ctx, data)
//
// Only the module header and the global section have interpretations.
// Every other section kind fails with an unsupported section error, and
// operators outside the mapping table fail with an unsupported
// instruction error. New mappings are added as new cases of
// InterpretSection and InterpretOperator.
//
// Globals are named with the mangle package. Each global gets a data
// declaration and an initializer block labelled __INIT_<name>. A constant
// initializer becomes the declaration's initial value; an initializer
// reading another global copies it in the block.
package translate

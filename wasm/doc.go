// Package wasm decodes the WebAssembly binary container into section
// records.
//
// Decoding is incremental. A Parser consumes the unread suffix of the
// module and yields at most one record per call, or asks for more bytes
// when the input ends inside a record and more may still arrive:
//
//	p := wasm.NewParser(0)
//	chunk, err := p.Parse(data, true)
//
// A Decoder owns the cursor over a fully loaded module, and DecodeAll
// walks it to the end marker:
//
//	sections, err := wasm.DecodeAll(wasm.NewDecoder(data, 0))
//
// Records borrow their payloads from the module bytes; nothing is copied,
// so the bytes must outlive the records. Vector sections validate their
// entry count eagerly and decode entries lazily. Global entries are read
// through GlobalSection.Reader, and constant expressions through
// ConstExpr.Operators.
//
// Every failure is an *errors.Error of phase decode. Malformed input is
// kind invalid_data and carries the absolute offset where decoding
// stalled.
package wasm

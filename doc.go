// Package wasmuasm translates WebAssembly binary modules into Udon Assembly.
//
// The translation is a three stage pipeline over a module that is already
// loaded into memory:
//
//	wasmuasm/            Root package with one-call Translate helpers
//	├── wasm/            Streaming section decoder and section records
//	├── mangle/          Variable naming for the target assembly
//	├── translate/       Section and operator interpreters, the Translator
//	├── uasm/            Target IR, unit merging and text rendering
//	├── errors/          Structured errors shared by every stage
//	└── cmd/wasm2uasm/   Command line front end
//
// # Quick Start
//
//	data, _ := os.ReadFile("module.wasm")
//	text, err := wasmuasm.Translate(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(text)
//
// For logging, a starting offset or exported initializers, build a
// translator with options:
//
//	tr := translate.New(translate.Options{Logger: zap.NewExample(), ExportInitializers: true})
//	text, err := tr.Translate(ctx, data)
//
// # Errors
//
// Every failure other than context cancellation is an *errors.Error. Use errors.IsDecode,
// errors.IsUnsupportedSection, errors.IsUnsupportedInstruction,
// errors.IsUnsupportedType and errors.IsInternal to tell them apart. A
// failed translation never returns partial text.
package wasmuasm

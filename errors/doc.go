// Package errors provides structured error types for the translator.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Every stage of the pipeline reports failures through this single channel;
// callers distinguish the outcome by Kind:
//
//	invalid_data             malformed or truncated module bytes
//	unsupported_section      a well-formed section with no interpreter
//	unsupported_instruction  a well-formed operator with no target mapping
//	unsupported_type         a value type with no target mapping
//	internal                 an invariant violation (a defect, never input)
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Offset(12).
//		Detail("section length runs past end of module").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsupportedSection("table")
//	err := errors.InvalidEntry("global", 2, cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

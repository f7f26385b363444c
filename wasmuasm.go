package wasmuasm

import (
	"context"

	"github.com/wippyai/wasm-uasm/translate"
	"github.com/wippyai/wasm-uasm/uasm"
)

// Translate converts a complete WebAssembly module into Udon Assembly text
// using default options.
func Translate(data []byte) (string, error) {
	return translate.NewWithDefaults().Translate(context.Background(), data)
}

// TranslateProgram converts a complete WebAssembly module into the merged
// Udon Assembly IR without rendering it.
func TranslateProgram(data []byte) (*uasm.Program, error) {
	return translate.NewWithDefaults().Program(context.Background(), data)
}

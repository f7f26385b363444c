// Package verify cross-checks input modules against a reference runtime.
package verify

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/wasm-uasm/errors"
)

// Module compiles data with wazero's interpreter and reports a load error
// if the runtime rejects it. Nothing is instantiated.
func Module(ctx context.Context, data []byte) (err error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer func() {
		if cerr := rt.Close(ctx); cerr != nil && err == nil {
			err = errors.Load("close reference runtime", cerr)
		}
	}()

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		return errors.Load("reference runtime rejected module", err)
	}
	return compiled.Close(ctx)
}

package translate

import (
	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/uasm"
	"github.com/wippyai/wasm-uasm/wasm"
)

// TranslateType maps a source value type to its target type. V128 and
// reference types have no target type.
func TranslateType(vt wasm.ValType) (uasm.Type, error) {
	switch vt {
	case wasm.ValI32:
		return uasm.TypeInt32, nil
	case wasm.ValI64:
		return uasm.TypeInt64, nil
	case wasm.ValF32:
		return uasm.TypeSingle, nil
	case wasm.ValF64:
		return uasm.TypeDouble, nil
	}
	return 0, errors.UnsupportedType(vt.String())
}

package wasm

// ValType represents a WebAssembly value type.
// See constants.go for ValI32, ValI64, ValF32, ValF64, etc.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	case ValAnyRef:
		return "anyref"
	case ValEqRef:
		return "eqref"
	case ValI31Ref:
		return "i31ref"
	case ValStructRef:
		return "structref"
	case ValArrayRef:
		return "arrayref"
	case ValNullRef:
		return "nullref"
	case ValNullExternRef:
		return "nullexternref"
	case ValNullFuncRef:
		return "nullfuncref"
	case ValRefNull:
		return "ref null"
	case ValRef:
		return "ref"
	default:
		return "unknown"
	}
}

// IsValid reports whether v is a value type the binary format defines.
func (v ValType) IsValid() bool {
	return v.String() != "unknown"
}

// GlobalType describes a global variable's type and mutability.
type GlobalType struct {
	ValType ValType
	// HeapType is set for (ref ht) and (ref null ht) value types.
	HeapType int64
	Mutable  bool
}

// Global represents one entry of the global section.
type Global struct {
	Type GlobalType
	Init ConstExpr
}

// ConstExpr is an initializer expression. Data borrows the module bytes and
// includes the terminating end opcode.
type ConstExpr struct {
	Data   []byte
	Offset int
}

// Operators returns a reader over the expression's operators.
func (e ConstExpr) Operators() *OperatorReader {
	return NewOperatorReader(e.Data, e.Offset)
}

package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01

	// HeaderSize is the size of the magic number plus version preamble.
	HeaderSize = 8
)

// Section IDs define the binary identifiers for each module section.
// Sections must appear in canonical order (except custom sections).
const (
	SectionCustom    byte = 0  // Custom section (can appear anywhere)
	SectionType      byte = 1  // Type section (function signatures)
	SectionImport    byte = 2  // Import section
	SectionFunction  byte = 3  // Function section (type indices)
	SectionTable     byte = 4  // Table section
	SectionMemory    byte = 5  // Memory section
	SectionGlobal    byte = 6  // Global section
	SectionExport    byte = 7  // Export section
	SectionStart     byte = 8  // Start section
	SectionElement   byte = 9  // Element section
	SectionCode      byte = 10 // Code section (function bodies)
	SectionData      byte = 11 // Data section
	SectionDataCount byte = 12 // Data count section (bulk memory)
	SectionTag       byte = 13 // Tag section (exception handling)

	maxSectionID = SectionTag
)

// Value type encodings as defined in the WebAssembly binary format.
const (
	ValI32     ValType = 0x7F // 32-bit integer
	ValI64     ValType = 0x7E // 64-bit integer
	ValF32     ValType = 0x7D // 32-bit float
	ValF64     ValType = 0x7C // 64-bit float
	ValV128    ValType = 0x7B // 128-bit vector (SIMD)
	ValFuncRef ValType = 0x70 // Function reference
	ValExtern  ValType = 0x6F // External reference

	// GC proposal reference types
	ValRefNull       ValType = 0x63 // (ref null ht)
	ValRef           ValType = 0x64 // (ref ht)
	ValNullFuncRef   ValType = 0x73
	ValNullExternRef ValType = 0x72
	ValNullRef       ValType = 0x71
	ValEqRef         ValType = 0x6D
	ValI31Ref        ValType = 0x6C
	ValStructRef     ValType = 0x6B
	ValArrayRef      ValType = 0x6A
	ValAnyRef        ValType = 0x6E
)

// Block type constants
const (
	BlockTypeVoid int32 = -64 // 0x40
)

// Control flow opcodes
const (
	OpUnreachable  byte = 0x00
	OpNop          byte = 0x01
	OpBlock        byte = 0x02
	OpLoop         byte = 0x03
	OpIf           byte = 0x04
	OpElse         byte = 0x05
	OpEnd          byte = 0x0B
	OpBr           byte = 0x0C
	OpBrIf         byte = 0x0D
	OpBrTable      byte = 0x0E
	OpReturn       byte = 0x0F
	OpCall         byte = 0x10
	OpCallIndirect byte = 0x11
)

// Reference type opcodes
const (
	OpRefNull   byte = 0xD0
	OpRefIsNull byte = 0xD1
	OpRefFunc   byte = 0xD2
)

// Parametric opcodes
const (
	OpDrop       byte = 0x1A
	OpSelect     byte = 0x1B
	OpSelectType byte = 0x1C
)

// Variable access opcodes
const (
	OpLocalGet  byte = 0x20
	OpLocalSet  byte = 0x21
	OpLocalTee  byte = 0x22
	OpGlobalGet byte = 0x23
	OpGlobalSet byte = 0x24
)

// Table opcodes
const (
	OpTableGet byte = 0x25
	OpTableSet byte = 0x26
)

// Memory opcodes. Loads and stores span OpI32Load..OpI64Store32 and all
// carry a memarg immediate.
const (
	OpI32Load    byte = 0x28
	OpI64Store32 byte = 0x3E
	OpMemorySize byte = 0x3F
	OpMemoryGrow byte = 0x40
)

// Constant opcodes
const (
	OpI32Const byte = 0x41
	OpI64Const byte = 0x42
	OpF32Const byte = 0x43
	OpF64Const byte = 0x44
)

// Numeric opcodes without immediates span OpI32Eqz..OpI64Extend32S.
const (
	OpI32Eqz       byte = 0x45
	OpI32Add       byte = 0x6A
	OpI64Extend32S byte = 0xC4
)

// Prefixed opcode families
const (
	OpPrefixMisc byte = 0xFC
	OpPrefixSIMD byte = 0xFD
)

// Sub-opcodes under OpPrefixMisc and OpPrefixSIMD that the decoder understands.
const (
	MiscI32TruncSatF32S uint32 = 0x00
	MiscI64TruncSatF64U uint32 = 0x07

	SIMDV128Const uint32 = 0x0C
)

// memArgMultiMemBit flags a memarg carrying an explicit memory index.
const memArgMultiMemBit = 0x40

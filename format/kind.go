// Package format holds the wire-level constants shared by every scda
// component (section kind tags and fixed field widths) together with the
// file header, section header and user-string encoding built on them.
// It depends only on pad, which holds the padding schemes.
package format

// SectionKind identifies one of the four section payload shapes a scda
// file can hold.
type SectionKind byte

const (
	// KindInline is the 'I' section: exactly 32 payload bytes, no padding.
	KindInline SectionKind = 'I'
	// KindBlock is the 'B' section: N payload bytes then modular padding.
	KindBlock SectionKind = 'B'
	// KindArray is the 'A' section: C fixed-size elements then modular padding.
	KindArray SectionKind = 'A'
	// KindVarray is the 'V' section: a fixed-array of sizes, then the
	// concatenated variable-size elements, then modular padding.
	KindVarray SectionKind = 'V'
)

// String renders the kind tag as a single-character string for logging
// and error messages.
func (k SectionKind) String() string {
	switch k {
	case KindInline:
		return "I"
	case KindBlock:
		return "B"
	case KindArray:
		return "A"
	case KindVarray:
		return "V"
	default:
		return "?"
	}
}

// Valid reports whether k is one of the four defined section kinds.
func (k SectionKind) Valid() bool {
	switch k {
	case KindInline, KindBlock, KindArray, KindVarray:
		return true
	default:
		return false
	}
}

package format

// Fixed byte widths of the scda wire format. These are bit-exact layout
// constants; changing any of them changes the on-disk format.
const (
	// Magic is the 7-byte file magic that opens every scda file.
	Magic = "scdata0"

	// VendorString is the implementation string stamped into every file
	// header written by this module.
	VendorString = "scda-go"

	// HeaderBytes is the total size of the file header (magic, vendor
	// field, file tag, user string field, trailing modular padding).
	HeaderBytes = 128

	// VendorFieldBytes is the fixed-length-padded field that carries the
	// vendor string in the file header.
	VendorFieldBytes = 24

	// UserStringBytes is the maximum number of content bytes a user
	// string may carry (file header or section header).
	UserStringBytes = 58

	// UserStringFieldBytes is the fixed-length-padded field width that
	// carries a user string (58 content bytes + ' ' + '-' filler + '\n').
	UserStringFieldBytes = 62

	// HeaderTrailingPadBytes is the modular padding block that terminates
	// the file header, computed over an empty raw region.
	HeaderTrailingPadBytes = 32

	// ModularUnit is the alignment granularity of modular padding.
	ModularUnit = 32

	// ModularMinPad is the minimum number of modular padding bytes ever
	// emitted, even when the raw length is already a multiple of
	// ModularUnit.
	ModularMinPad = 7

	// SizeFieldDigits is the width, in ASCII decimal digits, of a section
	// header sizing numeral. 26 digits covers the largest legal block
	// size (10^26 - 1) named in the format's invariants and is reused for
	// every sizing numeral for a uniform, simply-parsed header.
	SizeFieldDigits = 26

	// InlinePayloadBytes is the fixed payload size of an 'I' section.
	InlinePayloadBytes = 32

	// VarraySizeFieldBytes is the width, in bytes, of one element-size
	// entry in a 'V' section's internal sizes sub-section.
	VarraySizeFieldBytes = 8
)

// MaxSizeValue is the largest sizing numeral (10^26 - 1) the section
// header's fixed-width decimal fields can name. Every uint64 byte count
// or element count scda deals with is far below this bound, so the
// practical constraint enforced by the writer is just "fits in a uint64".
const MaxSizeValue = "99999999999999999999999999" // 26 nines

// SectionHeaderBytes is the total width of a section header: kind tag,
// separator, the elem_count and elem_size decimal numerals each with
// their own separator, then the user-string field. This is fixed and
// identical across all four section kinds, matching the worked example
// in the format's concrete scenarios (a 'B' section reports elem_count
// = 0, elem_size = 13, so every kind carries both numerals uniformly).
const SectionHeaderBytes = 1 + 1 + SizeFieldDigits + 1 + SizeFieldDigits + 1 + UserStringFieldBytes


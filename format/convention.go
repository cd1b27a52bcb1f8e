package format

import "bytes"

// EncodeConventionSuffix is appended to a section's user string on write
// when its payload carries the encoding envelope (format §3's "optional
// encoded envelope"). Reading a section header returns the user string
// with the suffix still attached; StripEncodeConvention removes it on
// request. A reader that opts
// into decoding inspects the user string for this suffix to recognize an
// encoded section before attempting to decode its payload.
const EncodeConventionSuffix = " #scda-zenc"

// MarkEncoded appends the encoding convention suffix to s, failing if the
// combined length would exceed UserStringBytes.
func MarkEncoded(s []byte) ([]byte, error) {
	marked := append(append([]byte(nil), s...), EncodeConventionSuffix...)

	return marked, ValidateUserString(marked)
}

// HasEncodeConvention reports whether s carries the encoding convention
// suffix.
func HasEncodeConvention(s []byte) bool {
	return bytes.HasSuffix(s, []byte(EncodeConventionSuffix))
}

// StripEncodeConvention removes the encoding convention suffix from s, if
// present.
func StripEncodeConvention(s []byte) []byte {
	if !HasEncodeConvention(s) {
		return s
	}

	return s[:len(s)-len(EncodeConventionSuffix)]
}

package format

import (
	"bytes"
	"fmt"

	"github.com/arloliu/scda/pad"
)

// ValidateUserString checks s against invariant 5: at most UserStringBytes
// bytes of content and nul-free in stored form.
func ValidateUserString(s []byte) error {
	if len(s) > UserStringBytes {
		return fmt.Errorf("format: user string of %d bytes exceeds the %d-byte limit", len(s), UserStringBytes)
	}
	if bytes.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("format: user string contains a NUL byte")
	}

	return nil
}

// EncodeUserString fixed-length-pads a validated user string to
// UserStringFieldBytes.
func EncodeUserString(s []byte) ([]byte, error) {
	if err := ValidateUserString(s); err != nil {
		return nil, err
	}

	return pad.FixedLen(s, UserStringFieldBytes)
}

// DecodeUserString reverses EncodeUserString.
func DecodeUserString(field []byte) ([]byte, error) {
	if len(field) != UserStringFieldBytes {
		return nil, fmt.Errorf("format: user string field is %d bytes, want %d", len(field), UserStringFieldBytes)
	}

	return pad.UnfixedLen(field)
}

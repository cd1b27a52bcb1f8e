package format

import (
	"bytes"
	"fmt"

	"github.com/arloliu/scda/pad"
)

// FileHeader is the bit-exact 128-byte record that opens every scda
// file (format §6): the magic, an implementation vendor string, the
// literal file tag 'F', and the caller's user string, followed by a
// trailing modular-padding block computed over an empty raw region.
type FileHeader struct {
	Vendor     string
	UserString []byte
}

// Bytes renders h into the exact 128-byte on-disk representation.
func (h FileHeader) Bytes() ([]byte, error) {
	vendorField, err := pad.FixedLen([]byte(h.Vendor), VendorFieldBytes)
	if err != nil {
		return nil, fmt.Errorf("format: encoding vendor field: %w", err)
	}

	userField, err := EncodeUserString(h.UserString)
	if err != nil {
		return nil, fmt.Errorf("format: encoding file header user string: %w", err)
	}

	trailer := pad.Modular(nil)
	if len(trailer) != HeaderTrailingPadBytes {
		return nil, fmt.Errorf("format: internal error, empty-region modular pad is %d bytes, want %d", len(trailer), HeaderTrailingPadBytes)
	}

	out := make([]byte, 0, HeaderBytes)
	out = append(out, Magic...)
	out = append(out, ' ')
	out = append(out, vendorField...)
	out = append(out, 'F', ' ')
	out = append(out, userField...)
	out = append(out, trailer...)

	if len(out) != HeaderBytes {
		return nil, fmt.Errorf("format: internal error, built header is %d bytes, want %d", len(out), HeaderBytes)
	}

	return out, nil
}

// ParseFileHeader validates buf (which must be exactly HeaderBytes long)
// and extracts its vendor and user strings. Any structural deviation is
// reported as a FORMAT-class error at the caller.
func ParseFileHeader(buf []byte) (*FileHeader, error) {
	if len(buf) != HeaderBytes {
		return nil, fmt.Errorf("format: file header is %d bytes, want %d", len(buf), HeaderBytes)
	}
	if !bytes.HasPrefix(buf, []byte(Magic)) {
		return nil, fmt.Errorf("format: bad magic %q", buf[:len(Magic)])
	}
	if buf[len(Magic)] != ' ' {
		return nil, fmt.Errorf("format: missing separator after magic")
	}

	off := len(Magic) + 1
	vendorField := buf[off : off+VendorFieldBytes]
	vendor, err := pad.UnfixedLen(vendorField)
	if err != nil {
		return nil, fmt.Errorf("format: vendor field: %w", err)
	}
	off += VendorFieldBytes

	if buf[off] != 'F' || buf[off+1] != ' ' {
		return nil, fmt.Errorf("format: missing file tag at offset %d", off)
	}
	off += 2

	userField := buf[off : off+UserStringFieldBytes]
	userString, err := DecodeUserString(userField)
	if err != nil {
		return nil, fmt.Errorf("format: user string field: %w", err)
	}
	off += UserStringFieldBytes

	trailer := buf[off:]
	if _, err := pad.Unmodular(trailer, 0); err != nil {
		return nil, fmt.Errorf("format: trailing padding: %w", err)
	}

	return &FileHeader{Vendor: string(vendor), UserString: userString}, nil
}

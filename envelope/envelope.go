// Package envelope implements the scda encoding envelope (format §3,
// §4.2): a 9-byte length-and-format preamble, zlib deflate, and a
// mandatory-line-break base64 armor with a trailing NUL. It is the only
// place in the module that talks to the compress package; the section
// engine in fcontext treats it as an opaque byte-string transform.
package envelope

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/arloliu/scda/compress"
)

// FormatZlib is the only format tag this module's wire format allows.
const FormatZlib byte = 'z'

// PreambleBytes is the length of the cleartext header prepended to the
// compressed payload before base64 armoring: 8 bytes big-endian original
// length, 1 format tag byte.
const PreambleBytes = 9

// chunkBytes is the number of raw (pre-base64) bytes encoded per output
// line; 54 is the largest multiple of 3 such that 54*4/3 == 72 code
// characters, matching the original libsc encoder's line width.
const chunkBytes = 54

// LineBreak is the two-byte sequence appended after every base64 output
// line. Only the decoder's base64-alphabet filter matters for decoding,
// so any two bytes are legal on encode.
type LineBreak [2]byte

// DefaultLineBreak is used by Encode when the caller does not care about
// the specific break bytes.
var DefaultLineBreak = LineBreak{'\n', '\n'}

// ErrMalformed reports a structural problem with an encoded envelope:
// too short to hold a preamble, a base64 decoding failure, a decompressed
// length that does not match the declared size, or (in the pure-fallback
// compress build) an Adler-32 mismatch. Callers map this to the DECODE
// error class.
var ErrMalformed = errors.New("envelope: malformed encoding envelope")

// ErrInput reports a caller-facing input problem: a string that is not
// NUL-terminated, or a format tag this module does not recognize.
// Callers map this to the INPUT error class.
var ErrInput = errors.New("envelope: invalid input")

// Encode wraps raw in the scda encoding envelope: a cleartext 9-byte
// preamble naming len(raw) and the 'z' format tag, zlib-deflated at the
// given level, then base64-armored with lineBreak inserted after every
// 72-character line and a terminating NUL byte.
//
// level follows zlib's convention: 0-9, or compress.DefaultLevel (-1)
// for the library default.
func Encode(raw []byte, level int, lineBreak LineBreak, codec compress.Codec) ([]byte, error) {
	if codec == nil {
		codec = compress.NewZlibCodec()
	}

	preamble := make([]byte, PreambleBytes)
	binary.BigEndian.PutUint64(preamble[:8], uint64(len(raw)))
	preamble[8] = FormatZlib

	compressed, err := codec.Compress(raw, level)
	if err != nil {
		return nil, fmt.Errorf("envelope: compress: %w", err)
	}

	payload := make([]byte, 0, len(preamble)+len(compressed))
	payload = append(payload, preamble...)
	payload = append(payload, compressed...)

	return armor(payload, lineBreak), nil
}

// armor base64-encodes payload in chunkBytes-sized input chunks, each
// chunk's output line terminated by lineBreak, with a trailing NUL byte
// closing the whole string.
func armor(payload []byte, lineBreak LineBreak) []byte {
	lineChars := base64.StdEncoding.EncodedLen(chunkBytes)
	numChunks := (len(payload) + chunkBytes - 1) / chunkBytes
	if numChunks == 0 {
		numChunks = 1
	}

	out := make([]byte, 0, numChunks*(lineChars+2)+1)
	for i := 0; i < numChunks; i++ {
		n := chunkBytes
		if n > len(payload) {
			n = len(payload)
		}

		encLen := base64.StdEncoding.EncodedLen(n)
		line := make([]byte, encLen)
		base64.StdEncoding.Encode(line, payload[:n])
		out = append(out, line...)
		out = append(out, lineBreak[0], lineBreak[1])

		payload = payload[n:]
	}
	out = append(out, 0)

	return out
}

// DecodeInfo cheaply inspects an encoded envelope without inflating it:
// it decodes only the first 12 base64 characters (which always contain
// the full 9-byte preamble, since the format forbids line breaks within
// the first chunk) and reports the declared original size and format
// tag. It never panics on malformed input.
func DecodeInfo(data []byte) (originalSize int64, formatChar byte, err error) {
	if len(data) < 12 {
		return 0, 0, fmt.Errorf("%w: need at least 12 base64 bytes, got %d", ErrMalformed, len(data))
	}

	buf := make([]byte, base64.StdEncoding.DecodedLen(12))
	n, decErr := base64.StdEncoding.Decode(buf, data[:12])
	if decErr != nil {
		return 0, 0, fmt.Errorf("%w: decode-info base64: %v", ErrMalformed, decErr)
	}
	if n < PreambleBytes {
		return 0, 0, fmt.Errorf("%w: decode-info produced only %d bytes", ErrMalformed, n)
	}

	return int64(binary.BigEndian.Uint64(buf[:8])), buf[8], nil
}

// Decode reverses Encode: it strips line breaks, base64-decodes,
// confirms the preamble and format tag, inflates the compressed payload
// (bounded by maxOriginalSize), and checks the inflated length against
// the declared size.
func Decode(data []byte, maxOriginalSize int64, codec compress.Codec) ([]byte, error) {
	if codec == nil {
		codec = compress.NewZlibCodec()
	}

	if len(data) == 0 || data[len(data)-1] != 0 {
		return nil, fmt.Errorf("%w: envelope is not NUL-terminated", ErrInput)
	}

	clean := stripNonBase64(data[:len(data)-1])

	payload := make([]byte, base64.StdEncoding.DecodedLen(len(clean)))
	n, err := base64.StdEncoding.Decode(payload, clean)
	if err != nil {
		return nil, fmt.Errorf("%w: base64 decode: %v", ErrMalformed, err)
	}
	payload = payload[:n]

	if len(payload) < PreambleBytes {
		return nil, fmt.Errorf("%w: payload shorter than preamble", ErrMalformed)
	}

	declared := binary.BigEndian.Uint64(payload[:8])
	tag := payload[8]
	if tag != FormatZlib {
		return nil, fmt.Errorf("%w: unknown format tag %q", ErrInput, tag)
	}

	raw, err := codec.DecompressLimit(payload[PreambleBytes:], maxOriginalSize)
	if err != nil {
		return nil, fmt.Errorf("%w: inflate: %v", ErrMalformed, err)
	}
	if uint64(len(raw)) != declared {
		return nil, fmt.Errorf("%w: inflated length %d does not match declared length %d", ErrMalformed, len(raw), declared)
	}

	return raw, nil
}

// stripNonBase64 drops every byte that is not part of the standard
// base64 alphabet (including '='), which removes line breaks regardless
// of which two bytes the encoder used.
func stripNonBase64(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if isBase64Byte(b) {
			out = append(out, b)
		}
	}

	return out
}

func isBase64Byte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '+' || b == '/' || b == '=':
		return true
	default:
		return false
	}
}

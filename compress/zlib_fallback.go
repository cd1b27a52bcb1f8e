//go:build scda_no_zlib

// This file provides the "zlib absent" build variant described by format
// §4.2: a hand-rolled, conforming-but-uncompressed deflate stream plus an
// Adler-32 trailer, selected with the scda_no_zlib build tag.
package compress

import (
	"encoding/binary"
	"fmt"
)

const noncompBlock = 65531 // +5 byte block header = 64KiB

// ZlibCodec is the fallback Codec used when this module is built with
// -tags scda_no_zlib, simulating an environment with no zlib library:
// it still emits a structurally valid zlib stream (correct 2-byte
// header and Adler-32 trailer), just with stored (uncompressed) deflate
// blocks instead of real compression.
type ZlibCodec struct{}

var _ Codec = ZlibCodec{}

// NewZlibCodec returns the fallback zlib-compatible Codec.
func NewZlibCodec() ZlibCodec { return ZlibCodec{} }

// Compress implements Codec. The level parameter is accepted for
// interface symmetry but has no effect: stored blocks carry no
// compression level.
func (ZlibCodec) Compress(data []byte, _ int) ([]byte, error) {
	numBlocks := (len(data) + noncompBlock - 1) / noncompBlock
	if numBlocks == 0 {
		numBlocks = 1
	}

	out := make([]byte, 0, 2+5*numBlocks+len(data)+4)
	out = append(out, (7<<4)+8, 1)

	src := data
	for {
		bsize := len(src)
		final := true
		if bsize > noncompBlock {
			bsize = noncompBlock
			final = false
		}

		if final {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}

		nsize := ^uint16(bsize)
		out = binary.LittleEndian.AppendUint16(out, uint16(bsize))
		out = binary.LittleEndian.AppendUint16(out, nsize)
		out = append(out, src[:bsize]...)

		src = src[bsize:]
		if len(src) == 0 {
			break
		}
	}

	sum := adler32Sum(data)
	out = binary.BigEndian.AppendUint32(out, sum)

	return out, nil
}

// Decompress implements Codec.
func (c ZlibCodec) Decompress(data []byte) ([]byte, error) {
	return c.DecompressLimit(data, int64(len(data))*1024+1<<20)
}

// DecompressLimit implements Codec.
func (ZlibCodec) DecompressLimit(data []byte, maxSize int64) ([]byte, error) {
	if len(data) < 2+4 {
		return nil, fmt.Errorf("decompress: stream too short")
	}
	if data[0] != (7<<4)+8 {
		return nil, fmt.Errorf("decompress: bad zlib CMF byte")
	}

	pos := 2
	out := make([]byte, 0, len(data))
	for {
		if pos >= len(data)-4 {
			return nil, fmt.Errorf("decompress: truncated stored block header")
		}
		hdr := data[pos]
		final := hdr&0x01 != 0
		pos++

		if pos+4 > len(data) {
			return nil, fmt.Errorf("decompress: truncated block length")
		}
		bsize := binary.LittleEndian.Uint16(data[pos:])
		nsize := binary.LittleEndian.Uint16(data[pos+2:])
		pos += 4
		if bsize != ^nsize {
			return nil, fmt.Errorf("decompress: LEN/NLEN mismatch in stored block")
		}

		if pos+int(bsize) > len(data) {
			return nil, fmt.Errorf("decompress: truncated block data")
		}
		out = append(out, data[pos:pos+int(bsize)]...)
		pos += int(bsize)

		if int64(len(out)) > maxSize {
			return nil, fmt.Errorf("decompress: output exceeds max size %d", maxSize)
		}
		if final {
			break
		}
	}

	if pos+4 != len(data) {
		return nil, fmt.Errorf("decompress: trailing bytes after adler32")
	}
	want := binary.BigEndian.Uint32(data[pos:])
	got := adler32Sum(out)
	if want != got {
		return nil, fmt.Errorf("decompress: adler32 mismatch: stream has %08x, computed %08x", want, got)
	}

	return out, nil
}

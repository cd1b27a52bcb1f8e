//go:build !scda_no_zlib

package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZlibCodec is the default Codec, backed by klauspost/compress/zlib, a
// pure-Go compression package. This is the build variant used whenever
// a real zlib implementation is available, matching the "full MPI-IO"
// style default variant the rest of the module follows: the fast,
// fully capable path is unconditional unless a caller opts out.
type ZlibCodec struct{}

var _ Codec = ZlibCodec{}

// NewZlibCodec returns the default zlib-backed Codec.
func NewZlibCodec() ZlibCodec { return ZlibCodec{} }

// Compress implements Codec.
func (ZlibCodec) Compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("compress: zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("compress: zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress: zlib close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress implements Codec.
func (ZlibCodec) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress: zlib reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress: zlib read: %w", err)
	}

	return out, nil
}

// DecompressLimit implements Codec.
func (ZlibCodec) DecompressLimit(data []byte, maxSize int64) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress: zlib reader: %w", err)
	}
	defer r.Close()

	limited := io.LimitReader(r, maxSize+1)
	out, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("decompress: zlib read: %w", err)
	}
	if int64(len(out)) > maxSize {
		return nil, fmt.Errorf("decompress: output exceeds max size %d", maxSize)
	}

	return out, nil
}

// Package compress provides the zlib codec backing the scda encoding
// envelope (format §4.2): a small Codec interface plus one concrete
// implementation, selected at build time via build tags. The envelope's
// wire format fixes its format byte to 'z' (zlib), so there is no legal
// place in the format for a second compressor.
package compress

// Codec compresses and decompresses a raw byte payload using the zlib
// (RFC 1950) container format.
type Codec interface {
	// Compress deflates data at the given zlib compression level
	// (0-9, or -1 for the library default).
	Compress(data []byte, level int) ([]byte, error)

	// Decompress inflates a zlib stream produced by Compress (or by any
	// conforming zlib encoder) back to its original bytes.
	Decompress(data []byte) ([]byte, error)

	// DecompressLimit inflates like Decompress but aborts with an error
	// once more than maxSize bytes have been produced, bounding memory
	// use against a maliciously large or corrupt declared size.
	DecompressLimit(data []byte, maxSize int64) ([]byte, error)
}

// DefaultLevel mirrors zlib's notion of "let the library decide".
const DefaultLevel = -1

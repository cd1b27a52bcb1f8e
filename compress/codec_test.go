package compress_test

import (
	"bytes"
	"testing"

	"github.com/arloliu/scda/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZlibCodecRoundTrip(t *testing.T) {
	codec := compress.NewZlibCodec()

	cases := [][]byte{
		nil,
		[]byte("hello"),
		bytes.Repeat([]byte{0}, 1<<20),
		bytes.Repeat([]byte("scda"), 20000),
	}

	for _, raw := range cases {
		compressed, err := codec.Compress(raw, compress.DefaultLevel)
		require.NoError(t, err)

		got, err := codec.Decompress(compressed)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(raw, got), "round trip of %d bytes", len(raw))
	}
}

func TestZlibCodecDecompressLimitRejectsOversizedOutput(t *testing.T) {
	codec := compress.NewZlibCodec()

	raw := bytes.Repeat([]byte{'x'}, 4096)
	compressed, err := codec.Compress(raw, compress.DefaultLevel)
	require.NoError(t, err)

	_, err = codec.DecompressLimit(compressed, 10)
	require.Error(t, err)
}

package pad_test

import (
	"testing"

	"github.com/arloliu/scda/pad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedLenRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("hello"),
		[]byte("hello, world!"),
	}

	for _, raw := range cases {
		padded, err := pad.FixedLen(raw, 62)
		require.NoError(t, err)
		require.Len(t, padded, 62)
		assert.Equal(t, byte('\n'), padded[len(padded)-1])

		got, err := pad.UnfixedLen(padded)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	}
}

func TestFixedLenRejectsOverlong(t *testing.T) {
	raw := make([]byte, 59) // field-4 bound for a 62-wide field is 58
	_, err := pad.FixedLen(raw, 62)
	require.Error(t, err)
}

func TestUnfixedLenRejectsMalformed(t *testing.T) {
	_, err := pad.UnfixedLen([]byte("no-newline"))
	require.Error(t, err)

	_, err = pad.UnfixedLen([]byte("missing-space-----\n"))
	require.Error(t, err)
}

func TestModularRoundTrip(t *testing.T) {
	for n := 0; n < 200; n++ {
		raw := make([]byte, n)
		for i := range raw {
			raw[i] = byte('a' + i%26)
		}

		padded := pad.Modular(raw)
		assert.GreaterOrEqual(t, len(padded)-n, 7)
		assert.Zero(t, len(padded)%32)

		got, err := pad.Unmodular(padded, n)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	}
}

func TestModularBoundaryByteDependsOnTrailingNewline(t *testing.T) {
	raw := []byte("abc\n")
	padded := pad.Modular(raw)
	assert.Equal(t, byte('='), padded[len(raw)])

	raw2 := []byte("abc")
	padded2 := pad.Modular(raw2)
	assert.Equal(t, byte('\n'), padded2[len(raw2)])
}

func TestModularSuffixMatchesModular(t *testing.T) {
	for _, raw := range [][]byte{[]byte(""), []byte("abc"), []byte("abc\n"), make([]byte, 40)} {
		full := pad.Modular(raw)
		lastByte := byte(0)
		if len(raw) > 0 {
			lastByte = raw[len(raw)-1]
		}
		suffix := pad.ModularSuffix(len(raw), lastByte)
		assert.Equal(t, full[len(raw):], suffix)
	}
}

func TestUnmodularRejectsCorruption(t *testing.T) {
	raw := []byte("payload")
	padded := pad.Modular(raw)
	padded[len(raw)+2] = 'x'

	_, err := pad.Unmodular(padded, len(raw))
	require.Error(t, err)
}

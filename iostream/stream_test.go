package iostream_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/scda/iostream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySinkSourceRoundTrip(t *testing.T) {
	sink := iostream.NewMemorySink(16)
	_, err := sink.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, sink.Align(8))
	require.NoError(t, sink.Complete())

	assert.Len(t, sink.Bytes(), 8)

	src := iostream.NewMemorySource(sink.Bytes())
	got := make([]byte, 5)
	_, err = src.Read(got)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	require.NoError(t, src.Align(8))
	assert.Equal(t, 0, src.Remaining())
	require.NoError(t, src.Complete())
}

func TestMemorySourceMirror(t *testing.T) {
	mirror := iostream.NewMemorySink(4)
	src := iostream.NewMemorySource([]byte("abcdef")).WithMirror(mirror)

	buf := make([]byte, 4)
	_, err := src.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(mirror.Bytes()))
}

func TestMemorySourceShortReadIsFatal(t *testing.T) {
	src := iostream.NewMemorySource([]byte("ab"))
	_, err := src.Read(make([]byte, 10))
	require.Error(t, err)
}

func TestFileSinkSourceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "test.scda")

	sink, err := iostream.NewFileSink(name, iostream.ModeWrite)
	require.NoError(t, err)
	_, err = sink.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, sink.Align(16))
	require.NoError(t, sink.Complete())

	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, int64(16), info.Size())

	source, err := iostream.NewFileSource(name)
	require.NoError(t, err)
	got := make([]byte, 10)
	_, err = source.Read(got)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(got))
	require.NoError(t, source.Complete())
}

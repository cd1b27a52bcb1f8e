package fcontext_test

import (
	"sync"
	"testing"

	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/fcontext"
	"github.com/arloliu/scda/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCollective invokes fn once per rank concurrently and returns each
// rank's results in rank order, the pattern every SPMD collective call in
// this package requires for a LocalGroup-backed Comm/Opener.
func runCollective[T any](n int, fn func(rank int) T) []T {
	out := make([]T, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(rank int) {
			defer wg.Done()
			out[rank] = fn(rank)
		}(i)
	}
	wg.Wait()

	return out
}

func TestArraySectionUnevenPartitionRoundTrip(t *testing.T) {
	path := t.TempDir() + "/array.scda"

	writeGroup, writeComms := comm.NewLocalGroup(3)
	writeOpeners := comm.NewLocalOpeners(writeGroup, comm.FullIO)

	type openResult struct {
		ctx  *fcontext.Context
		code bool
	}
	opened := runCollective(3, func(rank int) openResult {
		ctx, code := fcontext.OpenWrite(writeComms[rank], writeOpeners[rank], path, []byte("array demo"))

		return openResult{ctx, code.OK()}
	})
	for _, r := range opened {
		require.True(t, r.code)
	}

	writeCounts := []uint64{3, 0, 4}
	localData := [][]byte{
		{1, 2, 3},
		{},
		{4, 5, 6, 7},
	}
	writeCodes := runCollective(3, func(rank int) bool {
		return opened[rank].ctx.WriteArray(localData[rank], writeCounts, 7, 1, []byte("bytes")).OK()
	})
	for _, ok := range writeCodes {
		assert.True(t, ok)
	}

	closeCodes := runCollective(3, func(rank int) bool {
		return opened[rank].ctx.Close().OK()
	})
	for _, ok := range closeCodes {
		assert.True(t, ok)
	}

	readGroup, readComms := comm.NewLocalGroup(2)
	readOpeners := comm.NewLocalOpeners(readGroup, comm.FullIO)

	ropened := runCollective(2, func(rank int) openResult {
		ctx, _, code := fcontext.OpenRead(readComms[rank], readOpeners[rank], path)

		return openResult{ctx, code.OK()}
	})
	for _, r := range ropened {
		require.True(t, r.code)
	}

	type headerResult struct {
		kind format.SectionKind
		ok   bool
	}
	headers := runCollective(2, func(rank int) headerResult {
		hdr, code := ropened[rank].ctx.ReadSectionHeader()
		if !code.OK() {
			return headerResult{ok: false}
		}

		return headerResult{kind: hdr.Kind, ok: true}
	})
	for _, h := range headers {
		require.True(t, h.ok)
		assert.Equal(t, format.KindArray, h.kind)
	}

	readCounts := []uint64{5, 2}
	data := runCollective(2, func(rank int) []byte {
		local, code := ropened[rank].ctx.ReadArrayData(readCounts)
		require.True(t, code.OK())

		return local
	})
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, data[0])
	assert.Equal(t, []byte{6, 7}, data[1])

	for _, ok := range runCollective(2, func(rank int) bool { return ropened[rank].ctx.Close().OK() }) {
		assert.True(t, ok)
	}
}

func TestVarraySectionRoundTrip(t *testing.T) {
	path := t.TempDir() + "/varray.scda"

	wg, wcomms := comm.NewLocalGroup(2)
	wopeners := comm.NewLocalOpeners(wg, comm.FullIO)

	type openResult struct {
		ctx  *fcontext.Context
		code bool
	}
	opened := runCollective(2, func(rank int) openResult {
		ctx, code := fcontext.OpenWrite(wcomms[rank], wopeners[rank], path, nil)

		return openResult{ctx, code.OK()}
	})
	for _, r := range opened {
		require.True(t, r.code)
	}

	counts := []uint64{2, 1}
	localSizes := [][]uint64{{1, 5}, {2}}
	localPayloads := [][]byte{
		{'a', 'b', 'c', 'd', 'e', 'f'},
		{'x', 'y'},
	}
	writeCodes := runCollective(2, func(rank int) bool {
		return opened[rank].ctx.WriteVarray(localSizes[rank], localPayloads[rank], counts, 3, []byte("varray")).OK()
	})
	for _, ok := range writeCodes {
		assert.True(t, ok)
	}

	for _, ok := range runCollective(2, func(rank int) bool { return opened[rank].ctx.Close().OK() }) {
		assert.True(t, ok)
	}

	rg, rcomms := comm.NewLocalGroup(2)
	ropeners := comm.NewLocalOpeners(rg, comm.FullIO)

	ropened := runCollective(2, func(rank int) openResult {
		ctx, _, code := fcontext.OpenRead(rcomms[rank], ropeners[rank], path)

		return openResult{ctx, code.OK()}
	})
	for _, r := range ropened {
		require.True(t, r.code)
	}

	for _, ok := range runCollective(2, func(rank int) bool {
		_, code := ropened[rank].ctx.ReadSectionHeader()

		return code.OK()
	}) {
		assert.True(t, ok)
	}

	sizes := runCollective(2, func(rank int) []uint64 {
		s, code := ropened[rank].ctx.ReadVarraySizes(counts)
		require.True(t, code.OK())

		return s
	})
	assert.Equal(t, []uint64{1, 5}, sizes[0])
	assert.Equal(t, []uint64{2}, sizes[1])

	data := runCollective(2, func(rank int) []byte {
		d, code := ropened[rank].ctx.ReadVarrayData()
		require.True(t, code.OK())

		return d
	})
	assert.Equal(t, []byte{'a', 'b', 'c', 'd', 'e', 'f'}, data[0])
	assert.Equal(t, []byte{'x', 'y'}, data[1])

	for _, ok := range runCollective(2, func(rank int) bool { return ropened[rank].ctx.Close().OK() }) {
		assert.True(t, ok)
	}
}

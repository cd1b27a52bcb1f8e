package comm_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/arloliu/scda/comm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialComm(t *testing.T) {
	var c comm.SerialComm
	assert.Equal(t, 0, c.Rank())
	assert.Equal(t, 1, c.Size())
	require.NoError(t, c.Barrier())

	buf := []byte("x")
	require.NoError(t, c.Bcast(buf, 0))
	assert.Error(t, c.Bcast(buf, 1))
}

func TestLocalGroupBcast(t *testing.T) {
	const n = 4
	_, comms := comm.NewLocalGroup(n)

	var wg sync.WaitGroup
	results := make([][]byte, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			buf := make([]byte, 5)
			if rank == 2 {
				copy(buf, "hello")
			}
			require.NoError(t, comms[rank].Bcast(buf, 2))
			results[rank] = buf
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.Equal(t, "hello", string(results[i]))
	}
}

func TestLocalGroupBarrierOrdering(t *testing.T) {
	const n = 3
	_, comms := comm.NewLocalGroup(n)

	var mu sync.Mutex
	arrived := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			mu.Lock()
			arrived++
			mu.Unlock()
			require.NoError(t, comms[rank].Barrier())
			mu.Lock()
			assert.Equal(t, n, arrived, "rank %d left the barrier before every rank arrived", rank)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, arrived)
}

func TestLocalFileFullIO(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "f.bin")
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	const n = 4
	group, _ := comm.NewLocalGroup(n)
	lf := comm.NewLocalFile(f, group, comm.FullIO)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			_, err := lf.WriteAtAll([]byte{byte('a' + rank)}, int64(rank))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()
	require.NoError(t, lf.Close())

	got, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(got))
}

func TestLocalFileRingIO(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "ring.bin")
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	const n = 3
	group, _ := comm.NewLocalGroup(n)
	lf := comm.NewLocalFile(f, group, comm.RingIO)

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			rf := comm.NewRankFile(lf, rank)
			_, err := rf.WriteAtAll([]byte{byte('a' + rank)}, int64(rank))
			require.NoError(t, err)
			mu.Lock()
			order = append(order, rank)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2}, order)
}

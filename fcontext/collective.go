package fcontext

import (
	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/endian"
	"github.com/arloliu/scda/ferror"
)

// scanCounts computes the exclusive prefix sum of a rank partition
// (format §4.8): offsets[0] = 0, offsets[i+1] = offsets[i] + counts[i].
// This is local arithmetic, not a collective reduction — every rank
// already has the full partition vector.
func scanCounts(counts []uint64) []uint64 {
	offsets := make([]uint64, len(counts)+1)
	for i, c := range counts {
		offsets[i+1] = offsets[i] + c
	}

	return offsets
}

// codeWireBytes is the size of a (ScdaCode, MPICode) pair packed as two
// little-endian uint32s for broadcast, the typed pack/unpack role the
// endian engine plays for the MPI-IO shim.
const codeWireBytes = 8

func packCode(c ferror.Code) []byte {
	buf := make([]byte, codeWireBytes)
	eng := endian.GetLittleEndianEngine()
	eng.PutUint32(buf[0:4], uint32(c.Scda))
	eng.PutUint32(buf[4:8], uint32(c.MPI))

	return buf
}

func unpackCode(buf []byte) ferror.Code {
	eng := endian.GetLittleEndianEngine()

	return ferror.Code{
		Scda: ferror.ScdaCode(eng.Uint32(buf[0:4])),
		MPI:  ferror.MPICode(eng.Uint32(buf[4:8])),
	}
}

// broadcastCode implements handle-non-collective-error (format §4.5):
// rank root's observed code is broadcast to every rank, which then all
// return the identical code. A Bcast transport failure itself becomes an
// MPI-class code so the caller never sees a bare transport error escape
// the two-axis model.
func broadcastCode(c comm.Comm, root int, local ferror.Code) ferror.Code {
	buf := packCode(local)
	if err := c.Bcast(buf, root); err != nil {
		return ferror.NewMPI(ferror.MPIErrOther)
	}

	return unpackCode(buf)
}

// broadcastCount implements handle-count-error for a single writer:
// root's mismatch flag is broadcast and every rank adopts it directly.
// The inline and block paths do not call it; they fold root's short
// count into the Code they send with broadcastCode.
func broadcastCount(c comm.Comm, root int, localMismatch bool) (bool, error) {
	buf := []byte{0}
	if c.Rank() == root && localMismatch {
		buf[0] = 1
	}
	if err := c.Bcast(buf, root); err != nil {
		return false, err
	}

	return buf[0] != 0, nil
}

// combineMismatch implements check/handle-count-error for the
// every-rank-does-its-own-I/O cases (fixed/variable array sections,
// format §4.8): every rank's local mismatch boolean is OR-combined
// across the whole communicator. With only Bcast as a primitive, this is
// done via P sequential broadcasts, one per rank acting as root in turn,
// each rank folding in what it has learned so far — the same O(P)
// technique the no-MPI-IO ring fallback uses elsewhere in this format.
func combineMismatch(c comm.Comm, localMismatch bool) (bool, error) {
	acc := localMismatch
	buf := make([]byte, 1)
	for root := 0; root < c.Size(); root++ {
		if c.Rank() == root {
			if acc {
				buf[0] = 1
			} else {
				buf[0] = 0
			}
		}
		if err := c.Bcast(buf, root); err != nil {
			return false, err
		}
		if buf[0] != 0 {
			acc = true
		}
	}

	return acc, nil
}

// lastNonzeroRank returns the highest rank index holding a nonzero share
// of a partition, or root when every share is zero. A partition vector is
// identical on every rank by convention (format §4.8), so every rank can
// compute this purely locally — no broadcast needed to agree on who owns
// the globally-last element/byte of a collective write.
func lastNonzeroRank(counts []uint64) int {
	for i := len(counts) - 1; i >= 0; i-- {
		if counts[i] > 0 {
			return i
		}
	}

	return rootRank
}

// scanByteLengths computes, via size(c) sequential broadcasts, every
// rank's exclusive prefix offset into a collective byte region assembled
// from each rank's independently-sized local contribution (format §4.7's
// variable-array payload, whose per-rank length isn't knowable from a
// shared partition vector the way a fixed-array element count is). It
// also returns every rank's length, so callers can determine locally
// which rank owns the region's last byte.
func scanByteLengths(c comm.Comm, localLen uint64) (offset uint64, total uint64, lengths []uint64, err error) {
	buf := make([]byte, 8)
	eng := endian.GetLittleEndianEngine()
	lengths = make([]uint64, c.Size())

	var running uint64
	for root := 0; root < c.Size(); root++ {
		if c.Rank() == root {
			eng.PutUint64(buf, localLen)
		}
		if err := c.Bcast(buf, root); err != nil {
			return 0, 0, nil, err
		}
		length := eng.Uint64(buf)
		lengths[root] = length
		if c.Rank() == root {
			offset = running
		}
		running += length
	}

	return offset, running, lengths, nil
}

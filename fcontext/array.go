package fcontext

import (
	"fmt"

	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/ferror"
	"github.com/arloliu/scda/format"
	"github.com/arloliu/scda/pad"
)

// validatePartition checks that a per-rank count partition sums to the
// declared global count, the pre-flight cross-check format §4.7/
// SPEC_FULL supplemented feature 3 requires before any I/O is issued.
// globalCount must come from a source independent of counts itself (the
// caller's declared element count on write, the section header's
// ElemCount on read) for this check to be meaningful.
func validatePartition(counts []uint64, globalCount uint64) error {
	var sum uint64
	for _, c := range counts {
		sum += c
	}
	if sum != globalCount {
		return fmt.Errorf("fcontext: partition sums to %d, want global count %d", sum, globalCount)
	}

	return nil
}

// checkPartitionLength verifies counts has exactly one entry per rank in
// the communicator, the precondition every counts[rank]/offsets[rank]
// index in this file requires before it is safe to perform.
func checkPartitionLength(counts []uint64, size int) error {
	if len(counts) != size {
		return fmt.Errorf("fcontext: partition has %d entries, want %d (one per rank)", len(counts), size)
	}

	return nil
}

// WriteArray implements the 'A' section write (format §4.7): root writes
// the header, then every rank writes its local elemSize*counts[rank]
// bytes at its partition offset via the collective write, then modular
// padding. counts must be identical on every rank, hold exactly one
// entry per rank in the communicator, and sum to globalCount; local must
// hold exactly elemSize*counts[rank] bytes.
func (ctx *Context) WriteArray(local []byte, counts []uint64, globalCount uint64, elemSize uint64, userString []byte) ferror.Code {
	if fe := ctx.requireState(StateWriting); fe != nil {
		return fe.Code
	}
	if err := checkPartitionLength(counts, ctx.comm.Size()); err != nil {
		return ferror.New(ferror.Input)
	}
	if err := validatePartition(counts, globalCount); err != nil {
		return ferror.New(ferror.Input)
	}

	rank := ctx.comm.Rank()
	wantLocal := elemSize * counts[rank]
	if uint64(len(local)) != wantLocal {
		return ferror.New(ferror.Input)
	}

	return ctx.writeArrayCollective(counts, globalCount, elemSize, userString, local, func(off int64) (int, error) {
		return ctx.file.WriteAtAll(local, off)
	})
}

// WriteArrayIndirect is the 'indirect' variant of WriteArray (format
// §4.7): the local payload is supplied as a vector of counts[rank]
// one-element buffers instead of one contiguous buffer, for callers
// whose local data is not contiguous in memory. The buffers are staged
// into one contiguous region before the collective write, so the wire
// format and the collective call shape are identical to WriteArray.
func (ctx *Context) WriteArrayIndirect(localElems [][]byte, counts []uint64, globalCount uint64, elemSize uint64, userString []byte) ferror.Code {
	if fe := ctx.requireState(StateWriting); fe != nil {
		return fe.Code
	}
	if err := checkPartitionLength(counts, ctx.comm.Size()); err != nil {
		return ferror.New(ferror.Input)
	}
	if err := validatePartition(counts, globalCount); err != nil {
		return ferror.New(ferror.Input)
	}

	rank := ctx.comm.Rank()
	if uint64(len(localElems)) != counts[rank] {
		return ferror.New(ferror.Input)
	}

	staged := make([]byte, 0, elemSize*counts[rank])
	for _, elem := range localElems {
		if uint64(len(elem)) != elemSize {
			return ferror.New(ferror.Input)
		}
		staged = append(staged, elem...)
	}

	return ctx.writeArrayCollective(counts, globalCount, elemSize, userString, staged, func(off int64) (int, error) {
		return ctx.file.WriteAtAll(staged, off)
	})
}

// writeArrayCollective is the shared tail of WriteArray/WriteArrayIndirect
// once the local payload has been reduced to one contiguous buffer:
// write the header, issue the collective write via writeLocal, broadcast
// the count-mismatch status, and append modular padding.
func (ctx *Context) writeArrayCollective(counts []uint64, globalCount uint64, elemSize uint64, userString []byte, local []byte, writeLocal func(off int64) (int, error)) ferror.Code {
	offsets := scanCounts(counts)
	rank := ctx.comm.Rank()

	hdr := format.SectionHeader{Kind: format.KindArray, ElemCount: globalCount, ElemSize: elemSize, UserString: userString}
	code := ctx.writeSectionHeader(hdr)

	payloadBytes := elemSize * globalCount
	localMismatch := false
	if code.OK() {
		off := ctx.cursor + int64(elemSize)*int64(offsets[rank])
		n, err := writeLocal(off)
		if err != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(err))
		} else if uint64(n) != uint64(len(local)) {
			localMismatch = true
		}
	}

	if code.OK() {
		mismatch, err := combineMismatch(ctx.comm, localMismatch)
		if err != nil {
			code = ferror.NewMPI(ferror.MPIErrOther)
		} else if mismatch {
			code = ferror.New(ferror.Count)
		}
	}

	if code.OK() && rank == lastNonzeroRank(counts) {
		lastByte := byte(0)
		if len(local) > 0 {
			lastByte = local[len(local)-1]
		}
		suffix := pad.ModularSuffix(int(payloadBytes), lastByte)
		n, err := ctx.file.WriteAt(suffix, ctx.cursor+int64(payloadBytes))
		if err != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(err))
		} else if n != len(suffix) {
			code = ferror.New(ferror.Count)
		}
	}

	final := broadcastCode(ctx.comm, rootRank, ctx.injected(code))
	if !final.OK() {
		ctx.fail()

		return final
	}

	ctx.cursor += int64(payloadBytes) + int64(pad.ModularPadLen(int(payloadBytes)))

	return ferror.SuccessCode
}

// ReadArrayData reads this rank's slice of a pending 'A' section given a
// local partition (one entry per rank, counts summing to the header's
// global element count). A partition length/sum mismatch is a USAGE
// error; a short read is a COUNT error.
func (ctx *Context) ReadArrayData(counts []uint64) ([]byte, ferror.Code) {
	if fe := ctx.requireState(StateReading); fe != nil {
		return nil, fe.Code
	}
	if fe := ctx.consumePending(format.KindArray); fe != nil {
		return nil, fe.Code
	}

	hdr := ctx.pending.header
	if err := checkPartitionLength(counts, ctx.comm.Size()); err != nil {
		ctx.fail()

		return nil, ferror.New(ferror.Usage)
	}
	if err := validatePartition(counts, hdr.ElemCount); err != nil {
		ctx.fail()

		return nil, ferror.New(ferror.Usage)
	}

	offsets := scanCounts(counts)
	rank := ctx.comm.Rank()
	localCount := counts[rank]
	local := make([]byte, hdr.ElemSize*localCount)

	off := ctx.cursor + int64(hdr.ElemSize)*int64(offsets[rank])
	n, err := ctx.file.ReadAtAll(local, off)

	var code ferror.Code
	localMismatch := false
	if err != nil {
		code = ferror.NewMPI(comm.ClassifyErrno(err))
	} else if uint64(n) != uint64(len(local)) {
		localMismatch = true
	}

	if code.OK() {
		mismatch, cerr := combineMismatch(ctx.comm, localMismatch)
		if cerr != nil {
			code = ferror.NewMPI(ferror.MPIErrOther)
		} else if mismatch {
			code = ferror.New(ferror.Count)
		}
	}

	final := broadcastCode(ctx.comm, rootRank, ctx.injected(code))
	if !final.OK() {
		ctx.fail()

		return nil, final
	}

	payloadBytes := hdr.ElemSize * hdr.ElemCount
	ctx.cursor += int64(payloadBytes) + int64(pad.ModularPadLen(int(payloadBytes)))
	ctx.pending = nil

	return local, ferror.SuccessCode
}

func sumCounts(counts []uint64) uint64 {
	var sum uint64
	for _, c := range counts {
		sum += c
	}

	return sum
}

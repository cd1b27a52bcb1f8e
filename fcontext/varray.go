package fcontext

import (
	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/endian"
	"github.com/arloliu/scda/ferror"
	"github.com/arloliu/scda/format"
	"github.com/arloliu/scda/pad"
)

const varraySizeFieldBytes = 8

// WriteVarray implements the 'V' section write (format §4.7): a fixed
// array of per-element byte sizes, immediately followed by the payload
// bytes those sizes describe. Both phases use the fixed-array write
// protocol — per-rank partition offsets and modular padding — against
// their own region; the sizes region's length is derivable from counts
// alone, the payload region's length is discovered collectively since
// per-rank payload byte totals aren't known in advance. counts must hold
// exactly one entry per rank in the communicator and sum to globalCount.
func (ctx *Context) WriteVarray(localSizes []uint64, localPayload []byte, counts []uint64, globalCount uint64, userString []byte) ferror.Code {
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
	if uint64(len(localSizes)) != counts[rank] {
		return ferror.New(ferror.Input)
	}
	if sumCounts(localSizes) != uint64(len(localPayload)) {
		return ferror.New(ferror.Input)
	}

	elemOffsets := scanCounts(counts)
	byteOffset, totalPayloadBytes, lengths, err := scanByteLengths(ctx.comm, uint64(len(localPayload)))
	if err != nil {
		ctx.fail()

		return ferror.NewMPI(ferror.MPIErrOther)
	}

	hdr := format.SectionHeader{Kind: format.KindVarray, ElemCount: globalCount, ElemSize: varraySizeFieldBytes, UserString: userString}
	code := ctx.writeSectionHeader(hdr)

	sizesRegionBytes := globalCount * varraySizeFieldBytes
	sizesPadLen := pad.ModularPadLen(int(sizesRegionBytes))
	sizesStart := ctx.cursor
	payloadStart := sizesStart + int64(sizesRegionBytes) + int64(sizesPadLen)

	localMismatch := false
	if code.OK() {
		sizesBuf := encodeSizes(localSizes)
		n, werr := ctx.file.WriteAtAll(sizesBuf, sizesStart+int64(elemOffsets[rank])*varraySizeFieldBytes)
		if werr != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(werr))
		} else if n != len(sizesBuf) {
			localMismatch = true
		}
	}
	if code.OK() {
		n, werr := ctx.file.WriteAtAll(localPayload, payloadStart+int64(byteOffset))
		if werr != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(werr))
		} else if uint64(n) != uint64(len(localPayload)) {
			localMismatch = true
		}
	}

	if code.OK() {
		mismatch, cerr := combineMismatch(ctx.comm, localMismatch)
		if cerr != nil {
			code = ferror.NewMPI(ferror.MPIErrOther)
		} else if mismatch {
			code = ferror.New(ferror.Count)
		}
	}

	if code.OK() && rank == lastNonzeroRank(counts) {
		lastByte := byte(0)
		if len(localSizes) > 0 {
			lastByte = encodeSizes(localSizes[len(localSizes)-1:])[varraySizeFieldBytes-1]
		}
		suffix := pad.ModularSuffix(int(sizesRegionBytes), lastByte)
		n, werr := ctx.file.WriteAt(suffix, sizesStart+int64(sizesRegionBytes))
		if werr != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(werr))
		} else if n != len(suffix) {
			code = ferror.New(ferror.Count)
		}
	}
	if code.OK() && rank == lastNonzeroRank(lengths) {
		lastByte := byte(0)
		if len(localPayload) > 0 {
			lastByte = localPayload[len(localPayload)-1]
		}
		suffix := pad.ModularSuffix(int(totalPayloadBytes), lastByte)
		n, werr := ctx.file.WriteAt(suffix, payloadStart+int64(totalPayloadBytes))
		if werr != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(werr))
		} else if n != len(suffix) {
			code = ferror.New(ferror.Count)
		}
	}

	final := broadcastCode(ctx.comm, rootRank, ctx.injected(code))
	if !final.OK() {
		ctx.fail()

		return final
	}

	payloadPadLen := pad.ModularPadLen(int(totalPayloadBytes))
	ctx.cursor = payloadStart + int64(totalPayloadBytes) + int64(payloadPadLen)

	return ferror.SuccessCode
}

// ReadVarraySizes reads this rank's slice of a pending 'V' section's
// sizes region given a local element partition, and records it as the
// pending varray state ReadVarrayData requires. Calling ReadVarrayData
// before this is a USAGE error.
func (ctx *Context) ReadVarraySizes(counts []uint64) ([]uint64, ferror.Code) {
	if fe := ctx.requireState(StateReading); fe != nil {
		return nil, fe.Code
	}
	if fe := ctx.consumePending(format.KindVarray); fe != nil {
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
	buf := make([]byte, varraySizeFieldBytes*localCount)

	n, err := ctx.file.ReadAtAll(buf, ctx.cursor+int64(offsets[rank])*varraySizeFieldBytes)

	var code ferror.Code
	localMismatch := false
	if err != nil {
		code = ferror.NewMPI(comm.ClassifyErrno(err))
	} else if uint64(n) != uint64(len(buf)) {
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

	sizesRegionBytes := hdr.ElemCount * varraySizeFieldBytes
	ctx.cursor += int64(sizesRegionBytes) + int64(pad.ModularPadLen(int(sizesRegionBytes)))

	localSizes := decodeSizes(buf)
	ctx.pending.varraySizes = localSizes
	ctx.pending.sizesRead = true

	return localSizes, ferror.SuccessCode
}

// ReadVarrayData reads this rank's slice of the payload region of a
// pending 'V' section, using the sizes ReadVarraySizes already read. It
// is a USAGE error to call this before ReadVarraySizes.
func (ctx *Context) ReadVarrayData() ([]byte, ferror.Code) {
	if fe := ctx.requireState(StateReading); fe != nil {
		return nil, fe.Code
	}
	if ctx.pending == nil || !ctx.pending.sizesRead {
		ctx.fail()

		return nil, ferror.New(ferror.Usage)
	}

	localLen := sumCounts(ctx.pending.varraySizes)
	offset, total, _, err := scanByteLengths(ctx.comm, localLen)
	if err != nil {
		ctx.fail()

		return nil, ferror.NewMPI(ferror.MPIErrOther)
	}

	local := make([]byte, localLen)
	n, err := ctx.file.ReadAtAll(local, ctx.cursor+int64(offset))

	var code ferror.Code
	localMismatch := false
	if err != nil {
		code = ferror.NewMPI(comm.ClassifyErrno(err))
	} else if uint64(n) != localLen {
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

	ctx.cursor += int64(total) + int64(pad.ModularPadLen(int(total)))
	ctx.pending = nil

	return local, ferror.SuccessCode
}

func encodeSizes(sizes []uint64) []byte {
	buf := make([]byte, varraySizeFieldBytes*len(sizes))
	eng := endian.GetLittleEndianEngine()
	for i, s := range sizes {
		eng.PutUint64(buf[i*varraySizeFieldBytes:], s)
	}

	return buf
}

func decodeSizes(buf []byte) []uint64 {
	eng := endian.GetLittleEndianEngine()
	sizes := make([]uint64, len(buf)/varraySizeFieldBytes)
	for i := range sizes {
		sizes[i] = eng.Uint64(buf[i*varraySizeFieldBytes:])
	}

	return sizes
}

package fcontext

import (
	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/compress"
	"github.com/arloliu/scda/envelope"
	"github.com/arloliu/scda/ferror"
	"github.com/arloliu/scda/format"
	"github.com/arloliu/scda/pad"
)

// DefaultMaxDecodedSize bounds how large a decoded envelope payload
// ReadBlockData will allocate, guarding against a corrupt
// or hostile declared length (format §4.2's "enforce a caller-supplied
// maximum original size").
const DefaultMaxDecodedSize = 1 << 32

var defaultCodec = compress.NewZlibCodec()

// WriteBlock implements the 'B' section write (format §4.7): root writes
// the header and N payload bytes, then modular padding. When encode is
// true, payload is first wrapped in the encoding envelope and the user
// string is marked with the encoding convention suffix so a decoding
// reader can recognize it.
func (ctx *Context) WriteBlock(payload []byte, userString []byte, encode bool, level int) ferror.Code {
	if fe := ctx.requireState(StateWriting); fe != nil {
		return fe.Code
	}

	wirePayload := payload
	wireUserString := userString

	var code ferror.Code
	if encode {
		enc, err := envelope.Encode(payload, level, envelope.DefaultLineBreak, defaultCodec)
		if err != nil {
			code = ferror.New(ferror.Format)
		} else {
			wirePayload = enc
			wireUserString, err = format.MarkEncoded(userString)
			if err != nil {
				code = ferror.New(ferror.Input)
			}
		}
	}

	var headerCode ferror.Code
	if code.OK() {
		hdr := format.SectionHeader{Kind: format.KindBlock, ElemCount: 0, ElemSize: uint64(len(wirePayload)), UserString: wireUserString}
		headerCode = ctx.writeSectionHeader(hdr)
	}
	if !headerCode.OK() {
		code = headerCode
	}

	if code.OK() && ctx.comm.Rank() == rootRank {
		n, err := ctx.file.WriteAt(wirePayload, ctx.cursor)
		if err != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(err))
		} else if n != len(wirePayload) {
			code = ferror.New(ferror.Count)
		} else {
			lastByte := byte(0)
			if len(wirePayload) > 0 {
				lastByte = wirePayload[len(wirePayload)-1]
			}
			suffix := pad.ModularSuffix(len(wirePayload), lastByte)
			sn, err := ctx.file.WriteAt(suffix, ctx.cursor+int64(len(wirePayload)))
			if err != nil {
				code = ferror.NewMPI(comm.ClassifyErrno(err))
			} else if sn != len(suffix) {
				code = ferror.New(ferror.Count)
			}
		}
	}

	final := broadcastCode(ctx.comm, rootRank, ctx.injected(code))
	if !final.OK() {
		ctx.fail()

		return final
	}

	ctx.cursor += int64(len(wirePayload)) + int64(pad.ModularPadLen(len(wirePayload)))

	return ferror.SuccessCode
}

// ReadBlockData reads the payload of a pending 'B' section on root. When
// decode is true and the pending header's user string carries the
// encoding convention, the payload is passed through the encoding
// envelope before being returned.
func (ctx *Context) ReadBlockData(decode bool) ([]byte, ferror.Code) {
	if fe := ctx.requireState(StateReading); fe != nil {
		return nil, fe.Code
	}
	if fe := ctx.consumePending(format.KindBlock); fe != nil {
		return nil, fe.Code
	}

	hdr := ctx.pending.header
	n := hdr.ElemSize

	var data []byte
	var code ferror.Code
	if ctx.comm.Rank() == rootRank {
		data, code = ctx.readPaddedPayload(n)
		if code.OK() && decode && format.HasEncodeConvention(hdr.UserString) {
			decoded, err := envelope.Decode(data, DefaultMaxDecodedSize, defaultCodec)
			if err != nil {
				code = ferror.New(ferror.Decode)
			} else {
				data = decoded
			}
		}
	}

	final := broadcastCode(ctx.comm, rootRank, ctx.injected(code))
	if !final.OK() {
		ctx.fail()

		return nil, final
	}

	ctx.cursor += int64(n) + int64(pad.ModularPadLen(int(n)))
	ctx.pending = nil

	return data, ferror.SuccessCode
}

// readPaddedPayload reads n raw bytes plus their modular-padding suffix
// at the current cursor, validates the padding, and returns the raw
// bytes. It is only ever called on the rank actually performing I/O.
func (ctx *Context) readPaddedPayload(n uint64) ([]byte, ferror.Code) {
	padLen := pad.ModularPadLen(int(n))
	full := make([]byte, uint64(padLen)+n)

	read, err := ctx.file.ReadAt(full, ctx.cursor)
	if err != nil {
		return nil, ferror.NewMPI(comm.ClassifyErrno(err))
	}
	if uint64(read) != n+uint64(padLen) {
		return nil, ferror.New(ferror.Count)
	}
	if _, err := pad.Unmodular(full, int(n)); err != nil {
		return nil, ferror.New(ferror.Format)
	}

	return full[:n], ferror.SuccessCode
}

package fcontext

import (
	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/ferror"
	"github.com/arloliu/scda/format"
)

// WriteInline implements the 'I' section write (format §4.7): exactly
// format.InlinePayloadBytes of payload on root, no padding. payload must
// be exactly that length on root; other ranks' payload is ignored.
func (ctx *Context) WriteInline(payload []byte, userString []byte) ferror.Code {
	if fe := ctx.requireState(StateWriting); fe != nil {
		return fe.Code
	}

	hdr := format.SectionHeader{Kind: format.KindInline, ElemCount: 0, ElemSize: format.InlinePayloadBytes, UserString: userString}

	code := ctx.writeSectionHeader(hdr)
	if code.OK() && ctx.comm.Rank() == rootRank {
		if len(payload) != format.InlinePayloadBytes {
			code = ferror.New(ferror.Input)
		} else if n, err := ctx.file.WriteAt(payload, ctx.cursor); err != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(err))
		} else if n != format.InlinePayloadBytes {
			code = ferror.New(ferror.Count)
		}
	}

	final := broadcastCode(ctx.comm, rootRank, ctx.injected(code))
	if !final.OK() {
		ctx.fail()

		return final
	}

	ctx.cursor += int64(format.InlinePayloadBytes)

	return ferror.SuccessCode
}

// ReadInlineData reads the payload of a pending 'I' section header into
// buf (which must be format.InlinePayloadBytes long) on root. Passing a
// nil buf on root skips the read, per format §4.7.
func (ctx *Context) ReadInlineData(buf []byte) ferror.Code {
	if fe := ctx.requireState(StateReading); fe != nil {
		return fe.Code
	}
	if fe := ctx.consumePending(format.KindInline); fe != nil {
		return fe.Code
	}

	var code ferror.Code
	if ctx.comm.Rank() == rootRank && buf != nil {
		if len(buf) != format.InlinePayloadBytes {
			code = ferror.New(ferror.Input)
		} else if n, err := ctx.file.ReadAt(buf, ctx.cursor); err != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(err))
		} else if n != format.InlinePayloadBytes {
			code = ferror.New(ferror.Count)
		}
	}

	final := broadcastCode(ctx.comm, rootRank, ctx.injected(code))
	if !final.OK() {
		ctx.fail()

		return final
	}

	ctx.cursor += int64(format.InlinePayloadBytes)
	ctx.pending = nil

	return ferror.SuccessCode
}

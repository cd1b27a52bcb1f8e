package fcontext

import (
	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/ferror"
	"github.com/arloliu/scda/format"
)

// ReadSectionHeader implements the read-side half of format §4.6/§4.7:
// collectively read and parse the next section header, advance the
// cursor past it, and record it as the pending header the next data call
// must match. Calling this again before the previous pending header's
// data has been consumed is a USAGE error.
func (ctx *Context) ReadSectionHeader() (*format.SectionHeader, ferror.Code) {
	if fe := ctx.requireState(StateReading); fe != nil {
		return nil, fe.Code
	}
	if ctx.pending != nil && ctx.pending.header != nil {
		ctx.fail()

		return nil, ferror.New(ferror.Usage)
	}

	buf := make([]byte, format.SectionHeaderBytes)

	var code ferror.Code
	if ctx.comm.Rank() == rootRank {
		n, err := ctx.file.ReadAt(buf, ctx.cursor)
		if err != nil {
			code = ferror.NewMPI(comm.ClassifyErrno(err))
		} else if n != len(buf) {
			code = ferror.New(ferror.Count)
		}
	}

	final := broadcastCode(ctx.comm, rootRank, ctx.injected(code))
	if !final.OK() {
		ctx.fail()

		return nil, final
	}
	if err := ctx.comm.Bcast(buf, rootRank); err != nil {
		ctx.fail()

		return nil, ferror.NewMPI(ferror.MPIErrOther)
	}

	hdr, err := format.ParseSectionHeader(buf)
	if err != nil {
		ctx.fail()

		return nil, ferror.New(ferror.Format)
	}

	ctx.cursor += int64(format.SectionHeaderBytes)
	ctx.pending = &pendingRead{header: hdr}

	return hdr, ferror.SuccessCode
}

// writeSectionHeader builds hdr and writes it at the context's cursor on
// the root rank, advancing the cursor on every rank (the layout is
// deterministic so every rank can compute it without I/O). It returns
// the local (root-only-meaningful) error, left for the caller to fold
// into its own final broadcastCode call together with the payload
// write's outcome.
func (ctx *Context) writeSectionHeader(hdr format.SectionHeader) ferror.Code {
	headerBytes, err := hdr.Bytes()
	if err != nil {
		return ferror.New(ferror.Format)
	}

	if ctx.comm.Rank() == rootRank {
		n, err := ctx.file.WriteAt(headerBytes, ctx.cursor)
		if err != nil {
			return ferror.NewMPI(comm.ClassifyErrno(err))
		}
		if n != len(headerBytes) {
			return ferror.New(ferror.Count)
		}
	}

	ctx.cursor += int64(len(headerBytes))

	return ferror.SuccessCode
}

// consumePending clears the pending read state, asserting it matches
// wantKind; a mismatch (reading data of the wrong kind) is a USAGE error.
func (ctx *Context) consumePending(wantKind format.SectionKind) *ferror.Error {
	if ctx.pending == nil || ctx.pending.header == nil {
		ctx.fail()

		return ferror.NewError("fcontext", ferror.Usage, nil)
	}
	if ctx.pending.header.Kind != wantKind {
		ctx.fail()

		return ferror.NewError("fcontext", ferror.Usage, nil)
	}

	return nil
}

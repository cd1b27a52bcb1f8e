package fcontext

import "github.com/arloliu/scda/ferror"

// Close implements fclose (format §4.6): the only legal terminal
// transition from WRITING or READING, collective, and callable exactly
// once per context.
func (ctx *Context) Close() ferror.Code {
	if ctx.state != StateWriting && ctx.state != StateReading {
		ctx.fail()

		return ferror.New(ferror.Usage)
	}

	var code ferror.Code
	if err := ctx.file.Close(); err != nil {
		code = ferror.NewMPI(ferror.MPIErrIO)
	}

	final := broadcastCode(ctx.comm, rootRank, ctx.injected(code))
	if !final.OK() {
		ctx.state = StateFailed

		return final
	}

	ctx.state = StateClosed

	return ferror.SuccessCode
}

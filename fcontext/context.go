package fcontext

import (
	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/ferror"
	"github.com/arloliu/scda/format"
)

// rootRank is the nominated representative for every non-collective,
// rank-0-only step in this engine (header writes/reads, block payload
// I/O). format §4.7 allows any fixed rank to play this role; this port
// always picks rank 0 for simplicity, as the format's own collective
// helpers note suggests ("root for section headers, a fixed
// representative otherwise").
const rootRank = 0

// pendingRead tracks the read-sequencing state format §4.6 requires: a
// section header must be read before its matching data call, and a V
// section's sizes must be read before its data.
type pendingRead struct {
	header      *format.SectionHeader
	varraySizes []uint64
	sizesRead   bool
}

// Context is a scda file context: the state machine, cursor, and
// collective collaborators (communicator, file handle, fuzzy injector)
// that every open/section/close call drives (format §4.6).
type Context struct {
	comm  comm.Comm
	file  comm.File
	opts  *FopenOptions
	inj   *ferror.Injector
	state State

	cursor  int64
	pending *pendingRead
}

func (ctx *Context) fail() {
	ctx.state = StateFailed
	if ctx.file != nil {
		_ = ctx.file.Close()
	}
}

// injected returns a fuzzed Code in place of SuccessCode on the fraction
// of calls the configured fuzzy injector selects; every other call, or
// every call when fuzzing is disabled, passes success through unchanged.
func (ctx *Context) injected(code ferror.Code) ferror.Code {
	if !code.OK() || ctx.inj == nil {
		return code
	}

	return ctx.inj.Sample()
}

// State reports the context's current lifecycle state.
func (ctx *Context) State() State { return ctx.state }

// requireState fails the context with a USAGE error if it is not in want.
func (ctx *Context) requireState(want State) *ferror.Error {
	if ctx.state != want {
		err := ferror.NewError("fcontext", ferror.Usage, nil)
		ctx.fail()

		return err
	}

	return nil
}

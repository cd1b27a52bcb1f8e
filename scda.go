// Package scda provides a parallel, self-describing scientific-data file
// format: a fixed 128-byte file header followed by a flat sequence of
// typed sections, written and read collectively across an SPMD group of ranks.
//
// # Core Features
//
//   - Four section kinds — inline, block, fixed array, variable array —
//     covering everything from small tagged scalars to collectively
//     partitioned bulk arrays.
//   - Two padding disciplines (fixed-length and modular-32) keeping every
//     section byte-addressable without a separate index.
//   - An optional ASCII-armored, zlib-compressed encoding envelope for
//     sections that need to survive a text-mode transport.
//   - A two-axis (scda, MPI) error code so a failure always carries both
//     "what went wrong" and "which MPI error class observed it".
//   - Pluggable collective I/O: ship against a real MPI-IO binding later
//     by implementing comm.Comm/comm.File/comm.Opener, or run single-
//     process and in-process multi-rank today via comm.SerialComm and
//     comm.LocalGroup.
//
// # Basic Usage
//
// Writing a file collectively:
//
//	import (
//	    "github.com/arloliu/scda"
//	    "github.com/arloliu/scda/comm"
//	)
//
//	ctx, code := scda.OpenWrite(c, opener, "run.scda", []byte("checkpoint v1"))
//	if !code.OK() {
//	    // inspect code.Scda / code.MPI
//	}
//	code = ctx.WriteBlock([]byte("payload"), nil, false, 0)
//	code = ctx.Close()
//
// Reading it back:
//
//	ctx, userString, code := scda.OpenRead(c, opener, "run.scda")
//	hdr, code := ctx.ReadSectionHeader()
//	data, code := ctx.ReadBlockData(false)
//	code = ctx.Close()
//
// # Package Structure
//
// This file is a thin convenience layer over fcontext, which implements
// the file-context state machine and section engine. format, pad,
// compress, and envelope implement the wire layout and encoding envelope;
// comm implements the MPI-IO shim; ferror implements the two-axis error
// model. Most callers only need this package and fcontext.
package scda

import (
	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/fcontext"
	"github.com/arloliu/scda/ferror"
)

// Context is a scda file context: the open/section/close state machine
// bound to one Comm and one File handle.
type Context = fcontext.Context

// Option configures OpenWrite/OpenRead. See fcontext.WithMPIInfo and
// fcontext.WithFuzzyErrors.
type Option = fcontext.Option

// Code is the two-axis (scda, MPI) result of a collective operation.
type Code = ferror.Code

// OpenWrite collectively creates filename and enters the WRITING state.
// See fcontext.OpenWrite for the full contract.
func OpenWrite(c comm.Comm, opener comm.Opener, filename string, userString []byte, opts ...*Option) (*Context, Code) {
	return fcontext.OpenWrite(c, opener, filename, userString, opts...)
}

// OpenRead collectively opens filename read-only and enters the READING
// state, returning the file header's user string. See fcontext.OpenRead.
func OpenRead(c comm.Comm, opener comm.Opener, filename string, opts ...*Option) (*Context, []byte, Code) {
	return fcontext.OpenRead(c, opener, filename, opts...)
}

// WithMPIInfo records MPI info hints in the options; they are not passed
// to the Opener.
func WithMPIInfo(info map[string]string) *Option { return fcontext.WithMPIInfo(info) }

// WithFuzzyErrors enables the fuzzy error injector at the given
// frequency. A non-negative seed must be identical on every rank; a
// negative seed is resolved at open from rank 0's clock and broadcast.
func WithFuzzyErrors(seed int64, freq int) *Option { return fcontext.WithFuzzyErrors(seed, freq) }

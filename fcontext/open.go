package fcontext

import (
	"time"

	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/endian"
	"github.com/arloliu/scda/ferror"
	"github.com/arloliu/scda/format"
)

// OpenWrite implements format §4.6's open_write transition: construct a
// context, create/truncate the named file, write the 128-byte header on
// the root rank, broadcast its outcome, and enter WRITING.
//
// filename and userString must be identical on every rank, and c and
// opener must be each rank's handle onto the same communicator and file;
// only opts's locally-resolved fields may legitimately differ before
// resolution (e.g. a pre-broadcast fuzzy seed).
func OpenWrite(c comm.Comm, opener comm.Opener, filename string, userString []byte, opts ...*Option) (*Context, ferror.Code) {
	o, err := resolveOptions(opts...)
	if err != nil {
		return nil, ferror.New(ferror.Input)
	}
	if err := format.ValidateUserString(userString); err != nil {
		return nil, ferror.New(ferror.Input)
	}

	f, openErr := opener.Open(filename, comm.ModeWROnly|comm.ModeCreate)
	code := broadcastCode(c, rootRank, classifyOpen(openErr))
	if !code.OK() {
		if f != nil {
			_ = f.Close()
		}

		return nil, code
	}

	ctx := newContext(c, f, o, StateWriting)

	header := format.FileHeader{Vendor: format.VendorString, UserString: userString}
	headerBytes, buildErr := header.Bytes()

	var writeCode ferror.Code
	if buildErr != nil {
		writeCode = ferror.New(ferror.Format)
	} else if c.Rank() == rootRank {
		n, werr := f.WriteAt(headerBytes, 0)
		if werr != nil {
			writeCode = ferror.NewMPI(comm.ClassifyErrno(werr))
		} else if n != len(headerBytes) {
			writeCode = ferror.New(ferror.Count)
		}
	}

	final := broadcastCode(c, rootRank, ctx.injected(writeCode))
	if !final.OK() {
		ctx.fail()

		return nil, final
	}

	ctx.cursor = int64(format.HeaderBytes)

	return ctx, ferror.SuccessCode
}

// OpenRead implements open_read: open the file read-only, read and parse
// the 128-byte header on root, broadcast both the outcome and the parsed
// user string, and enter READING.
func OpenRead(c comm.Comm, opener comm.Opener, filename string, opts ...*Option) (*Context, []byte, ferror.Code) {
	o, err := resolveOptions(opts...)
	if err != nil {
		return nil, nil, ferror.New(ferror.Input)
	}

	f, openErr := opener.Open(filename, comm.ModeRDOnly)
	code := broadcastCode(c, rootRank, classifyOpen(openErr))
	if !code.OK() {
		if f != nil {
			_ = f.Close()
		}

		return nil, nil, code
	}

	ctx := newContext(c, f, o, StateReading)

	var parsed *format.FileHeader
	var readCode ferror.Code
	if c.Rank() == rootRank {
		buf := make([]byte, format.HeaderBytes)
		n, rerr := f.ReadAt(buf, 0)
		if rerr != nil {
			readCode = ferror.NewMPI(comm.ClassifyErrno(rerr))
		} else if n != len(buf) {
			readCode = ferror.New(ferror.Count)
		} else if parsed, err = format.ParseFileHeader(buf); err != nil {
			readCode = ferror.New(ferror.Format)
		}
	}

	final := broadcastCode(c, rootRank, ctx.injected(readCode))
	if !final.OK() {
		ctx.fail()

		return nil, nil, final
	}

	userString, bcastErr := broadcastUserString(c, parsed)
	if bcastErr != nil {
		ctx.fail()

		return nil, nil, ferror.NewMPI(ferror.MPIErrOther)
	}

	ctx.cursor = int64(format.HeaderBytes)

	return ctx, userString, ferror.SuccessCode
}

func newContext(c comm.Comm, f comm.File, o *FopenOptions, state State) *Context {
	ctx := &Context{comm: c, file: f, opts: o, state: state}
	if o.FuzzyEnabled {
		seed := resolveFuzzySeed(c, o.FuzzySeed)
		ctx.inj = ferror.NewInjector(ferror.FuzzyConfig{Enabled: true, Seed: seed, Freq: o.FuzzyFreq})
	}

	return ctx
}

// resolveFuzzySeed implements format §4.5/§6's "negative seed means derive
// from wall-clock" rule: a negative seed is replaced, collectively, by rank
// root's wall-clock reading at the moment the context is opened, broadcast
// to every rank so the fuzzed outcome stays agreed across the communicator.
// A non-negative seed is returned unchanged without a broadcast, since it
// is already required to be identical on every rank (WithFuzzyErrors). If
// the broadcast itself fails, every rank falls back to its own clock
// reading rather than propagate the error into context construction — a
// fuzzy-seed disagreement only weakens fuzz coverage, it never corrupts I/O.
func resolveFuzzySeed(c comm.Comm, seed int64) int64 {
	if seed >= 0 {
		return seed
	}

	buf := make([]byte, 8)
	eng := endian.GetLittleEndianEngine()
	if c.Rank() == rootRank {
		eng.PutUint64(buf, uint64(time.Now().UnixNano()))
	}
	if err := c.Bcast(buf, rootRank); err != nil {
		return time.Now().UnixNano()
	}

	return int64(eng.Uint64(buf))
}

func classifyOpen(err error) ferror.Code {
	if err == nil {
		return ferror.SuccessCode
	}

	return ferror.NewMPI(comm.ClassifyErrno(err))
}

// broadcastUserString sends the root-parsed user string to every rank as
// a fixed-size buffer (one length byte plus UserStringBytes content
// bytes), so every rank can call Bcast with an identical buffer size
// without having agreed on the length beforehand.
func broadcastUserString(c comm.Comm, parsed *format.FileHeader) ([]byte, error) {
	buf := make([]byte, 1+format.UserStringBytes)
	if c.Rank() == rootRank && parsed != nil {
		buf[0] = byte(len(parsed.UserString))
		copy(buf[1:], parsed.UserString)
	}

	if err := c.Bcast(buf, rootRank); err != nil {
		return nil, err
	}

	n := int(buf[0])

	return append([]byte(nil), buf[1:1+n]...), nil
}

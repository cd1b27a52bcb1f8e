package comm

import (
	"fmt"
	"os"
	"sync"
)

// Opener collectively opens a named file and returns the File handle
// every rank should use for subsequent I/O. Open itself is a collective
// call: every rank must invoke it with identical name/mode, matching
// MPI_File_open's semantics (format §4.6's open_write/open_read).
type Opener interface {
	Open(name string, mode OpenMode) (File, error)
}

func openFlags(mode OpenMode) (int, error) {
	switch {
	case mode.Has(ModeCreate) && mode.Has(ModeWROnly):
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case mode.Has(ModeAppend):
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case mode.Has(ModeRDOnly):
		return os.O_RDONLY, nil
	case mode.Has(ModeRDWR):
		return os.O_RDWR, nil
	default:
		return 0, fmt.Errorf("comm: unsupported open mode %d", mode)
	}
}

// SerialOpener is the "no MPI" one-process opener (spec §4.4 variant 3):
// it just calls os.OpenFile directly.
type SerialOpener struct{}

var _ Opener = SerialOpener{}

func (SerialOpener) Open(name string, mode OpenMode) (File, error) {
	flags, err := openFlags(mode)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(name, flags, 0o644)
	if err != nil {
		return nil, err
	}

	return NewSerialFile(f), nil
}

// localOpenState is shared by every rank's LocalOpener for one Open
// call: the first rank to arrive performs the real os.OpenFile, the
// rest observe its result, simulating MPI_File_open's collective
// single-open semantics over one shared descriptor.
type localOpenState struct {
	once sync.Once
	file *os.File
	lf   *LocalFile
	err  error
}

// LocalOpener is the in-process multi-rank collective opener backing a
// LocalGroup. Build one per rank with NewLocalOpeners so each knows its
// own rank for RingIO-style file access.
type LocalOpener struct {
	group *LocalGroup
	rank  int
	style IOStyle
	state *localOpenState
}

var _ Opener = (*LocalOpener)(nil)

// NewLocalOpeners returns one Opener per rank in group, sharing the
// collective open state for a single underlying file.
func NewLocalOpeners(group *LocalGroup, style IOStyle) []*LocalOpener {
	state := &localOpenState{}
	openers := make([]*LocalOpener, group.size)
	for i := range openers {
		openers[i] = &LocalOpener{group: group, rank: i, style: style, state: state}
	}

	return openers
}

func (o *LocalOpener) Open(name string, mode OpenMode) (File, error) {
	flags, err := openFlags(mode)
	if err != nil {
		return nil, err
	}

	o.state.once.Do(func() {
		o.state.file, o.state.err = os.OpenFile(name, flags, 0o644)
		if o.state.err == nil {
			o.state.lf = NewLocalFile(o.state.file, o.group, o.style)
		}
	})
	o.group.barrier.Wait()

	if o.state.err != nil {
		return nil, o.state.err
	}
	if o.style == RingIO {
		return NewRankFile(o.state.lf, o.rank), nil
	}

	return o.state.lf, nil
}

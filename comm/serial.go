package comm

import "os"

// SerialComm is the trivial one-rank communicator used when a process
// runs without MPI at all (format §1's "SPMD with a single participant"
// case). Bcast and Barrier are no-ops since there is nothing else to
// synchronize with.
type SerialComm struct{}

var _ Comm = SerialComm{}

func (SerialComm) Rank() int { return 0 }
func (SerialComm) Size() int { return 1 }

func (SerialComm) Bcast(data []byte, root int) error {
	if root != 0 {
		return errBadRoot(root, 1)
	}

	return nil
}

func (SerialComm) Barrier() error { return nil }

// SerialFile is a File backed directly by an *os.File, with the
// collective *AtAll methods implemented as their independent
// counterparts since there is only one rank.
type SerialFile struct {
	f *os.File
}

var _ File = (*SerialFile)(nil)

// NewSerialFile wraps an already-open *os.File.
func NewSerialFile(f *os.File) *SerialFile { return &SerialFile{f: f} }

func (sf *SerialFile) ReadAt(b []byte, off int64) (int, error)  { return sf.f.ReadAt(b, off) }
func (sf *SerialFile) WriteAt(b []byte, off int64) (int, error) { return sf.f.WriteAt(b, off) }

func (sf *SerialFile) ReadAtAll(b []byte, off int64) (int, error)  { return sf.ReadAt(b, off) }
func (sf *SerialFile) WriteAtAll(b []byte, off int64) (int, error) { return sf.WriteAt(b, off) }

func (sf *SerialFile) Close() error { return sf.f.Close() }

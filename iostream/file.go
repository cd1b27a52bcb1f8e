package iostream

import (
	"fmt"
	"io"
	"os"
)

// FileMode selects how a named file is opened.
type FileMode int

const (
	ModeWrite  FileMode = iota // "wb": create/truncate for writing
	ModeRead                   // "rb": open existing for reading
	ModeAppend                 // "ab": open (creating if needed) for appending
)

func openFlags(mode FileMode) (int, error) {
	switch mode {
	case ModeWrite:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case ModeRead:
		return os.O_RDONLY, nil
	case ModeAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	default:
		return 0, fmt.Errorf("iostream: invalid file mode %d", mode)
	}
}

// FileSink is a Sink backed by an *os.File. It can either open a named
// file itself (and close it on Complete) or borrow an already-open
// handle from the caller (left open on Complete), matching the format's
// "named file" vs. "open file handle" stream kinds.
type FileSink struct {
	f        *os.File
	borrowed bool
	written  int64
}

var _ Sink = (*FileSink)(nil)

// NewFileSink opens (or creates/truncates/appends to, per mode) name and
// returns a Sink that owns the resulting handle.
func NewFileSink(name string, mode FileMode) (*FileSink, error) {
	flags, err := openFlags(mode)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(name, flags, 0o644)
	if err != nil {
		return nil, fatalf("open %q: %v", name, err)
	}

	return &FileSink{f: f}, nil
}

// NewFileSinkHandle wraps an already-open *os.File borrowed from the
// caller; Complete does not close it.
func NewFileSinkHandle(f *os.File) *FileSink {
	return &FileSink{f: f, borrowed: true}
}

// Write implements Sink.
func (s *FileSink) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	s.written += int64(n)
	if err != nil {
		return n, fatalf("write: %v", err)
	}

	return n, nil
}

// Align implements Sink.
func (s *FileSink) Align(m int) error {
	if m <= 0 {
		return fatalf("file sink: invalid alignment %d", m)
	}
	pad := (m - int(s.written%int64(m))) % m
	if pad == 0 {
		return nil
	}
	_, err := s.Write(make([]byte, pad))

	return err
}

// Complete implements Sink.
func (s *FileSink) Complete() error {
	if s.borrowed {
		return nil
	}
	if err := s.f.Close(); err != nil {
		return fatalf("close: %v", err)
	}

	return nil
}

// FileSource is the read-side counterpart of FileSink.
type FileSource struct {
	f        *os.File
	borrowed bool
	read     int64
	mirror   Sink
}

var _ Source = (*FileSource)(nil)

// NewFileSource opens name for reading and returns a Source that owns
// the resulting handle.
func NewFileSource(name string) (*FileSource, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fatalf("open %q: %v", name, err)
	}

	return &FileSource{f: f}, nil
}

// NewFileSourceHandle wraps an already-open *os.File borrowed from the
// caller; Complete does not close it.
func NewFileSourceHandle(f *os.File) *FileSource {
	return &FileSource{f: f, borrowed: true}
}

// WithMirror attaches a Sink that receives a copy of every byte Read
// returns.
func (s *FileSource) WithMirror(mirror Sink) *FileSource {
	s.mirror = mirror
	return s
}

// Read implements Source.
func (s *FileSource) Read(p []byte) (int, error) {
	n, err := io.ReadFull(s.f, p)
	s.read += int64(n)
	if err != nil {
		return n, fatalf("read: %v", err)
	}

	if s.mirror != nil {
		if _, werr := s.mirror.Write(p[:n]); werr != nil {
			return n, werr
		}
	}

	return n, nil
}

// Align implements Source.
func (s *FileSource) Align(m int) error {
	if m <= 0 {
		return fatalf("file source: invalid alignment %d", m)
	}
	pad := (m - int(s.read%int64(m))) % m
	if pad == 0 {
		return nil
	}
	buf := make([]byte, pad)
	_, err := s.Read(buf)

	return err
}

// Complete implements Source.
func (s *FileSource) Complete() error {
	if s.borrowed {
		return nil
	}
	if err := s.f.Close(); err != nil {
		return fatalf("close: %v", err)
	}

	return nil
}

package comm

import (
	"errors"
	"io/fs"
	"os"

	"github.com/arloliu/scda/ferror"
)

// ClassifyErrno maps an error returned from the local filesystem onto
// the MPI-style error class an MPI-IO implementation would report for
// the same underlying condition (format §4.4), so the serial and local
// backends can produce Codes that look the same to callers as a real
// MPI-IO binding would.
func ClassifyErrno(err error) ferror.MPICode {
	switch {
	case err == nil:
		return ferror.MPISuccess
	case errors.Is(err, fs.ErrNotExist):
		return ferror.MPIErrNoSuchFile
	case errors.Is(err, fs.ErrExist):
		return ferror.MPIErrFileExists
	case errors.Is(err, fs.ErrPermission):
		return ferror.MPIErrAccess
	case errors.Is(err, fs.ErrClosed):
		return ferror.MPIErrBadFile
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		switch pathErr.Err.Error() {
		case "no space left on device":
			return ferror.MPIErrNoSpace
		case "read-only file system":
			return ferror.MPIErrReadOnly
		case "is a directory", "invalid argument":
			return ferror.MPIErrAMode
		}

		return ferror.MPIErrIO
	}

	return ferror.MPIErrUnknown
}

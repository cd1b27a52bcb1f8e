package ferror

import "fmt"

// Error wraps a Code with a human-readable operation name and an
// optional underlying cause, and implements the standard error
// interface plus errors.As support for Code, ScdaCode and MPICode
// targets and errors.Is support against another *Error.
type Error struct {
	Code Code
	Op   string
	Err  error
}

// NewError builds an *Error for a non-MPI ScdaCode at the named operation.
func NewError(op string, scda ScdaCode, cause error) *Error {
	return &Error{Code: New(scda), Op: op, Err: cause}
}

// NewMPIError builds an *Error carrying an MPI-class failure at the
// named operation.
func NewMPIError(op string, mpi MPICode, cause error) *Error {
	return &Error{Code: NewMPI(mpi), Op: op, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scda: %s: %s/%s: %v", e.Op, e.Code.Scda, e.Code.MPI, e.Err)
	}

	return fmt.Sprintf("scda: %s: %s/%s", e.Op, e.Code.Scda, e.Code.MPI)
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is(err, target) for a target that is itself an
// *Error, matching when both axes of the two Codes are equal. ScdaCode
// and MPICode are not error values; use errors.As to extract them.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Code == other.Code
}

// As supports errors.As(err, &code) for Code, ScdaCode and MPICode targets.
func (e *Error) As(target any) bool {
	switch t := target.(type) {
	case *Code:
		*t = e.Code
		return true
	case *ScdaCode:
		*t = e.Code.Scda
		return true
	case *MPICode:
		*t = e.Code.MPI
		return true
	default:
		return false
	}
}

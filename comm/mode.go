package comm

// OpenMode is a bitmask of MPI-IO-style access mode flags combined
// when opening a File, mirroring MPI_MODE_RDONLY/WRONLY/CREATE/etc.
type OpenMode int

const (
	ModeRDOnly OpenMode = 1 << iota
	ModeWROnly
	ModeRDWR
	ModeCreate
	ModeExcl
	ModeAppend
)

// Has reports whether m includes flag.
func (m OpenMode) Has(flag OpenMode) bool { return m&flag != 0 }

package comm

// File is the subset of an MPI-IO file handle scda's section engine
// drives. ReadAt/WriteAt are independent per-rank operations; ReadAtAll
// and WriteAtAll are their collective counterparts, which every rank in
// the owning Comm must call for the operation to complete on any of
// them (format §1's SPMD discipline). A shim that cannot offer a real
// collective fast path is free to implement *AtAll as *At plus a
// trailing Barrier, which LocalFile's FullIO style does; SerialFile
// (one rank) calls *At directly, and RankFile's RingIO style passes a
// token from rank to rank instead of using a barrier.
type File interface {
	ReadAt(b []byte, off int64) (int, error)
	WriteAt(b []byte, off int64) (int, error)

	ReadAtAll(b []byte, off int64) (int, error)
	WriteAtAll(b []byte, off int64) (int, error)

	// Close releases the handle. Every rank must call Close; it is a
	// collective operation in real MPI-IO and is treated as one here.
	Close() error
}

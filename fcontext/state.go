// Package fcontext implements the file-context state machine (C6), the
// section engine (C7), and the collective protocol helpers (C8): the
// part of scda that ties the padding codec, encoding envelope, byte
// stream abstraction, MPI-IO shim, and error model together into the
// public open/section/close API.
package fcontext

import "fmt"

// State is one node of the file-context lifecycle:
// INIT -> WRITING|READING -> CLOSED|FAILED.
type State int

const (
	StateInit State = iota
	StateWriting
	StateReading
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateWriting:
		return "WRITING"
	case StateReading:
		return "READING"
	case StateClosed:
		return "CLOSED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

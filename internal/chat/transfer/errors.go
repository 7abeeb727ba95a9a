package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrShortSource - source ended before declared size was reached.
	ErrShortSource = errors.New("transfer: source is shorter than declared size")
	// ErrState - operation is not allowed in current state.
	ErrState = errors.New("transfer: invalid state")
)

// Side - which endpoint of the copy has failed.
type Side int

const (
	_ Side = iota
	// SideSource - reading has failed.
	SideSource
	// SideDestination - writing has failed.
	SideDestination
)

func (s Side) String() string {
	switch s {
	case SideSource:
		return "source"
	case SideDestination:
		return "destination"
	default:
		return "unknown side"
	}
}

// Error - I/O failure in the middle of transfer.
type Error struct {
	Name string
	Side Side
	Done int64
	Size int64
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transfer %q failed on %s after %d/%d byte(s): %v", e.Name, e.Side, e.Done, e.Size, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

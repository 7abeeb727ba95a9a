package message

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSizeSeparator - descriptor payload does not contain size separator.
	ErrNoSizeSeparator = errors.New("message: size separator is missing")
	// ErrNegativeSize - descriptor declares negative file size.
	ErrNegativeSize = errors.New("message: negative size")
)

// FormatError - payload does not follow the expected format.
// Callers treat it as protocol violation of the peer, not as failure of the connection.
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("message: invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

package storage

import "errors"

var (
	// ErrNotFound - requested file does not exist or is not a regular file.
	ErrNotFound = errors.New("storage: file not found")
	// ErrInvalidName - file name is empty or points outside of the directory.
	ErrInvalidName = errors.New("storage: invalid file name")
)

package client

import "errors"

var (
	// ErrClosed - the server has confirmed logout.
	ErrClosed = errors.New("client.Client: connection closed by server")

	// ErrDisconnected - the connection was lost without logout.
	ErrDisconnected = errors.New("client.Client: disconnected")

	// ErrFileNotFound - local file for upload is absent or is not a regular file.
	ErrFileNotFound = errors.New("client.Client: file not found")

	// ErrUnknownTag - the server has sent envelope the client does not understand.
	ErrUnknownTag = errors.New("client.Client: unknown tag")
)

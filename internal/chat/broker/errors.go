package broker

import "errors"

var (
	// ErrUnderStopCondition - returns in case if Broker is under stop condition
	// and will not accept any new connections, so you should close such connection by your own.
	ErrUnderStopCondition = errors.New("broker.Broker: under stop condition")

	// ErrConnKept - returns in case if connection with the same identity is kept already.
	ErrConnKept = errors.New("broker.Broker: connection is kept already")

	// ErrConnection - transport of the client is broken, the connection is dropped.
	ErrConnection = errors.New("broker.Broker: connection failure")

	// ErrTarget - private message target is invalid or absent.
	// It is never fatal, the sender is notified by text message.
	ErrTarget = errors.New("broker.Broker: invalid target")
)

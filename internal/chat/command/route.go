package command

import "github.com/wtask/filechat/internal/chat/message"

// Route - rule to choose socket(s) receiving the result of command.
type Route int

const (
	// RouteNone - nothing to deliver.
	RouteNone Route = iota
	// RouteSelf - back to issuing client.
	RouteSelf
	// RoutePrivate - to the client named by Instruction.Target.
	RoutePrivate
	// RouteBroadcast - to all connected clients.
	RouteBroadcast
	// RouteFileSend - stream Instruction.File from server to issuing client.
	RouteFileSend
	// RouteFileReceive - stream Instruction.File from issuing client to server.
	RouteFileReceive
)

func (r Route) String() string {
	switch r {
	case RouteNone:
		return "none"
	case RouteSelf:
		return "self"
	case RoutePrivate:
		return "private"
	case RouteBroadcast:
		return "broadcast"
	case RouteFileSend:
		return "file-send"
	case RouteFileReceive:
		return "file-receive"
	default:
		return "unknown route"
	}
}

// Instruction - result of command, consumed immediately by dispatcher.
type Instruction struct {
	Route Route
	// Data - envelope to deliver for text routes.
	Data message.Envelope
	// Target - client ID exactly as requested, RoutePrivate only.
	Target string
	// File - RouteFileSend and RouteFileReceive only.
	File message.FileDescriptor
	// Err - the cause when Data reports a failure of the request.
	Err error
}

// Self - instruction to answer issuing client.
func Self(e message.Envelope) Instruction {
	return Instruction{Route: RouteSelf, Data: e}
}

// Failure - instruction to answer issuing client with error text.
func Failure(text string, err error) Instruction {
	return Instruction{Route: RouteSelf, Data: message.Server(text), Err: err}
}

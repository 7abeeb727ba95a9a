package broker

import "time"

// NetEvent - base event related to connected client.
type NetEvent struct {
	Client     Identity
	OriginTime time.Time
}

// JoinEvent - occurres after new client was connected.
type JoinEvent struct {
	NetEvent
}

// PartAction - describes the type of parting with client (connection).
type PartAction int

const (
	_ PartAction = iota
	// PartActionLeft - the connection was closed by client.
	PartActionLeft
	// PartActionExit - client has sent exit command.
	PartActionExit
	// PartActionReset - transport failure.
	PartActionReset
	// PartActionTransferFailed - file stream got out of sync and can not be continued.
	PartActionTransferFailed
	// PartActionStopped - broker is stopping.
	PartActionStopped
)

func (a PartAction) String() string {
	switch a {
	case PartActionLeft:
		return "left"
	case PartActionExit:
		return "logged out"
	case PartActionReset:
		return "disconnected abruptly"
	case PartActionTransferFailed:
		return "dropped after failed transfer"
	case PartActionStopped:
		return "dropped on server stop"
	default:
		return "unknown part action"
	}
}

// PartEvent - occurres after parting with client.
type PartEvent struct {
	NetEvent
	Action PartAction
	Err    error
}

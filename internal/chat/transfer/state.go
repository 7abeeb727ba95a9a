package transfer

// State - stage of file transfer handshake.
type State int

const (
	// StateIdle - nothing is negotiated yet.
	StateIdle State = iota
	// StateDescriptorSent - peer was told name and size, no byte is streamed yet.
	StateDescriptorSent
	// StateStreaming - raw bytes occupy the socket, no envelope may be sent.
	StateStreaming
	// StateDone - declared number of bytes is transferred.
	StateDone
	// StateFailed - transfer aborted by I/O error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDescriptorSent:
		return "descriptor sent"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown transfer state"
	}
}

package message

import "strings"

const (
	// Delimiter - separates tag (or command keyword) from payload.
	Delimiter = ":"
	// LineSeparator - joins lines of multi-line payload.
	LineSeparator = "<<SEP>>"
	// SizeSeparator - separates file name and file size within descriptor payload.
	SizeSeparator = "||"
)

// Tags sent from server to client.
const (
	TagClose    = "<close>"
	TagMulti    = "<mult>"
	TagSingle   = "<single>"
	TagConfirm  = "<confirm>"
	TagSendFile = "<send_file>"
)

// Tags sent from client to server during file transfer handshake.
const (
	TagConfirmAck = "<conf>"
	TagFileInfo   = "<file_inf>"
)

// ServerAuthor - prefix of text generated by server itself.
const ServerAuthor = "SERVER"

// Envelope - single protocol message: tag (or command keyword) with optional payload.
type Envelope struct {
	Tag        string
	Payload    string
	HasPayload bool
}

// New - builds envelope with payload.
func New(tag, payload string) Envelope {
	return Envelope{Tag: tag, Payload: payload, HasPayload: true}
}

// Bare - builds envelope without payload.
func Bare(tag string) Envelope {
	return Envelope{Tag: tag}
}

// Decode - splits raw data on the first delimiter.
// If there is no delimiter, envelope has no payload.
func Decode(raw []byte) Envelope {
	s := string(raw)
	i := strings.Index(s, Delimiter)
	if i < 0 {
		return Envelope{Tag: s}
	}
	return Envelope{Tag: s[:i], Payload: s[i+len(Delimiter):], HasPayload: true}
}

// Encode - returns wire representation of envelope.
func Encode(e Envelope) []byte {
	return []byte(e.String())
}

func (e Envelope) String() string {
	if !e.HasPayload {
		return e.Tag
	}
	return e.Tag + Delimiter + e.Payload
}

// JoinLines - builds multi-line payload.
func JoinLines(lines []string) string {
	return strings.Join(lines, LineSeparator)
}

// SplitLines - splits multi-line payload into ordered lines.
func SplitLines(payload string) []string {
	return strings.Split(payload, LineSeparator)
}

// Single - single line text envelope.
func Single(text string) Envelope {
	return New(TagSingle, text)
}

// Multi - multi-line text envelope.
func Multi(lines []string) Envelope {
	return New(TagMulti, JoinLines(lines))
}

// Server - single line text envelope authored by server.
func Server(text string) Envelope {
	return Single(ServerAuthor + ": " + text)
}

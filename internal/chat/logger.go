package chat

import (
	"fmt"
	"net"

	"github.com/wtask/filechat/internal/chat/broker"
)

// Logger - interface for logging chat events
type Logger interface {
	Println(v ...interface{})
}

func logInfo(l Logger, v ...interface{}) {
	if l == nil {
		return
	}
	l.Println(v...)
}

func logError(l Logger, v ...interface{}) {
	if l == nil {
		return
	}
	l.Println(append([]interface{}{"ERR"}, v...)...)
}

// formatAddress - formats specified network address for logging purposes.
func formatAddress(a net.Addr) string {
	if a == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s", a.Network(), a.String())
}

// formatPart - one-line description of parting with client.
func formatPart(e broker.PartEvent) string {
	line := fmt.Sprintf("Connection with %s closed: client %s", e.Client, e.Action)
	if e.Err != nil {
		line += fmt.Sprintf(" (%v)", e.Err)
	}
	return line
}

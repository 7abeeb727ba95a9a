package broker

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/wtask/filechat/internal/chat/command"
	"github.com/wtask/filechat/internal/chat/message"
	"github.com/wtask/filechat/internal/chat/transfer"
)

// forward - delivers result of command according to its route.
// It is the only place where control envelopes are written into sockets.
func (b *Broker) forward(c *client, ins command.Instruction) error {
	switch ins.Route {
	case command.RouteNone:
		return nil
	case command.RouteSelf:
		return b.reply(c, ins.Data)
	case command.RoutePrivate:
		return b.sendPrivate(c, ins.Target, ins.Data)
	case command.RouteBroadcast:
		return b.broadcast(c, ins.Data)
	case command.RouteFileSend:
		return b.sendFile(c, ins.File)
	case command.RouteFileReceive:
		return b.receiveFile(c, ins.File)
	default:
		return fmt.Errorf("broker.forward: unknown route %v", ins.Route)
	}
}

// reply - sends envelope back to issuing client.
func (b *Broker) reply(c *client, e message.Envelope) error {
	if err := c.send(e); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

func (b *Broker) sendPrivate(c *client, target string, e message.Envelope) error {
	port, err := strconv.Atoi(target)
	if err != nil {
		b.traceln(c.id.Port, fmt.Errorf("%w: %q is not numeric", ErrTarget, target))
		return b.reply(c, message.Server(command.TextInvalidTarget))
	}
	to, ok := b.clients.lookupPort(port)
	if !ok {
		b.traceln(c.id.Port, fmt.Errorf("%w: %d is not logged in", ErrTarget, port))
		return b.reply(c, message.Server(command.TextTargetOffline))
	}
	if err := to.send(e); err != nil {
		// target is about to be dropped by its own handler
		logError(b.logger, to.id, "private message failed:", err)
		return b.reply(c, message.Server(command.TextTargetOffline))
	}
	return nil
}

// broadcast - delivers envelope to every connected client including the sender.
// Requires at least two connected clients.
func (b *Broker) broadcast(c *client, e message.Envelope) error {
	list := b.clients.snapshot()
	if len(list) < 2 {
		return b.reply(c, message.Server(command.TextOnlyOne))
	}
	for _, to := range list {
		if to == c {
			if err := b.reply(c, e); err != nil {
				return err
			}
			continue
		}
		if err := to.send(e); err != nil {
			logError(b.logger, to.id, "broadcast failed:", err)
		}
	}
	return nil
}

// sendFile - streams file requested and confirmed by client.
// The client reads declared number of bytes right after its confirmation,
// so any failure here is a failure of the stream.
func (b *Broker) sendFile(c *client, file message.FileDescriptor) error {
	f, _, err := b.files.Open(file.Name)
	if err != nil {
		// the file is gone since the offer, the client is reading the stream already
		return &transfer.Error{Name: file.Name, Side: transfer.SideSource, Size: file.Size, Err: err}
	}
	defer f.Close()

	t, err := transfer.New(file, transfer.WithChunkSize(b.chunkSize))
	if err != nil {
		return err
	}
	// descriptor was delivered with confirm envelope
	if err := t.Describe(); err != nil {
		return err
	}
	err = c.stream(func(w io.Writer) error {
		return t.Send(w, f)
	})
	var transferErr *transfer.Error
	if errors.As(err, &transferErr) && transferErr.Side == transfer.SideDestination {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if err != nil {
		return err
	}
	b.traceln(c.id.Port, "sent", file.String(), t.State())
	return nil
}

// receiveFile - accepts file pushed by client.
// Declared number of bytes is always consumed from the socket, even if the file can not be written.
func (b *Broker) receiveFile(c *client, file message.FileDescriptor) error {
	t, err := transfer.New(file, transfer.WithChunkSize(b.chunkSize))
	if err != nil {
		return err
	}
	if err := b.reply(c, message.New(message.TagSendFile, file.String())); err != nil {
		return err
	}
	if err := t.Describe(); err != nil {
		return err
	}

	var dst io.Writer
	f, createErr := b.files.Create(file.Name)
	if createErr != nil {
		dst = transfer.FailedWriter(createErr)
	} else {
		dst = f
	}
	err = t.Receive(dst, c.conn)
	if f != nil {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	var transferErr *transfer.Error
	if errors.As(err, &transferErr) && transferErr.Side == transfer.SideSource {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	status := message.Server(command.TextFileReceived)
	if createErr != nil || err != nil {
		// partial file is left as is
		logError(b.logger, c.id, "receiving", file.String(), "failed:", createErr, err)
		status = message.Server(command.TextReceiveFailed)
	} else {
		b.traceln(c.id.Port, "received", file.String(), t.State())
	}
	return b.reply(c, status)
}

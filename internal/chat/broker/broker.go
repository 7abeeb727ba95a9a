package broker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/wtask/filechat/internal/chat/command"
	"github.com/wtask/filechat/internal/chat/message"
	"github.com/wtask/filechat/internal/chat/storage"
	"github.com/wtask/filechat/internal/chat/transfer"
	"github.com/wtask/filechat/pkg/background"
)

// Storage - server directory used by commands and file transfers.
type Storage interface {
	command.Files
	Open(name string) (*os.File, storage.FileInfo, error)
	Create(name string) (*os.File, error)
}

// Broker - chat connections keeper, command dispatcher and message router.
type Broker struct {
	files     Storage
	identify  Identifier
	bufSize   int
	chunkSize int
	logger    Logger
	trace     Logger
	join      chan<- JoinEvent
	part      chan<- PartEvent

	// scope - connection handlers and event notifiers
	scope   *background.Scope
	clients *registry
}

type brokerOption func(b *Broker) error

func setup(b *Broker, options ...brokerOption) error {
	if b == nil {
		return nil
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(b); err != nil {
			return err
		}
	}
	return nil
}

// New - builds Broker over server directory with needed options.
func New(files Storage, options ...brokerOption) (*Broker, error) {
	if files == nil {
		return nil, errors.New("broker.New: storage is nil")
	}
	b := &Broker{
		files:     files,
		identify:  RemoteIdentity,
		bufSize:   1024,
		chunkSize: transfer.DefaultChunkSize,
		clients:   newRegistry(),
	}
	if err := setup(b, options...); err != nil {
		return nil, err
	}
	b.scope = background.NewScope(nil)

	return b, nil
}

// Len - number of connected clients.
func (b *Broker) Len() int {
	return b.clients.len()
}

// Quit - cancels internal context, drops all connections and waits all handlers will stop.
// Returns duration of time spent for quit. This time always less or equal of given timeout.
func (b *Broker) Quit(timeout time.Duration) time.Duration {
	if b.scope.Stopped() {
		return 0
	}
	from := time.Now()
	b.scope.Cancel()
	for _, c := range b.clients.snapshot() {
		// unblocks reader of the connection
		c.close()
	}
	b.scope.Wait(timeout)
	return time.Since(from)
}

// KeepConnection - registers new net connection and starts in background the handler of its commands.
// Since this call the Broker owns the connection and closes it after handling.
func (b *Broker) KeepConnection(conn net.Conn) error {
	if b.scope.Stopped() {
		return ErrUnderStopCondition
	}
	id, err := b.identify(conn)
	if err != nil {
		return fmt.Errorf("broker.KeepConnection: can't identify connection: %w", err)
	}
	c := &client{id: id, conn: conn}
	if !b.clients.add(c) {
		return ErrConnKept
	}

	started := b.scope.Go(func(ctx context.Context) {
		b.handle(ctx, c)
	})
	if !started {
		// Quit has happened after registration
		b.clients.remove(id)
		return ErrUnderStopCondition
	}

	return nil
}

// handle - processes commands of single client in order of arrival until the client is gone.
// Join event is delivered before any command is read, so part event of the client is always the last one.
func (b *Broker) handle(ctx context.Context, c *client) {
	b.notifyJoin(ctx, c.id)
	action, cause := PartActionLeft, error(nil)
	defer func() {
		if b.scope.Stopped() && action != PartActionExit {
			action = PartActionStopped
		}
		b.teardown(c)
		b.notifyPart(c.id, action, cause)
	}()

	buf := make([]byte, b.bufSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			raw := bytes.TrimRight(buf[:n], "\r\n")
			if stop, act, fatal := b.process(c, raw); stop {
				action, cause = act, fatal
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				action, cause = PartActionReset, err
			}
			return
		}
	}
}

// process - handles single envelope, returns stop flag if the connection must be dropped.
func (b *Broker) process(c *client, raw []byte) (stop bool, action PartAction, cause error) {
	e := message.Decode(raw)
	kind, ok := command.Lookup(e.Tag)
	b.traceln(c.id.Port, ">", e.Tag)
	if ok && kind == command.KindExit {
		if err := c.send(message.Bare(message.TagClose)); err != nil {
			logError(b.logger, c.id, "can't send close:", err)
		}
		return true, PartActionExit, nil
	}

	ins := command.NotFound()
	if ok {
		ins = command.Execute(b.files, command.Request{
			Kind:    kind,
			Port:    c.id.Port,
			Args:    e.Payload,
			HasArgs: e.HasPayload,
		})
	}
	if ins.Err != nil {
		b.traceln(c.id.Port, e.Tag, "failed:", ins.Err)
	}

	err := b.forward(c, ins)
	var transferErr *transfer.Error
	switch {
	case err == nil:
		return false, 0, nil
	case errors.Is(err, ErrConnection):
		return true, PartActionReset, err
	case errors.As(err, &transferErr):
		// the peer is inside of byte stream which can not be completed
		logError(b.logger, c.id, err)
		return true, PartActionTransferFailed, err
	default:
		logError(b.logger, c.id, e.Tag, "failed:", err)
		if err := c.send(message.Server(command.TextWrongRequest)); err != nil {
			return true, PartActionReset, fmt.Errorf("%w: %v", ErrConnection, err)
		}
		return false, 0, nil
	}
}

// teardown - removes client from registry, then closes its connection exactly once.
func (b *Broker) teardown(c *client) {
	b.clients.remove(c.id)
	if err := c.close(); err != nil {
		b.traceln(c.id.Port, "close error:", err)
	}
}

// notifyJoin - propagates join event if join channel available.
// Blocks until the event is taken or the broker quits.
func (b *Broker) notifyJoin(ctx context.Context, id Identity) {
	if b.join == nil {
		return
	}
	select {
	case b.join <- JoinEvent{NetEvent{id, time.Now().UTC()}}:
	case <-ctx.Done():
	}
}

// notifyPart - propagates part event if part channel available.
func (b *Broker) notifyPart(id Identity, action PartAction, cause error) {
	if b.part == nil {
		return
	}
	event := PartEvent{NetEvent{id, time.Now().UTC()}, action, cause}
	b.scope.Go(func(ctx context.Context) {
		select {
		case b.part <- event:
		case <-ctx.Done():
		}
	})
}

func (b *Broker) traceln(v ...interface{}) {
	if b.trace == nil {
		return
	}
	b.trace.Println(v...)
}

func logError(l Logger, v ...interface{}) {
	if l == nil {
		return
	}
	l.Println(append([]interface{}{"ERR"}, v...)...)
}

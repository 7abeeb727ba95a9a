// Package client implements the peer side of the chat protocol:
// it sends user requests and handles server envelopes including file streams.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wtask/filechat/internal/chat/command"
	"github.com/wtask/filechat/internal/chat/message"
	"github.com/wtask/filechat/internal/chat/storage"
	"github.com/wtask/filechat/internal/chat/transfer"
)

// Display - presentation of server answers and transfer progress.
type Display interface {
	// Lines - multi-line server answer.
	Lines(lines []string)
	// Line - single-line server answer or chat message.
	Line(text string)
	// Progress - file transfer progress, label tells the direction.
	Progress(label string, done, total int64)
	// Error - non-fatal problem, the session continues.
	Error(err error)
}

// Progress labels.
const (
	LabelReceived = "Received data"
	LabelSent     = "Sent data"
)

// Client - single connection to the chat server.
type Client struct {
	conn      net.Conn
	dir       *storage.Dir
	display   Display
	bufSize   int
	chunkSize int
	// wmu - requests of user must not get between bytes of uploaded file
	wmu sync.Mutex
	// answered - signaled when server answer is handled completely
	answered  chan struct{}
	streaming atomic.Bool
}

type clientOption func(c *Client) error

// WithDisplay - attach display of server answers, answers are dropped without it.
func WithDisplay(d Display) clientOption {
	return func(c *Client) error {
		if d == nil {
			return errors.New("client.WithDisplay: display is nil")
		}
		c.display = d
		return nil
	}
}

// WithChunkSize - overwrites default size of single read/write while streaming files.
func WithChunkSize(size int) clientOption {
	return func(c *Client) error {
		if size <= 0 {
			return fmt.Errorf("client.WithChunkSize: invalid size (%d)", size)
		}
		c.chunkSize = size
		return nil
	}
}

// New - builds client over established connection, files are exchanged with dir.
func New(conn net.Conn, dir *storage.Dir, options ...clientOption) (*Client, error) {
	if conn == nil {
		return nil, errors.New("client.New: conn is nil")
	}
	if dir == nil {
		return nil, errors.New("client.New: directory is nil")
	}
	c := &Client{
		conn:      conn,
		dir:       dir,
		display:   discard{},
		bufSize:   1024,
		chunkSize: transfer.DefaultChunkSize,
		answered:  make(chan struct{}, 1),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Dial - connects to the server at TCP address.
func Dial(addr string, dir *storage.Dir, options ...clientOption) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client.Dial: %w", err)
	}
	c, err := New(conn, dir, options...)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Close - closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Answered - signals that server answer is handled, including file stream it has started.
// The server reads single envelope per read call, so next request should be sent after the signal.
// Some requests, like delivered private message, have no answer at all.
func (c *Client) Answered() <-chan struct{} {
	return c.answered
}

// Streaming - reports whether file transfer is in progress.
func (c *Client) Streaming() bool {
	return c.streaming.Load()
}

func (c *Client) signal() {
	select {
	case c.answered <- struct{}{}:
	default:
	}
}

// request - sends request, answer to previous one is not expected anymore.
func (c *Client) request(p []byte) error {
	select {
	case <-c.answered:
	default:
	}
	return c.write(p)
}

func (c *Client) write(p []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.conn.Write(p)
	return err
}

// Send - sends user request to the server as is.
// Upload request `/upl:name` is resolved locally: the server gets the name and the size of the file.
func (c *Client) Send(request string) error {
	e := message.Decode([]byte(request))
	if e.Tag != command.KeywordUpload {
		return c.request([]byte(request))
	}
	info, err := c.dir.Stat(e.Payload)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, e.Payload)
	}
	file := message.FileDescriptor{Name: info.Name, Size: info.Size}
	return c.request(message.Encode(message.New(message.TagFileInfo, file.String())))
}

// Receive - handles envelopes of the server until the connection is closed or ctx is done.
// Returns ErrClosed after logout confirmed by the server.
func (c *Client) Receive(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		// unblocks pending read
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, c.bufSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			e := message.Decode(buf[:n])
			if err := c.dispatch(e); err != nil {
				return err
			}
			if e.Tag != message.TagSendFile {
				// upload is answered with status after the stream
				c.signal()
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrDisconnected
			}
			return fmt.Errorf("%w: %v", ErrDisconnected, err)
		}
	}
}

func (c *Client) dispatch(e message.Envelope) error {
	switch e.Tag {
	case message.TagClose:
		return ErrClosed
	case message.TagMulti:
		if e.Payload != "" {
			c.display.Lines(message.SplitLines(e.Payload))
		}
	case message.TagSingle:
		if e.Payload != "" {
			c.display.Line(e.Payload)
		}
	case message.TagConfirm:
		return c.download(e.Payload)
	case message.TagSendFile:
		return c.upload(e.Payload)
	default:
		c.display.Error(fmt.Errorf("%w: %q", ErrUnknownTag, e.Tag))
	}
	return nil
}

func (c *Client) progress(label string) transfer.Progress {
	return func(done, total int64) {
		c.display.Progress(label, done, total)
	}
}

// download - confirms offered file and receives its bytes into the client directory.
func (c *Client) download(payload string) error {
	file, err := message.ParseDescriptor(payload)
	if err != nil {
		c.display.Error(err)
		return nil
	}
	t, err := transfer.New(file, transfer.WithChunkSize(c.chunkSize), transfer.WithProgress(c.progress(LabelReceived)))
	if err != nil {
		c.display.Error(err)
		return nil
	}
	c.streaming.Store(true)
	defer c.streaming.Store(false)
	if err := c.write(message.Encode(message.New(message.TagConfirmAck, file.String()))); err != nil {
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	if err := t.Describe(); err != nil {
		return err
	}

	f, err := c.dir.Create(file.Name)
	var dst io.Writer = f
	if err != nil {
		dst = transfer.FailedWriter(err)
	}
	err = t.Receive(dst, c.conn)
	if f != nil {
		f.Close()
	}
	var transferErr *transfer.Error
	switch {
	case errors.As(err, &transferErr) && transferErr.Side == transfer.SideSource:
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	case err != nil:
		c.display.Error(err)
	default:
		c.display.Line(fmt.Sprintf("File received (%s)", file.Name))
	}
	return nil
}

// upload - streams the file requested by the server.
// The server waits for exact number of bytes, so any failure here ends the session.
func (c *Client) upload(payload string) error {
	file, err := message.ParseDescriptor(payload)
	if err != nil {
		return err
	}
	f, _, err := c.dir.Open(file.Name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	defer f.Close()
	t, err := transfer.New(file, transfer.WithChunkSize(c.chunkSize), transfer.WithProgress(c.progress(LabelSent)))
	if err != nil {
		return err
	}
	if err := t.Describe(); err != nil {
		return err
	}
	c.streaming.Store(true)
	defer c.streaming.Store(false)
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return t.Send(c.conn, f)
}

// discard - display of nothing.
type discard struct{}

func (discard) Lines([]string) {}

func (discard) Line(string) {}

func (discard) Progress(string, int64, int64) {}

func (discard) Error(error) {}

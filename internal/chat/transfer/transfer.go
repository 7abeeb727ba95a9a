package transfer

import (
	"errors"
	"fmt"
	"io"

	"github.com/wtask/filechat/internal/chat/message"
)

// DefaultChunkSize - size of single read/write while streaming.
const DefaultChunkSize = 1024

// Progress - observer of streamed bytes, has no influence on the transfer.
type Progress func(done, total int64)

// Transfer - length-bounded copy of a single file over a socket shared with control envelopes.
// The peer interprets next Size bytes unconditionally as file content,
// so nothing else may be written into the socket until the transfer leaves StateStreaming.
type Transfer struct {
	file     message.FileDescriptor
	chunk    int
	progress Progress
	state    State
	done     int64
}

type transferOption func(t *Transfer) error

// WithChunkSize - overwrites default chunk size.
func WithChunkSize(size int) transferOption {
	return func(t *Transfer) error {
		if size <= 0 {
			return fmt.Errorf("transfer.WithChunkSize: invalid size (%d)", size)
		}
		t.chunk = size
		return nil
	}
}

// WithProgress - attaches progress observer.
func WithProgress(p Progress) transferOption {
	return func(t *Transfer) error {
		t.progress = p
		return nil
	}
}

// New - builds idle transfer of described file.
func New(file message.FileDescriptor, options ...transferOption) (*Transfer, error) {
	if file.Size < 0 {
		return nil, fmt.Errorf("transfer.New: negative size (%d)", file.Size)
	}
	t := &Transfer{file: file, chunk: DefaultChunkSize}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// State - current state.
func (t *Transfer) State() State {
	return t.state
}

// Done - number of bytes transferred so far.
func (t *Transfer) Done() int64 {
	return t.done
}

// Describe - marks descriptor as delivered to the peer.
func (t *Transfer) Describe() error {
	if t.state != StateIdle {
		return fmt.Errorf("%w: describe in %s", ErrState, t.state)
	}
	t.state = StateDescriptorSent
	return nil
}

// Send - streams exactly declared size from local src (file) into dst (socket).
// A source shorter than declared is a failure: the peer still waits for the missing bytes.
func (t *Transfer) Send(dst io.Writer, src io.Reader) error {
	return t.stream(dst, src, false)
}

// Receive - reads exactly declared size from src (socket) into local dst (file).
// If dst fails, remaining bytes are still consumed from src,
// so the next read from the socket starts with a control envelope again.
func (t *Transfer) Receive(dst io.Writer, src io.Reader) error {
	return t.stream(dst, src, true)
}

func (t *Transfer) stream(dst io.Writer, src io.Reader, drain bool) error {
	if t.state != StateDescriptorSent {
		return fmt.Errorf("%w: stream in %s", ErrState, t.state)
	}
	t.state = StateStreaming
	buf := make([]byte, t.chunk)
	var dstErr error
	for t.done < t.file.Size {
		n := t.chunk
		if remains := t.file.Size - t.done; remains < int64(n) {
			n = int(remains)
		}
		var (
			read int
			err  error
		)
		if drain {
			// socket may return less than asked, it is fine
			read, err = src.Read(buf[:n])
		} else {
			read, err = io.ReadFull(src, buf[:n])
		}
		if read > 0 && dstErr == nil {
			if _, werr := dst.Write(buf[:read]); werr != nil {
				dstErr = werr
				if !drain {
					t.done += int64(read)
					return t.fail(SideDestination, dstErr)
				}
			}
		}
		t.done += int64(read)
		if t.progress != nil && read > 0 {
			t.progress(t.done, t.file.Size)
		}
		if err != nil {
			if t.done >= t.file.Size {
				break
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = fmt.Errorf("%w: %v", ErrShortSource, err)
			}
			return t.fail(SideSource, err)
		}
	}
	if dstErr != nil {
		return t.fail(SideDestination, dstErr)
	}
	t.state = StateDone
	return nil
}

func (t *Transfer) fail(side Side, err error) error {
	t.state = StateFailed
	return &Error{Name: t.file.Name, Side: side, Done: t.done, Size: t.file.Size, Err: err}
}

type failedWriter struct{ err error }

func (w failedWriter) Write([]byte) (int, error) {
	return 0, w.err
}

// FailedWriter - destination which rejects every write with err.
// Receive into it consumes declared bytes from the source and reports err.
func FailedWriter(err error) io.Writer {
	return failedWriter{err}
}

package broker

import (
	"errors"
	"fmt"
)

// Logger - interface for logging broker events.
type Logger interface {
	Println(v ...interface{})
}

// WithLogger - attach logger of connection failures.
func WithLogger(l Logger) brokerOption {
	return func(b *Broker) error {
		if l == nil {
			return errors.New("broker.WithLogger: logger is nil")
		}
		b.logger = l
		return nil
	}
}

// WithTrace - attach logger of every processed command and finished transfer.
func WithTrace(l Logger) brokerOption {
	return func(b *Broker) error {
		if l == nil {
			return errors.New("broker.WithTrace: logger is nil")
		}
		b.trace = l
		return nil
	}
}

// WithJoinChan - attach channel to be notified of client is joined.
func WithJoinChan(join chan<- JoinEvent) brokerOption {
	return func(b *Broker) error {
		if b.join != nil {
			return errors.New("broker.WithJoinChan: join-channel already set up")
		}
		b.join = join
		return nil
	}
}

// WithPartChan - attach channel to be notified of parting with client.
func WithPartChan(part chan<- PartEvent) brokerOption {
	return func(b *Broker) error {
		if b.part != nil {
			return errors.New("broker.WithPartChan: part-channel already set up")
		}
		b.part = part
		return nil
	}
}

// WithIdentifier - overwrites default identity resolver of accepted connections.
func WithIdentifier(identify Identifier) brokerOption {
	return func(b *Broker) error {
		if identify == nil {
			return errors.New("broker.WithIdentifier: identifier is nil")
		}
		b.identify = identify
		return nil
	}
}

// WithBufferSize - overwrites default size of buffer for single incoming envelope.
func WithBufferSize(size int) brokerOption {
	return func(b *Broker) error {
		if size <= 0 {
			return fmt.Errorf("broker.WithBufferSize: invalid size (%d)", size)
		}
		b.bufSize = size
		return nil
	}
}

// WithChunkSize - overwrites default size of single read/write while streaming files.
func WithChunkSize(size int) brokerOption {
	return func(b *Broker) error {
		if size <= 0 {
			return fmt.Errorf("broker.WithChunkSize: invalid size (%d)", size)
		}
		b.chunkSize = size
		return nil
	}
}

package chat

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/wtask/filechat/internal/chat/broker"
	"github.com/wtask/filechat/pkg/background"
)

// Server - represents chat server over any net.Listener implementation.
type Server struct {
	// scope - listeners and event handlers
	scope  *background.Scope
	broker *broker.Broker
	logger Logger
	join   <-chan broker.JoinEvent
	part   <-chan broker.PartEvent
}

type serverOption func(s *Server) error

// WithLogger - attach logger of server and client events.
func WithLogger(l Logger) serverOption {
	return func(s *Server) error {
		if l == nil {
			return errors.New("chat.WithLogger: logger is nil")
		}
		s.logger = l
		return nil
	}
}

// NewServer - creates new chat server which ready to serve several network listeners.
func NewServer(buildBroker BrokerBuilder, options ...serverOption) (*Server, error) {
	if buildBroker == nil {
		return nil, errors.New("chat.NewServer: required chat.BrokerBuilder is nil")
	}
	join := make(chan broker.JoinEvent)
	part := make(chan broker.PartEvent)
	b, err := buildBroker(join, part)
	if err != nil {
		return nil, fmt.Errorf("chat.NewServer: can't build broker: %w", err)
	}
	s := &Server{
		broker: b,
		join:   join,
		part:   part,
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			b.Quit(0)
			return nil, err
		}
	}
	s.scope = background.NewScope(nil)
	s.scope.Go(s.handleJoinEvents)
	s.scope.Go(s.handlePartEvents)
	return s, nil
}

// Serve - accepts connections of specified network listener and passes them to broker.
// Blocks until the listener fails or the server is shut down. The listener is closed on return.
// Returns nil after Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	if listener == nil {
		return errors.New("chat.Server.Serve: listener is nil")
	}
	stop := make(chan struct{})
	defer close(stop)
	started := s.scope.Go(func(ctx context.Context) {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		listener.Close()
	})
	if !started {
		listener.Close()
		return nil
	}
	logInfo(s.logger, "Listen", formatAddress(listener.Addr()))

	delay := time.Duration(0)
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.scope.Stopped() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("chat.Server.Serve: %w", err)
			}
			// backoff on failures like running out of file descriptors
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > time.Second {
				delay = time.Second
			}
			logError(s.logger, "Accept failed, retrying in", delay, err)
			time.Sleep(delay)
			continue
		}
		delay = 0

		if err := s.broker.KeepConnection(conn); err != nil {
			logError(s.logger, "Connection", formatAddress(conn.RemoteAddr()), "rejected:", err)
			conn.Close()
		}
	}
}

// Shutdown - stops server with the specified timeout and returns stopping duration.
// Listeners are closed first, then all client connections are dropped.
// Note, the timeout must consider the duration for stopping the broker and stopping the server itself.
func (s *Server) Shutdown(timeout time.Duration) time.Duration {
	if s.scope.Stopped() {
		return 0
	}
	from := time.Now()
	s.scope.Cancel()
	s.broker.Quit(timeout)
	if left := timeout - time.Since(from); left > 0 {
		s.scope.Wait(left)
	}
	return time.Since(from)
}

func (s *Server) handleJoinEvents(ctx context.Context) {
	for {
		select {
		case event := <-s.join:
			logInfo(s.logger, "New log in:", event.Client)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) handlePartEvents(ctx context.Context) {
	for {
		select {
		case event := <-s.part:
			if event.Action == broker.PartActionReset || event.Action == broker.PartActionTransferFailed {
				logError(s.logger, formatPart(event))
				continue
			}
			logInfo(s.logger, formatPart(event))
		case <-ctx.Done():
			return
		}
	}
}

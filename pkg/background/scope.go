package background

import (
	"context"
	"sync"
	"time"
)

// Scope - group of background workers sharing single cancellation.
// Once the scope is cancelled, new workers are not started.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	// mu - guards registration of workers against concurrent cancellation
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewScope - concurrency scope builder, nil parent means background context.
func NewScope(parent context.Context) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Stopped - reports whether the scope is cancelled.
func (s *Scope) Stopped() bool {
	return s.ctx.Err() != nil
}

// Go - starts worker in background.
// Returns false without starting worker if the scope is cancelled already.
func (s *Scope) Go(worker func(ctx context.Context)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		worker(s.ctx)
	}()
	return true
}

// Cancel - cancels scope context, workers are expected to return soon.
func (s *Scope) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}

// Wait - waits for workers no longer than timeout.
// Reports whether all workers have finished.
func (s *Scope) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Stop - cancels scope and waits its workers.
func (s *Scope) Stop(timeout time.Duration) bool {
	s.Cancel()
	return s.Wait(timeout)
}

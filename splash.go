package main

import (
	"errors"
	"sync"
)

// ErrSplashClosed is returned when the splash window is closed twice.
var ErrSplashClosed = errors.New("splash window already closed")

// splashState tracks the one-way open -> closed transition shared by the
// platform splash implementations.
type splashState struct {
	mu     sync.Mutex
	closed bool
}

// markClosed flips the state to closed, or returns ErrSplashClosed if that
// already happened.
func (s *splashState) markClosed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSplashClosed
	}
	s.closed = true
	return nil
}

// IsClosed reports whether Close has succeeded.
func (s *splashState) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

package state

import "sync"

// Status is the single-line message shown at the bottom of the screen.
type Status struct {
	mu      sync.Mutex
	message string
}

// NewStatus returns a status bar state holding message.
func NewStatus(message string) *Status {
	return &Status{message: message}
}

// Set replaces the message.
func (s *Status) Set(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Message returns the current message.
func (s *Status) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// TryMessage returns the message only when the lock is free.
func (s *Status) TryMessage() (string, bool) {
	if !s.mu.TryLock() {
		return "", false
	}
	defer s.mu.Unlock()
	return s.message, true
}

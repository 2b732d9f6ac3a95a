// Package pages builds the JSON payloads the frontend renders for each page.
package pages

import "sync"

// ListState remembers the last list successfully shown to visitors so a
// failed fetch can keep displaying it alongside an error message.
type ListState[T any] struct {
	mu     sync.Mutex
	items  []T
	errMsg string
}

// Succeed replaces the displayed list and clears the error
func (s *ListState[T]) Succeed(items []T) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T(nil), items...)
	s.errMsg = ""
	return s.copyLocked()
}

// Fail records msg and returns the list still on display
func (s *ListState[T]) Fail(msg string) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
	return s.copyLocked()
}

// Current returns the displayed list and the last error message
func (s *ListState[T]) Current() ([]T, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked(), s.errMsg
}

func (s *ListState[T]) copyLocked() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Package resource pairs every acquired resource with its release so that teardown
// happens once, in reverse acquisition order, from any exit path.
package resource

import (
	"errors"
	"fmt"
	"sync"
)

// Releaser is called to free an acquired resource
type Releaser func() error

type entry struct {
	name    string
	release Releaser
}

// Stack records releases in acquisition order
type Stack struct {
	mu      sync.Mutex
	entries []entry
	closed  bool
	once    sync.Once
	err     error

	// OnRelease, if set, is called after each release with its name and result
	OnRelease func(name string, err error)
}

// NewStack creates an empty Stack
func NewStack() *Stack {
	return &Stack{}
}

// Push registers a release. Pushing onto a closed stack releases immediately.
func (s *Stack) Push(name string, release Releaser) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.run(entry{name: name, release: release})
		return
	}
	s.entries = append(s.entries, entry{name: name, release: release})
	s.mu.Unlock()
}

// PushFunc registers a release that cannot fail
func (s *Stack) PushFunc(name string, release func()) {
	s.Push(name, func() error {
		release()
		return nil
	})
}

// Len returns the number of pending releases
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close releases everything in reverse order. Only the first call does any work;
// later calls return the same result.
func (s *Stack) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		entries := s.entries
		s.entries = nil
		s.closed = true
		s.mu.Unlock()

		var errs []error
		for i := len(entries) - 1; i >= 0; i-- {
			if err := s.run(entries[i]); err != nil {
				errs = append(errs, err)
			}
		}
		s.err = errors.Join(errs...)
	})
	return s.err
}

func (s *Stack) run(e entry) error {
	err := e.release()
	if err != nil {
		err = fmt.Errorf("release %s: %w", e.name, err)
	}
	if s.OnRelease != nil {
		s.OnRelease(e.name, err)
	}
	return err
}

// Acquire runs create and, on success, registers release for the result.
// On failure nothing is registered and the error is wrapped with name.
func Acquire[T any](s *Stack, name string, create func() (T, error), release func(T) error) (T, error) {
	v, err := create()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	s.Push(name, func() error { return release(v) })
	return v, nil
}

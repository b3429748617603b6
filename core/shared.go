package core

import (
	"fmt"
	"sync"
)

// SharedStore is a reference-counted-in-spirit, interior-mutable handle
// around a Storage. It exists because WASM host functions are reentrant
// callbacks invoked from inside a contract call, and both the outer executor
// and the host function need to reach the same cache overlay within one
// message (spec §4.3/§9). Only one thread ever executes contract code at a
// time (spec §5), so a single mutex is sufficient borrow-checking; we
// deliberately do not reach for anything fancier, per spec §9's explicit
// guidance against multi-threaded locks where there is no parallel
// contention.
//
// Go's zero-value *sync.Mutex doesn't track poisoning the way Rust's does,
// so a panic during a borrow is caught here and remembered: every subsequent
// borrow fails fast with ErrPoisoned instead of silently operating on
// possibly-corrupted state.
type SharedStore struct {
	mu       sync.Mutex
	inner    Storage
	poisoned bool
}

// NewSharedStore wraps inner in a shareable handle.
func NewSharedStore(inner Storage) *SharedStore {
	return &SharedStore{inner: inner}
}

// Share returns a handle to the same underlying store. In Go this is simply
// the same pointer (the runtime, not a refcount, manages its lifetime); the
// method exists so call sites read the same way as the source design
// (`store.share()` in each executor layer).
func (s *SharedStore) Share() *SharedStore { return s }

func (s *SharedStore) withLock(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poisoned {
		return fmt.Errorf("shared store: %w", ErrPoisoned)
	}
	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			err = fmt.Errorf("shared store access panicked (%v): %w", r, ErrPoisoned)
		}
	}()
	return fn()
}

func (s *SharedStore) Read(key []byte) (value []byte, ok bool, err error) {
	lockErr := s.withLock(func() error {
		var innerErr error
		value, ok, innerErr = s.inner.Read(key)
		return innerErr
	})
	if lockErr != nil {
		return nil, false, lockErr
	}
	return value, ok, nil
}

func (s *SharedStore) Write(key, value []byte) error {
	return s.withLock(func() error {
		return s.inner.Write(key, value)
	})
}

func (s *SharedStore) Remove(key []byte) error {
	return s.withLock(func() error {
		return s.inner.Remove(key)
	})
}

func (s *SharedStore) Scan(min, max []byte, order Order) (it Iterator, err error) {
	lockErr := s.withLock(func() error {
		var innerErr error
		it, innerErr = s.inner.Scan(min, max, order)
		return innerErr
	})
	if lockErr != nil {
		return nil, lockErr
	}
	return it, nil
}

var _ Storage = (*SharedStore)(nil)

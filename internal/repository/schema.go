package repository

import (
	"context"
	"sync"
)

// lazySchema runs a CREATE TABLE IF NOT EXISTS the first time a store is used.
// A failed attempt is retried on the next call.
type lazySchema struct {
	mu    sync.Mutex
	ready bool
}

func (s *lazySchema) ensure(ctx context.Context, create func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if err := create(ctx); err != nil {
		return err
	}
	s.ready = true
	return nil
}

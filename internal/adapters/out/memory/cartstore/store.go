// Package cartstore keeps session carts in process memory.
package cartstore

import (
	"context"
	"sync"
	"time"

	"canteen/internal/core/domain/model/cart"
	"canteen/internal/pkg/errs"
)

// Store maps session ids to cart snapshots.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart
}

// New creates an empty cart store.
func New() *Store {
	return &Store{carts: make(map[string]*cart.Cart)}
}

func (s *Store) Get(_ context.Context, session string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[session]
	if !ok {
		return nil, errs.NewObjectNotFoundError("cart", session)
	}
	return clone(c), nil
}

func (s *Store) Save(_ context.Context, c *cart.Cart) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.SessionID()] = clone(c)
	return nil
}

func (s *Store) Delete(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, session)
	return nil
}

func (s *Store) ListIdle(_ context.Context, cutoff time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []string
	for session, c := range s.carts {
		if c.TouchedAt().Before(cutoff) {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func clone(c *cart.Cart) *cart.Cart {
	return cart.RestoreCart(c.SessionID(), c.Lines(), c.TouchedAt())
}

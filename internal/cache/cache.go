package cache

import (
	"context"

	"cart-backend/internal/domain"
)

// CartCache keeps recently loaded carts keyed by user id.
type CartCache interface {
	Get(ctx context.Context, userID string) (domain.Cart, bool, error)
	Set(ctx context.Context, userID string, cart domain.Cart) error
	// Add stores cart only if no entry exists and reports whether it did.
	Add(ctx context.Context, userID string, cart domain.Cart) (bool, error)
	Delete(ctx context.Context, userID string) error
	Close() error
}

// Noop is used when no cache backend is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (domain.Cart, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, domain.Cart) error         { return nil }
func (Noop) Add(context.Context, string, domain.Cart) (bool, error) { return false, nil }
func (Noop) Delete(context.Context, string) error                   { return nil }
func (Noop) Close() error                                           { return nil }

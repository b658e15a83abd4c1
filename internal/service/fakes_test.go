package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"cart-backend/internal/domain"
	"cart-backend/internal/repository"
)

type fakeUserRepo struct {
	mu         sync.Mutex
	byID       map[string]*domain.User
	byUsername map[string]*domain.User
	failWith   error

	// afterRead runs once, after GetByID has copied the stored user.
	afterRead func()
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) Init(context.Context) error { return nil }

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.byUsername[user.Username]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	stored := *user
	stored.CreatedAt, stored.UpdatedAt = now, now
	f.byID[user.ID] = &stored
	f.byUsername[user.Username] = &stored
	return nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.byUsername[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	if f.failWith != nil {
		f.mu.Unlock()
		return nil, f.failWith
	}
	u, ok := f.byID[id]
	if !ok {
		f.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	cp := *u
	afterRead := f.afterRead
	f.afterRead = nil
	f.mu.Unlock()

	if afterRead != nil {
		afterRead()
	}
	return &cp, nil
}

func (f *fakeUserRepo) UpdateCart(_ context.Context, id string, cart domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Cart = append(domain.Cart{}, cart...)
	return nil
}

func (f *fakeUserRepo) Close() error { return nil }

type fakeCache struct {
	carts   map[string]domain.Cart
	gets    int
	hits    int
	failErr error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{carts: make(map[string]domain.Cart)}
}

func (c *fakeCache) Get(_ context.Context, userID string) (domain.Cart, bool, error) {
	c.gets++
	if c.failErr != nil {
		return nil, false, c.failErr
	}
	cart, ok := c.carts[userID]
	if ok {
		c.hits++
	}
	return cart, ok, nil
}

func (c *fakeCache) Set(_ context.Context, userID string, cart domain.Cart) error {
	if c.failErr != nil {
		return c.failErr
	}
	if c.setErr != nil {
		return c.setErr
	}
	c.carts[userID] = cart
	return nil
}

func (c *fakeCache) Add(_ context.Context, userID string, cart domain.Cart) (bool, error) {
	if c.failErr != nil {
		return false, c.failErr
	}
	if _, ok := c.carts[userID]; ok {
		return false, nil
	}
	c.carts[userID] = cart
	return true, nil
}

func (c *fakeCache) Delete(_ context.Context, userID string) error {
	if c.failErr != nil {
		return c.failErr
	}
	delete(c.carts, userID)
	return nil
}

func (c *fakeCache) Close() error { return nil }

var errStoreDown = errors.New("store down")

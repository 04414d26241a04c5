package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Context é a credencial de uma sessão do console: Get/Set/Clear sobre o Store.
// Também é o TokenSource injetado no cliente da API.
type Context struct {
	id    string
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu     sync.RWMutex
	cached *Record
}

func NewContext(id string, store Store, ttl time.Duration) *Context {
	return &Context{id: id, store: store, ttl: ttl, now: time.Now}
}

func (c *Context) ID() string {
	return c.id
}

// Restore carrega a sessão persistida. Sessão expirada é apagada e tratada como ausente.
func (c *Context) Restore(ctx context.Context) error {
	rec, err := c.store.Get(ctx, c.id)
	if err != nil {
		return err
	}
	if rec.Expired(c.now()) {
		_ = c.store.Delete(ctx, c.id)
		return ErrNotFound
	}

	c.mu.Lock()
	c.cached = &rec
	c.mu.Unlock()
	return nil
}

// Get devolve o registro atual; ok=false se não houver login ou se expirou.
func (c *Context) Get() (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cached == nil || c.cached.Expired(c.now()) {
		return Record{}, false
	}
	return *c.cached, true
}

func (c *Context) Set(ctx context.Context, username, token string) (Record, error) {
	now := c.now()
	rec := Record{
		ID:        c.id,
		Token:     token,
		Username:  username,
		ExpiresAt: ExpiryOf(token, now, c.ttl),
		CreatedAt: now,
	}
	if err := c.store.Put(ctx, rec); err != nil {
		return Record{}, err
	}

	c.mu.Lock()
	c.cached = &rec
	c.mu.Unlock()
	return rec, nil
}

func (c *Context) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()

	if err := c.store.Delete(ctx, c.id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Token implementa clinica.TokenSource.
func (c *Context) Token() (string, bool) {
	rec, ok := c.Get()
	if !ok {
		return "", false
	}
	return rec.Token, true
}

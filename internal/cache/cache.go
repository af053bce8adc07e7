package cache

import (
	"context"
	"errors"

	"github.com/izuleon01/fastserve/internal/domain"
)

// MenuItemCache holds catalog entries. Menu items never change after creation,
// so entries are only ever written and expired.
type MenuItemCache interface {
	Get(ctx context.Context, menuItemID string) (*domain.MenuItem, error)
	Set(ctx context.Context, item *domain.MenuItem) error
}

var ErrCacheMiss = errors.New("cache miss")

// Nop is used when no cache is configured; every lookup misses.
type Nop struct{}

func (Nop) Get(context.Context, string) (*domain.MenuItem, error) { return nil, ErrCacheMiss }

func (Nop) Set(context.Context, *domain.MenuItem) error { return nil }

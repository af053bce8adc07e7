package repository

import (
	"context"
	"errors"
	"time"

	"github.com/izuleon01/fastserve/internal/domain"
)

var (
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrMenuNotFound       = errors.New("menu not found")
	ErrOrderItemNotFound  = errors.New("order item not found")
	ErrDuplicateOrderItem = errors.New("order item already exists for menu item")
	ErrQuantityConflict   = errors.New("order item quantity changed concurrently")
)

// MenuItemRepository defines catalog operations.
// Consumers define these interfaces, not the MongoDB implementation.
type MenuItemRepository interface {
	InsertMenuItem(ctx context.Context, item *domain.MenuItem) error
	GetMenuItem(ctx context.Context, menuItemID string) (*domain.MenuItem, error)
}

type MenuRepository interface {
	InsertMenu(ctx context.Context, menu *domain.Menu) error
	GetMenu(ctx context.Context, menuID string) (*domain.Menu, error)
	// FindActiveMenus returns menus whose window contains clock ("HH:MM"), oldest first.
	FindActiveMenus(ctx context.Context, clock string) ([]*domain.Menu, error)
}

// OrderItemRepository operates on the single shared cart.
type OrderItemRepository interface {
	InsertOrderItem(ctx context.Context, item *domain.OrderItem) error
	GetOrderItem(ctx context.Context, menuItemID string) (*domain.OrderItem, error)
	ListOrderItems(ctx context.Context) ([]*domain.OrderItem, error)
	SetQuantity(ctx context.Context, menuItemID string, quantity int) error
	// CompareAndSetQuantity writes quantity only if the stored value still equals expected.
	CompareAndSetQuantity(ctx context.Context, menuItemID string, expected, quantity int) error
	DeleteOrderItem(ctx context.Context, menuItemID string) error
	// TakeOrderItems deletes every line and returns the lines it deleted,
	// oldest first. On error the lines taken so far are returned with it.
	TakeOrderItems(ctx context.Context) ([]*domain.OrderItem, error)
}

type Repository interface {
	MenuItemRepository
	MenuRepository
	OrderItemRepository
}

// Clock reports the current wall-clock time of the serving environment.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

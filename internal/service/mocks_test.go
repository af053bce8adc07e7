package service

import (
	"context"
	"sync"
	"time"

	"github.com/izuleon01/fastserve/internal/cache"
	"github.com/izuleon01/fastserve/internal/domain"
	"github.com/izuleon01/fastserve/internal/publisher"
	"github.com/izuleon01/fastserve/internal/repository"
)

type mockRepository struct {
	m          sync.RWMutex
	menuItems  map[string]*domain.MenuItem
	menus      []*domain.Menu
	orderItems []*domain.OrderItem

	err          error // returned by every call when set
	listErr      error
	casConflicts int // CompareAndSetQuantity reports a conflict this many times
	itemReads    int

	// beforeTake runs under the lock ahead of TakeOrderItems
	beforeTake func(m *mockRepository)
	// itemGate blocks GetMenuItem until closed; itemEntered is signalled on entry
	itemGate    chan struct{}
	itemEntered chan struct{}
}

func newMockRepository() *mockRepository {
	return &mockRepository{menuItems: map[string]*domain.MenuItem{}}
}

func (m *mockRepository) InsertMenuItem(_ context.Context, item *domain.MenuItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *item
	m.menuItems[item.MenuItemID] = &cp
	return nil
}

func (m *mockRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	m.m.RLock()
	gate, entered := m.itemGate, m.itemEntered
	m.m.RUnlock()
	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		<-gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.m.Lock()
	defer m.m.Unlock()
	m.itemReads++
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.menuItems[id]
	if !ok {
		return nil, repository.ErrMenuItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockRepository) InsertMenu(_ context.Context, menu *domain.Menu) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *menu
	m.menus = append(m.menus, &cp)
	return nil
}

func (m *mockRepository) GetMenu(_ context.Context, id string) (*domain.Menu, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, menu := range m.menus {
		if menu.MenuID == id {
			cp := *menu
			return &cp, nil
		}
	}
	return nil, repository.ErrMenuNotFound
}

func (m *mockRepository) FindActiveMenus(_ context.Context, clock string) ([]*domain.Menu, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var active []*domain.Menu
	for _, menu := range m.menus {
		if menu.StartTime <= clock && clock <= menu.EndTime {
			cp := *menu
			active = append(active, &cp)
		}
	}
	return active, nil
}

func (m *mockRepository) InsertOrderItem(_ context.Context, item *domain.OrderItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.indexOf(item.MenuItem.MenuItemID) >= 0 {
		return repository.ErrDuplicateOrderItem
	}
	cp := *item
	m.orderItems = append(m.orderItems, &cp)
	return nil
}

func (m *mockRepository) GetOrderItem(_ context.Context, menuItemID string) (*domain.OrderItem, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	i := m.indexOf(menuItemID)
	if i < 0 {
		return nil, repository.ErrOrderItemNotFound
	}
	cp := *m.orderItems[i]
	return &cp, nil
}

func (m *mockRepository) ListOrderItems(context.Context) ([]*domain.OrderItem, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	items := []*domain.OrderItem{}
	for _, it := range m.orderItems {
		cp := *it
		items = append(items, &cp)
	}
	return items, nil
}

func (m *mockRepository) SetQuantity(_ context.Context, menuItemID string, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	i := m.indexOf(menuItemID)
	if i < 0 {
		return repository.ErrOrderItemNotFound
	}
	m.orderItems[i].Quantity = quantity
	return nil
}

func (m *mockRepository) CompareAndSetQuantity(_ context.Context, menuItemID string, expected, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	i := m.indexOf(menuItemID)
	if i < 0 {
		return repository.ErrQuantityConflict
	}
	if m.casConflicts > 0 {
		m.casConflicts--
		m.orderItems[i].Quantity++ // someone else got there first
		return repository.ErrQuantityConflict
	}
	if m.orderItems[i].Quantity != expected {
		return repository.ErrQuantityConflict
	}
	m.orderItems[i].Quantity = quantity
	return nil
}

func (m *mockRepository) DeleteOrderItem(_ context.Context, menuItemID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	i := m.indexOf(menuItemID)
	if i < 0 {
		return repository.ErrOrderItemNotFound
	}
	m.orderItems = append(m.orderItems[:i], m.orderItems[i+1:]...)
	return nil
}

func (m *mockRepository) TakeOrderItems(context.Context) ([]*domain.OrderItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.beforeTake != nil {
		m.beforeTake(m)
	}
	taken := m.orderItems
	m.orderItems = nil
	if taken == nil {
		taken = []*domain.OrderItem{}
	}
	return taken, nil
}

func (m *mockRepository) indexOf(menuItemID string) int {
	for i, it := range m.orderItems {
		if it.MenuItem.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

func (m *mockRepository) menuCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.menus)
}

func (m *mockRepository) setErr(err error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.err = err
}

type mockCache struct {
	m     sync.RWMutex
	items map[string]*domain.MenuItem
	err   error
}

func newMockCache() *mockCache {
	return &mockCache{items: map[string]*domain.MenuItem{}}
}

func (c *mockCache) Get(_ context.Context, id string) (*domain.MenuItem, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	item, ok := c.items[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return item, nil
}

func (c *mockCache) Set(_ context.Context, item *domain.MenuItem) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.items[item.MenuItemID] = item
	return c.err
}

func (c *mockCache) has(id string) bool {
	c.m.RLock()
	defer c.m.RUnlock()
	_, ok := c.items[id]
	return ok
}

type fixedClock struct {
	now time.Time
	err error
}

func (c fixedClock) Now(context.Context) (time.Time, error) {
	return c.now, c.err
}

type mockPublisher struct {
	m      sync.Mutex
	events []publisher.OrderConfirmed
	err    error
}

func (p *mockPublisher) PublishOrderConfirmed(_ context.Context, e publisher.OrderConfirmed) error {
	p.m.Lock()
	defer p.m.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) published() []publisher.OrderConfirmed {
	p.m.Lock()
	defer p.m.Unlock()
	return append([]publisher.OrderConfirmed(nil), p.events...)
}

// at returns a clock fixed at hh:mm today.
func at(hh, mm int) fixedClock {
	y, mo, d := time.Now().Date()
	return fixedClock{now: time.Date(y, mo, d, hh, mm, 0, 0, time.Local)}
}

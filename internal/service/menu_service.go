package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/izuleon01/fastserve/internal/cache"
	"github.com/izuleon01/fastserve/internal/domain"
	"github.com/izuleon01/fastserve/internal/publisher"
	"github.com/izuleon01/fastserve/internal/repository"
	"golang.org/x/sync/singleflight"
)

const (
	msgDatabase          = "Something Wrong with the database"
	msgInvalidTimeWindow = "invalid time format or time range"

	// upper bound for a shared menu item load
	loadTimeout = 5 * time.Second
)

// MenuService owns the catalog, the menus and the shared cart.
type MenuService struct {
	repo      repository.Repository
	cache     cache.MenuItemCache
	clock     repository.Clock
	publisher publisher.OrderPublisher
	sfg       singleflight.Group // collapses concurrent cache misses per menu item
}

func NewMenuService(
	repo repository.Repository,
	c cache.MenuItemCache,
	clock repository.Clock,
	p publisher.OrderPublisher,
) *MenuService {
	if c == nil {
		c = cache.Nop{}
	}
	if clock == nil {
		clock = repository.SystemClock{}
	}
	if p == nil {
		p = publisher.Nop{}
	}
	return &MenuService{
		repo:      repo,
		cache:     c,
		clock:     clock,
		publisher: p,
	}
}

func (s *MenuService) AddMenuItem(ctx context.Context, name, description string, price float64, imageURL string) (domain.MenuItemDTO, error) {
	if name == "" {
		return domain.MenuItemDTO{}, InvalidInput("Menu Item name is required")
	}

	item := &domain.MenuItem{
		MenuItemID:  domain.NewID(),
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
	}
	if err := s.repo.InsertMenuItem(ctx, item); err != nil {
		log.Printf("repo insert menu item error: %v \n", err)
		return domain.MenuItemDTO{}, DatabaseError(msgDatabase)
	}

	return domain.NewMenuItemDTO(*item), nil
}

func (s *MenuService) GetMenuItem(ctx context.Context, menuItemID string) (domain.MenuItemDTO, error) {
	item, err := s.loadMenuItem(ctx, menuItemID)
	if err != nil {
		return domain.MenuItemDTO{}, err
	}
	return domain.NewMenuItemDTO(*item), nil
}

// AddMenu resolves every item before writing, so a menu never references a
// missing item. The meal type is derived from the window.
func (s *MenuService) AddMenu(ctx context.Context, startTime, endTime string, menuItemIDs []string) (domain.MenuDTO, error) {
	items, err := s.resolveMenuItems(ctx, menuItemIDs)
	if err != nil {
		return domain.MenuDTO{}, err
	}

	mealType, ok := domain.ClassifyWindow(startTime, endTime)
	if !ok {
		return domain.MenuDTO{}, InvalidInput(msgInvalidTimeWindow)
	}

	menu := &domain.Menu{
		MenuID:    domain.NewID(),
		StartTime: startTime,
		EndTime:   endTime,
		MenuItems: append([]string{}, menuItemIDs...),
		Type:      mealType,
	}
	if err := s.repo.InsertMenu(ctx, menu); err != nil {
		log.Printf("repo insert menu error: %v \n", err)
		return domain.MenuDTO{}, DatabaseError(msgDatabase)
	}

	return domain.MenuDTO{Type: mealType, MenuItems: items}, nil
}

// GetActiveMenu merges every menu whose window contains the current time.
// The type of the oldest matching menu labels the result.
func (s *MenuService) GetActiveMenu(ctx context.Context) (domain.MenuDTO, error) {
	now, err := s.clock.Now(ctx)
	if err != nil {
		log.Printf("clock error: %v \n", err)
		return domain.MenuDTO{}, DatabaseError(msgDatabase)
	}

	menus, err := s.repo.FindActiveMenus(ctx, domain.ClockOf(now))
	if err != nil {
		log.Printf("repo find active menus error: %v \n", err)
		return domain.MenuDTO{}, DatabaseError(msgDatabase)
	}
	if len(menus) == 0 {
		return domain.MenuDTO{}, NotFound("No active menu found")
	}

	var mealType domain.MealType
	items := []domain.MenuItemDTO{}
	for _, menu := range menus {
		menuItems, err := s.resolveMenuItems(ctx, menu.MenuItems)
		if err != nil {
			return domain.MenuDTO{}, err
		}
		items = append(items, menuItems...)
		if mealType == "" {
			mealType = menu.Type
		}
	}

	if len(items) == 0 {
		return domain.MenuDTO{}, NotFound("No menu item found")
	}
	return domain.MenuDTO{Type: mealType, MenuItems: items}, nil
}

func (s *MenuService) GetMenuItems(ctx context.Context, menuID string) ([]domain.MenuItemDTO, error) {
	if menuID == "" || !domain.IsValidUUID(menuID) {
		return nil, InvalidInput("Menu ID is null or invalid format")
	}

	menu, err := s.repo.GetMenu(ctx, menuID)
	if errors.Is(err, repository.ErrMenuNotFound) {
		return nil, NotFound("Menu " + menuID + " Not Found")
	}
	if err != nil {
		log.Printf("repo get menu error: %v \n", err)
		return nil, DatabaseError(msgDatabase)
	}

	return s.resolveMenuItems(ctx, menu.MenuItems)
}

func (s *MenuService) resolveMenuItems(ctx context.Context, ids []string) ([]domain.MenuItemDTO, error) {
	items := make([]domain.MenuItemDTO, 0, len(ids))
	for _, id := range ids {
		item, err := s.GetMenuItem(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *MenuService) loadMenuItem(ctx context.Context, menuItemID string) (*domain.MenuItem, error) {
	if menuItemID == "" || !domain.IsValidUUID(menuItemID) {
		return nil, InvalidInput("Menu Item ID is null or invalid format")
	}

	// the shared load outlives any single caller; each caller still honors its own ctx
	ch := s.sfg.DoChan(menuItemID, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.fetchMenuItem(loadCtx, menuItemID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.MenuItem), nil
	case <-ctx.Done():
		log.Printf("load menu item %s abandoned: %v \n", menuItemID, ctx.Err())
		return nil, DatabaseError(msgDatabase)
	}
}

func (s *MenuService) fetchMenuItem(ctx context.Context, menuItemID string) (*domain.MenuItem, error) {
	item, err := s.cache.Get(ctx, menuItemID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("cache get error: %v \n", err) // log cache error but continue
	}

	item, errGet := s.repo.GetMenuItem(ctx, menuItemID)
	if errors.Is(errGet, repository.ErrMenuItemNotFound) {
		return nil, NotFound("Menu Item " + menuItemID + " Not Found")
	}
	if errGet != nil {
		log.Printf("repo get menu item error: %v \n", errGet)
		return nil, DatabaseError(msgDatabase)
	}

	go func() {
		setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if errSet := s.cache.Set(setCtx, item); errSet != nil {
			log.Printf("cache set error: %v \n", errSet)
		}
	}()

	return item, nil
}

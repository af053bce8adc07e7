package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/izuleon01/fastserve/internal/domain"
	"github.com/izuleon01/fastserve/internal/publisher"
	"github.com/izuleon01/fastserve/internal/repository"
)

const (
	msgOrderDatabase    = "Database Error"
	msgBadQuantity      = "Quantity has to be more than 0"
	msgOrderItemMissing = "Order Item Not found"

	// merge attempts before AddToOrder gives up on a contended line
	maxMergeAttempts = 5
)

func (s *MenuService) AddOrderItem(ctx context.Context, menuItemID string, quantity int) (domain.OrderItemDTO, error) {
	dto, err := s.insertOrderItem(ctx, menuItemID, quantity)
	if errors.Is(err, repository.ErrDuplicateOrderItem) {
		return domain.OrderItemDTO{}, InvalidInput("Menu Item " + menuItemID + " is already in the order")
	}
	return dto, err
}

// insertOrderItem leaves repository.ErrDuplicateOrderItem unwrapped for AddToOrder.
func (s *MenuService) insertOrderItem(ctx context.Context, menuItemID string, quantity int) (domain.OrderItemDTO, error) {
	if quantity <= 0 {
		return domain.OrderItemDTO{}, InvalidInput(msgBadQuantity)
	}
	item, err := s.loadMenuItem(ctx, menuItemID)
	if err != nil {
		return domain.OrderItemDTO{}, err
	}

	orderItem := &domain.OrderItem{
		MenuItem: item.Snapshot(),
		Quantity: quantity,
	}
	if err := s.repo.InsertOrderItem(ctx, orderItem); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrderItem) {
			return domain.OrderItemDTO{}, err
		}
		log.Printf("repo insert order item error: %v \n", err)
		return domain.OrderItemDTO{}, DatabaseError(msgOrderDatabase)
	}

	return orderItemDTO(orderItem), nil
}

func (s *MenuService) UpdateOrderItem(ctx context.Context, menuItemID string, quantity int) (domain.OrderItemDTO, error) {
	if quantity <= 0 {
		return domain.OrderItemDTO{}, InvalidInput(msgBadQuantity)
	}
	if _, err := s.loadMenuItem(ctx, menuItemID); err != nil {
		return domain.OrderItemDTO{}, err
	}

	existing, err := s.findOrderItem(ctx, menuItemID)
	if err != nil {
		return domain.OrderItemDTO{}, err
	}

	if err := s.repo.SetQuantity(ctx, menuItemID, quantity); err != nil {
		if errors.Is(err, repository.ErrOrderItemNotFound) {
			return domain.OrderItemDTO{}, NotFound(msgOrderItemMissing)
		}
		log.Printf("repo set quantity error: %v \n", err)
		return domain.OrderItemDTO{}, DatabaseError(msgOrderDatabase)
	}

	existing.Quantity = quantity
	return orderItemDTO(existing), nil
}

// AddToOrder adds quantity to the menu item's cart line, creating it if needed.
// quantity may be negative on an existing line as long as the result stays
// above zero. The merge is a compare-and-set on the quantity read, so
// concurrent calls for one item never lose an increment.
func (s *MenuService) AddToOrder(ctx context.Context, menuItemID string, quantity int) (domain.OrderItemDTO, error) {
	if menuItemID == "" || !domain.IsValidUUID(menuItemID) {
		return domain.OrderItemDTO{}, InvalidInput("Invalid or null id")
	}

	for attempt := 0; attempt < maxMergeAttempts; attempt++ {
		existing, err := s.repo.GetOrderItem(ctx, menuItemID)
		if errors.Is(err, repository.ErrOrderItemNotFound) {
			dto, errAdd := s.insertOrderItem(ctx, menuItemID, quantity)
			if errors.Is(errAdd, repository.ErrDuplicateOrderItem) {
				continue // lost the insert race, merge instead
			}
			return dto, errAdd
		}
		if err != nil {
			log.Printf("repo get order item error: %v \n", err)
			return domain.OrderItemDTO{}, DatabaseError(msgOrderDatabase)
		}

		if _, err := s.loadMenuItem(ctx, menuItemID); err != nil {
			return domain.OrderItemDTO{}, err
		}

		merged := existing.Quantity + quantity
		if merged <= 0 {
			return domain.OrderItemDTO{}, InvalidInput(msgBadQuantity)
		}
		err = s.repo.CompareAndSetQuantity(ctx, menuItemID, existing.Quantity, merged)
		if errors.Is(err, repository.ErrQuantityConflict) {
			continue
		}
		if err != nil {
			log.Printf("repo compare and set quantity error: %v \n", err)
			return domain.OrderItemDTO{}, DatabaseError(msgOrderDatabase)
		}

		existing.Quantity = merged
		return orderItemDTO(existing), nil
	}

	log.Printf("add to order: gave up on %s after %d attempts \n", menuItemID, maxMergeAttempts)
	return domain.OrderItemDTO{}, DatabaseError(msgOrderDatabase)
}

func (s *MenuService) GetOrderItem(ctx context.Context, menuItemID string) (domain.OrderItemDTO, error) {
	item, err := s.findOrderItem(ctx, menuItemID)
	if err != nil {
		return domain.OrderItemDTO{}, err
	}
	return orderItemDTO(item), nil
}

func (s *MenuService) GetOrderItems(ctx context.Context) ([]domain.OrderItemDTO, error) {
	items, err := s.repo.ListOrderItems(ctx)
	if err != nil {
		log.Printf("repo list order items error: %v \n", err)
		return nil, DatabaseError(msgOrderDatabase)
	}

	dtos := make([]domain.OrderItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, orderItemDTO(item))
	}
	return dtos, nil
}

func (s *MenuService) GetOrder(ctx context.Context) (domain.OrderDTO, error) {
	items, err := s.GetOrderItems(ctx)
	if err != nil {
		return domain.OrderDTO{}, err
	}
	return domain.NewOrderDTO(items), nil
}

func (s *MenuService) UpdateOrder(ctx context.Context, menuItemID string, quantity int) (domain.OrderDTO, error) {
	if _, err := s.UpdateOrderItem(ctx, menuItemID, quantity); err != nil {
		return domain.OrderDTO{}, err
	}
	return s.GetOrder(ctx)
}

func (s *MenuService) RemoveOrderItem(ctx context.Context, menuItemID string) (domain.OrderDTO, error) {
	if _, err := s.findOrderItem(ctx, menuItemID); err != nil {
		return domain.OrderDTO{}, err
	}

	if err := s.repo.DeleteOrderItem(ctx, menuItemID); err != nil {
		if errors.Is(err, repository.ErrOrderItemNotFound) {
			return domain.OrderDTO{}, NotFound(msgOrderItemMissing)
		}
		log.Printf("repo delete order item error: %v \n", err)
		return domain.OrderDTO{}, DatabaseError(msgOrderDatabase)
	}

	return s.GetOrder(ctx)
}

// ConfirmOrder empties the cart and announces exactly the lines it removed.
// A publishing failure is logged and does not undo the confirmation.
func (s *MenuService) ConfirmOrder(ctx context.Context) error {
	items, err := s.repo.TakeOrderItems(ctx)
	if err != nil {
		log.Printf("repo take order items error: %v (%d removed) \n", err, len(items))
		return DatabaseError(msgOrderDatabase)
	}
	log.Printf("order confirmed, %d items cleared \n", len(items))
	if len(items) == 0 {
		return nil
	}

	dtos := make([]domain.OrderItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, orderItemDTO(item))
	}
	order := domain.NewOrderDTO(dtos)

	event := publisher.OrderConfirmed{
		ConfirmationID:  domain.NewID(),
		Items:           order.OrderItems,
		TotalOrderPrice: order.TotalOrderPrice,
		ConfirmedAt:     time.Now().UTC(),
	}
	if errPublish := s.publisher.PublishOrderConfirmed(ctx, event); errPublish != nil {
		log.Printf("publish order confirmed error: %v \n", errPublish)
	}
	return nil
}

func (s *MenuService) findOrderItem(ctx context.Context, menuItemID string) (*domain.OrderItem, error) {
	if menuItemID == "" || !domain.IsValidUUID(menuItemID) {
		return nil, InvalidInput("Invalid or null id")
	}

	item, err := s.repo.GetOrderItem(ctx, menuItemID)
	if errors.Is(err, repository.ErrOrderItemNotFound) {
		return nil, NotFound(msgOrderItemMissing)
	}
	if err != nil {
		log.Printf("repo get order item error: %v \n", err)
		return nil, DatabaseError(msgOrderDatabase)
	}
	return item, nil
}

func orderItemDTO(item *domain.OrderItem) domain.OrderItemDTO {
	return domain.NewOrderItemDTO(domain.NewMenuItemDTO(item.MenuItem), item.Quantity)
}

package publisher

import (
	"context"
	"time"

	"github.com/izuleon01/fastserve/internal/domain"
)

const EventOrderConfirmed = "order.confirmed"

type OrderConfirmed struct {
	ConfirmationID  string                `json:"confirmation_id"`
	Items           []domain.OrderItemDTO `json:"items"`
	TotalOrderPrice float64               `json:"total_order_price"`
	ConfirmedAt     time.Time             `json:"confirmed_at"`
}

// OrderPublisher announces confirmed orders to downstream consumers (kitchen, billing).
type OrderPublisher interface {
	PublishOrderConfirmed(ctx context.Context, event OrderConfirmed) error
	Close() error
}

// Nop drops events; used when no brokers are configured.
type Nop struct{}

func (Nop) PublishOrderConfirmed(context.Context, OrderConfirmed) error { return nil }

func (Nop) Close() error { return nil }

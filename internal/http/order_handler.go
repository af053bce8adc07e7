package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/izuleon01/fastserve/internal/domain"
)

type OrderController interface {
	AddToOrder(ctx context.Context, menuItemID string, quantity int) (domain.OrderItemDTO, error)
	UpdateOrderItem(ctx context.Context, menuItemID string, quantity int) (domain.OrderItemDTO, error)
	GetOrderItem(ctx context.Context, menuItemID string) (domain.OrderItemDTO, error)
	GetOrderItems(ctx context.Context) ([]domain.OrderItemDTO, error)
	GetOrder(ctx context.Context) (domain.OrderDTO, error)
	UpdateOrder(ctx context.Context, menuItemID string, quantity int) (domain.OrderDTO, error)
	RemoveOrderItem(ctx context.Context, menuItemID string) (domain.OrderDTO, error)
	ConfirmOrder(ctx context.Context) error
}

type OrderHandler struct {
	order   OrderController
	timeout time.Duration
}

func NewOrderHandler(order OrderController, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		order:   order,
		timeout: timeout,
	}
}

type OrderItemRequestDTO struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type RemoveOrderItemRequestDTO struct {
	MenuItemID string `json:"menuItemId"`
}

const msgOrderConfirmed = "Order Confirmed"

func (h *OrderHandler) AddToOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req OrderItemRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.order.AddToOrder(ctx, req.MenuItemID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, item)
}

func (h *OrderHandler) UpdateOrderItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req OrderItemRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.order.UpdateOrderItem(ctx, req.MenuItemID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, item)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.order.GetOrder(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, order)
}

// UpdateOrder sets a line's quantity and returns the whole order.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req OrderItemRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.order.UpdateOrder(ctx, req.MenuItemID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, order)
}

func (h *OrderHandler) GetOrderItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.order.GetOrderItems(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, items)
}

func (h *OrderHandler) GetOrderItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.order.GetOrderItem(ctx, chi.URLParam(r, "menuItemId"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, item)
}

func (h *OrderHandler) RemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RemoveOrderItemRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.order.RemoveOrderItem(ctx, req.MenuItemID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, order)
}

func (h *OrderHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.order.ConfirmOrder(ctx); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, msgOrderConfirmed)
}

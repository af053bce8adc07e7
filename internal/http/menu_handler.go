package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/izuleon01/fastserve/internal/domain"
)

type MenuController interface {
	AddMenuItem(ctx context.Context, name, description string, price float64, imageURL string) (domain.MenuItemDTO, error)
	GetMenuItem(ctx context.Context, menuItemID string) (domain.MenuItemDTO, error)
	AddMenu(ctx context.Context, startTime, endTime string, menuItemIDs []string) (domain.MenuDTO, error)
	GetActiveMenu(ctx context.Context) (domain.MenuDTO, error)
	GetMenuItems(ctx context.Context, menuID string) ([]domain.MenuItemDTO, error)
}

type MenuHandler struct {
	menu    MenuController
	timeout time.Duration
}

func NewMenuHandler(menu MenuController, timeout time.Duration) *MenuHandler {
	return &MenuHandler{
		menu:    menu,
		timeout: timeout,
	}
}

type AddMenuItemRequestDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

type AddMenuRequestDTO struct {
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	MenuItems []string `json:"menuItems"`
}

func (h *MenuHandler) GetActiveMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	menu, err := h.menu.GetActiveMenu(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, menu)
}

func (h *MenuHandler) AddMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddMenuRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	menu, err := h.menu.AddMenu(ctx, req.StartTime, req.EndTime, req.MenuItems)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, menu)
}

func (h *MenuHandler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddMenuItemRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.menu.AddMenuItem(ctx, req.Name, req.Description, req.Price, req.ImageURL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, item)
}

func (h *MenuHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.menu.GetMenuItem(ctx, chi.URLParam(r, "menuItemId"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, item)
}

func (h *MenuHandler) GetMenuItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.menu.GetMenuItems(ctx, chi.URLParam(r, "menuId"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, items)
}

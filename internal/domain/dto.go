package domain

type MenuItemDTO struct {
	MenuItemID  string  `json:"menuItemId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

type MenuDTO struct {
	Type      MealType      `json:"type"`
	MenuItems []MenuItemDTO `json:"menuItems"`
}

type OrderItemDTO struct {
	MenuItemID          string  `json:"menuItemId"`
	MenuItemName        string  `json:"menuItemName"`
	MenuItemDescription string  `json:"menuItemDescription"`
	MenuItemPrice       float64 `json:"menuItemPrice"`
	MenuItemImageURL    string  `json:"menuItemImageUrl"`
	Quantity            int     `json:"quantity"`
	ItemTotal           float64 `json:"itemTotal"`
}

type OrderDTO struct {
	TotalOrderPrice float64        `json:"totalOrderPrice"`
	OrderItems      []OrderItemDTO `json:"orderItems"`
}

func NewMenuItemDTO(m MenuItem) MenuItemDTO {
	return MenuItemDTO{
		MenuItemID:  m.MenuItemID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
	}
}

func NewOrderItemDTO(item MenuItemDTO, quantity int) OrderItemDTO {
	return OrderItemDTO{
		MenuItemID:          item.MenuItemID,
		MenuItemName:        item.Name,
		MenuItemDescription: item.Description,
		MenuItemPrice:       item.Price,
		MenuItemImageURL:    item.ImageURL,
		Quantity:            quantity,
		ItemTotal:           float64(quantity) * item.Price,
	}
}

// NewOrderDTO totals the given lines. The total is never stored.
func NewOrderDTO(items []OrderItemDTO) OrderDTO {
	if items == nil {
		items = []OrderItemDTO{}
	}
	var total float64
	for _, it := range items {
		total += it.ItemTotal
	}
	return OrderDTO{
		TotalOrderPrice: total,
		OrderItems:      items,
	}
}

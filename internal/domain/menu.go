package domain

import "time"

type MenuItem struct {
	MenuItemID  string    `bson:"menuItemId" json:"menuItemId"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	ImageURL    string    `bson:"imageUrl" json:"imageUrl"`
	CreatedAt   time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

type Menu struct {
	MenuID    string    `bson:"menuId"`
	StartTime string    `bson:"startTime"`
	EndTime   string    `bson:"endTime"`
	MenuItems []string  `bson:"menuItems"`
	Type      MealType  `bson:"type"`
	CreatedAt time.Time `bson:"createdAt"`
}

// OrderItem is one cart line. MenuItem is a copy taken when the line was
// created, later edits to the catalog entry do not reach it.
type OrderItem struct {
	MenuItem  MenuItem  `bson:"menuItem"`
	Quantity  int       `bson:"quantity"`
	AddedAt   time.Time `bson:"addedAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Snapshot strips bookkeeping fields before embedding an item into an order line.
func (m MenuItem) Snapshot() MenuItem {
	m.CreatedAt = time.Time{}
	return m
}

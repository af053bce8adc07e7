package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/izuleon01/fastserve/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	menuItemsCollection  = "menuitems"
	menusCollection      = "menus"
	orderItemsCollection = "orderitems"

	orderItemKey = "menuItem.menuItemId"
)

type mongoRepository struct {
	menuItems  *mongo.Collection
	menus      *mongo.Collection
	orderItems *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		menuItems:  db.Collection(menuItemsCollection),
		menus:      db.Collection(menusCollection),
		orderItems: db.Collection(orderItemsCollection),
	}
}

func (m *mongoRepository) InsertMenuItem(ctx context.Context, item *domain.MenuItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	_, err := m.menuItems.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (m *mongoRepository) GetMenuItem(ctx context.Context, menuItemID string) (*domain.MenuItem, error) {
	var item domain.MenuItem

	err := m.menuItems.FindOne(ctx, bson.M{"menuItemId": menuItemID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	return &item, nil
}

func (m *mongoRepository) InsertMenu(ctx context.Context, menu *domain.Menu) error {
	if menu.CreatedAt.IsZero() {
		menu.CreatedAt = time.Now()
	}
	if menu.MenuItems == nil {
		menu.MenuItems = []string{}
	}

	_, err := m.menus.InsertOne(ctx, menu)
	if err != nil {
		return fmt.Errorf("failed to insert menu: %w", err)
	}
	return nil
}

func (m *mongoRepository) GetMenu(ctx context.Context, menuID string) (*domain.Menu, error) {
	var menu domain.Menu

	err := m.menus.FindOne(ctx, bson.M{"menuId": menuID}).Decode(&menu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	normalizeMealType(&menu)
	return &menu, nil
}

func (m *mongoRepository) FindActiveMenus(ctx context.Context, clock string) ([]*domain.Menu, error) {
	// windows are stored as zero-padded "HH:MM", so string order is time order
	filter := bson.M{
		"startTime": bson.M{"$lte": clock},
		"endTime":   bson.M{"$gte": clock},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := m.menus.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query active menus: %w", err)
	}

	var menus []*domain.Menu
	if err := cursor.All(ctx, &menus); err != nil {
		return nil, fmt.Errorf("failed to decode active menus: %w", err)
	}
	for _, menu := range menus {
		normalizeMealType(menu)
	}
	return menus, nil
}

// normalizeMealType re-derives the type of a stored menu whose type is missing
// or unknown, from its window.
func normalizeMealType(menu *domain.Menu) {
	if _, err := domain.ParseMealType(string(menu.Type)); err == nil {
		return
	}
	mealType, ok := domain.ClassifyWindow(menu.StartTime, menu.EndTime)
	if !ok {
		log.Printf("menu %s has type %q and unclassifiable window %s-%s", menu.MenuID, menu.Type, menu.StartTime, menu.EndTime)
		return
	}
	menu.Type = mealType
}

func (m *mongoRepository) InsertOrderItem(ctx context.Context, item *domain.OrderItem) error {
	now := time.Now()
	if item.AddedAt.IsZero() {
		item.AddedAt = now
	}
	item.UpdatedAt = now

	_, err := m.orderItems.InsertOne(ctx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrderItem
		}
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return nil
}

func (m *mongoRepository) GetOrderItem(ctx context.Context, menuItemID string) (*domain.OrderItem, error) {
	var item domain.OrderItem

	err := m.orderItems.FindOne(ctx, bson.M{orderItemKey: menuItemID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to get order item: %w", err)
	}

	return &item, nil
}

func (m *mongoRepository) ListOrderItems(ctx context.Context) ([]*domain.OrderItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}})

	cursor, err := m.orderItems.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}

	items := []*domain.OrderItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return items, nil
}

func (m *mongoRepository) SetQuantity(ctx context.Context, menuItemID string, quantity int) error {
	return m.updateQuantity(ctx, bson.M{orderItemKey: menuItemID}, quantity, ErrOrderItemNotFound)
}

func (m *mongoRepository) CompareAndSetQuantity(ctx context.Context, menuItemID string, expected, quantity int) error {
	filter := bson.M{
		orderItemKey: menuItemID,
		"quantity":   expected,
	}
	return m.updateQuantity(ctx, filter, quantity, ErrQuantityConflict)
}

func (m *mongoRepository) updateQuantity(ctx context.Context, filter bson.M, quantity int, notMatched error) error {
	update := bson.M{
		"$set": bson.M{
			"quantity":  quantity,
			"updatedAt": time.Now(),
		},
	}

	result, err := m.orderItems.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update order item quantity: %w", err)
	}

	if result.MatchedCount == 0 {
		return notMatched
	}
	return nil
}

func (m *mongoRepository) DeleteOrderItem(ctx context.Context, menuItemID string) error {
	result, err := m.orderItems.DeleteOne(ctx, bson.M{orderItemKey: menuItemID})
	if err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrOrderItemNotFound
	}
	return nil
}

func (m *mongoRepository) TakeOrderItems(ctx context.Context) ([]*domain.OrderItem, error) {
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "addedAt", Value: 1}})

	taken := []*domain.OrderItem{}
	for {
		var item domain.OrderItem
		err := m.orderItems.FindOneAndDelete(ctx, bson.M{}, opts).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return taken, nil
		}
		if err != nil {
			return taken, fmt.Errorf("failed to take order item: %w", err)
		}
		taken = append(taken, &item)
	}
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := m.menuItems.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "menuItemId", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create menu item indexes: %w", err)
	}

	if _, err := m.menus.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "menuId", Value: 1}},
			Options: unique,
		},
		{
			Keys: bson.D{{Key: "startTime", Value: 1}, {Key: "endTime", Value: 1}},
		},
	}); err != nil {
		return fmt.Errorf("failed to create menu indexes: %w", err)
	}

	// one cart line per menu item
	if _, err := m.orderItems.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: orderItemKey, Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create order item indexes: %w", err)
	}

	return nil
}

// IndexCreator is implemented by repositories that manage their own indexes.
type IndexCreator interface {
	CreateIndexes(ctx context.Context) error
}

package repositories

import (
	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/pkg/orm"
)

// OrderRepository handles database operations for orders.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create persists a new order with its items.
func (r *OrderRepository) Create(order *models.Order) error {
	return orm.DB().Create(order)
}

// FindByID loads one order with its lines and products.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Preload("Items.Product").
		Where("id = ?", id).
		First(&order)
	return order, err
}

// ForUser returns the user's orders, newest first.
func (r *OrderRepository) ForUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Get(&orders)
	return orders, err
}

// All returns one page of every order, newest first, with the buyer
// preloaded for the admin console.
func (r *OrderRepository) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Preload("User").
		Order("created_at desc").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// ByStatus returns one page of orders in the given lifecycle state,
// newest first, with the buyer preloaded for the admin console.
func (r *OrderRepository) ByStatus(status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Preload("User").
		Where("status = ?", status).
		Order("created_at desc").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// Update persists changes to an order.
func (r *OrderRepository) Update(order *models.Order) error {
	return orm.DB().Save(order)
}

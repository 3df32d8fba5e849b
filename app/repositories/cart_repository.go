package repositories

import (
	"errors"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/pkg/orm"
	"gorm.io/gorm"
)

// CartRepository handles database operations for carts and cart items.
type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// ActiveCart returns the user's active cart with items and products
// preloaded, creating an empty one when none exists.
func (r *CartRepository) ActiveCart(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := orm.DB().Model(&models.Cart{}).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ? AND active = ?", userID, true).
		First(&cart)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID, Active: true}
		if err := orm.DB().Create(&cart); err != nil {
			return cart, err
		}
		return cart, nil
	}
	return cart, err
}

// ItemByID loads one cart item.
func (r *CartRepository) ItemByID(id uint) (models.CartItem, error) {
	var item models.CartItem
	err := orm.DB().Model(&models.CartItem{}).Where("id = ?", id).First(&item)
	return item, err
}

// FindItem finds the line in cartID matching product, color and size.
func (r *CartRepository) FindItem(cartID, productID uint, color, size string) (models.CartItem, error) {
	var item models.CartItem
	err := orm.DB().Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ? AND color = ? AND size = ?", cartID, productID, color, size).
		First(&item)
	return item, err
}

// CreateItem persists a new cart line.
func (r *CartRepository) CreateItem(item *models.CartItem) error {
	return orm.DB().Create(item)
}

// UpdateItem persists changes to a cart line.
func (r *CartRepository) UpdateItem(item *models.CartItem) error {
	return orm.DB().Save(item)
}

// DeleteItem removes a cart line.
func (r *CartRepository) DeleteItem(item *models.CartItem) error {
	return orm.DB().Delete(item)
}

// Deactivate marks every active cart for the user inactive and reports
// how many carts were closed.
func (r *CartRepository) Deactivate(userID uint) (int64, error) {
	return orm.DB().Model(&models.Cart{}).
		Where("user_id = ? AND active = ?", userID, true).
		Updates(map[string]interface{}{"active": false})
}

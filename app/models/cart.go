package models

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/villageangel/pkg/collection"
)

// Cart is a user's shopping cart. A user has at most one active cart;
// placing an order deactivates it.
type Cart struct {
	gorm.Model
	UserID uint       `gorm:"not null;index"        json:"userId"`
	Active bool       `gorm:"default:true;index"    json:"active"`
	Items  []CartItem `gorm:"foreignKey:CartID"     json:"items"`
}

// CartItem is one line in a cart. Lines with the same product, color and
// size are merged rather than duplicated.
type CartItem struct {
	gorm.Model
	CartID    uint    `gorm:"not null;index" json:"cartId"`
	ProductID uint    `gorm:"not null;index" json:"productId"`
	Quantity  int     `gorm:"not null"       json:"quantity"`
	Price     float64 `gorm:"not null"       json:"price"`
	Color     string  `gorm:"size:50"        json:"color"`
	Size      string  `gorm:"size:20"        json:"size"`
	Product   Product `json:"product,omitempty"`
}

// Total is the cart's grand total across all lines.
func (c *Cart) Total() float64 {
	return collection.Sum(c.Items, func(item CartItem) float64 {
		return item.Price * float64(item.Quantity)
	})
}

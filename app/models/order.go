package models

import "gorm.io/gorm"

// Order lifecycle states. An order starts pending, an admin approves it
// to paid, then marks it shipped.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusShipped = "shipped"
)

// Payment options a buyer may choose at checkout.
const (
	PaymentFull = "FULL_PAYMENT"
	PaymentEMI3 = "EMI_3_MONTH"
	PaymentEMI6 = "EMI_6_MONTH"
)

// Order is a placed order with a snapshot of the purchased lines.
type Order struct {
	gorm.Model
	UserID        uint        `gorm:"not null;index"           json:"userId"`
	Status        string      `gorm:"size:20;default:pending"  json:"status"`
	PaymentOption string      `gorm:"size:30"                  json:"paymentOption"`
	Total         float64     `gorm:"not null"                 json:"total"`
	Address       string      `gorm:"size:500"                 json:"address"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
	User          User        `json:"user,omitempty"`
}

// OrderItem is a purchased line, copied from the cart at checkout so
// later product edits do not rewrite order history.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `gorm:"not null;index" json:"orderId"`
	ProductID uint    `gorm:"not null;index" json:"productId"`
	Quantity  int     `gorm:"not null"       json:"quantity"`
	Price     float64 `gorm:"not null"       json:"price"`
	Color     string  `gorm:"size:50"        json:"color"`
	Size      string  `gorm:"size:20"        json:"size"`
	Product   Product `json:"product,omitempty"`
}

// ValidPaymentOption reports whether opt is one of the accepted choices.
func ValidPaymentOption(opt string) bool {
	switch opt {
	case PaymentFull, PaymentEMI3, PaymentEMI6:
		return true
	}
	return false
}

// ValidTransition reports whether an order may move from one status to
// the next. Only pending→paid and paid→shipped are allowed.
func ValidTransition(from, to string) bool {
	switch {
	case from == OrderStatusPending && to == OrderStatusPaid:
		return true
	case from == OrderStatusPaid && to == OrderStatusShipped:
		return true
	}
	return false
}

package services

import (
	"github.com/shashiranjanraj/villageangel/app/jobs"
	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/repositories"
	"github.com/shashiranjanraj/villageangel/pkg/collection"
	"github.com/shashiranjanraj/villageangel/pkg/event"
	"github.com/shashiranjanraj/villageangel/pkg/httperr"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
	"github.com/shashiranjanraj/villageangel/pkg/metrics"
	"github.com/shashiranjanraj/villageangel/pkg/queue"
)

// EventOrderPlaced fires after checkout. The payload is *models.Order.
const EventOrderPlaced = "order.placed"

// OrderService handles checkout and the admin order lifecycle.
type OrderService struct {
	orders *repositories.OrderRepository
	carts  *repositories.CartRepository
	users  *repositories.UserRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders: repositories.NewOrderRepository(),
		carts:  repositories.NewCartRepository(),
		users:  repositories.NewUserRepository(),
	}
}

// Place converts the user's active cart into a pending order. The cart's
// lines are copied into the order and every active cart for the user is
// closed afterwards.
func (s *OrderService) Place(userID uint, paymentOption, address string) (*models.Order, *httperr.ErrorResponse) {
	if !models.ValidPaymentOption(paymentOption) {
		return nil, httperr.BadRequest("Invalid payment option")
	}

	cart, err := s.carts.ActiveCart(userID)
	if err != nil {
		return nil, httperr.Internal("Could not load cart")
	}
	if len(cart.Items) == 0 {
		return nil, httperr.BadRequest("Cart is empty")
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, httperr.NotFound("User not found")
	}
	if address == "" {
		address = user.Address
	}

	order := models.Order{
		UserID:        userID,
		Status:        models.OrderStatusPending,
		PaymentOption: paymentOption,
		Total:         cart.Total(),
		Address:       address,
		Items: collection.Map(cart.Items, func(item models.CartItem) models.OrderItem {
			return models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Color:     item.Color,
				Size:      item.Size,
			}
		}),
	}

	if err := s.orders.Create(&order); err != nil {
		return nil, httperr.Internal("Could not place order")
	}

	// The order exists from here on; a failed cart close is logged, not
	// surfaced, so the buyer never sees a phantom failure.
	if _, err := s.carts.Deactivate(userID); err != nil {
		logger.Error("order: could not deactivate cart", "user_id", userID, "error", err)
	}

	metrics.OrdersPlaced.WithLabelValues(paymentOption).Inc()
	event.FireAsync(EventOrderPlaced, &order)
	if err := queue.Dispatch(&jobs.OrderPlacedJob{Email: user.Email, OrderID: order.ID, Total: order.Total}); err != nil {
		logger.Error("order: could not queue confirmation", "order_id", order.ID, "error", err)
	}

	return &order, nil
}

// ForUser lists the user's orders, newest first.
func (s *OrderService) ForUser(userID uint) ([]models.Order, *httperr.ErrorResponse) {
	orders, err := s.orders.ForUser(userID)
	if err != nil {
		return nil, httperr.Internal("Could not load orders")
	}
	return orders, nil
}

// Get loads one order, enforcing that non-admins only see their own.
func (s *OrderService) Get(orderID, callerID uint, callerRole string) (*models.Order, *httperr.ErrorResponse) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, httperr.NotFound("Order not found")
	}
	if callerRole != models.RoleAdmin && order.UserID != callerID {
		return nil, httperr.Forbidden("Access denied")
	}
	return &order, nil
}

// Approve moves a pending order to paid. For non-full payments the
// buyer's credit balance must cover the total and is drawn down.
func (s *OrderService) Approve(orderID uint) (*models.Order, *httperr.ErrorResponse) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, httperr.NotFound("Order not found")
	}
	if !models.ValidTransition(order.Status, models.OrderStatusPaid) {
		return nil, httperr.BadRequest("Order is not pending")
	}

	if order.PaymentOption != models.PaymentFull {
		user, uerr := s.users.FindByID(order.UserID)
		if uerr != nil {
			return nil, httperr.NotFound("User not found")
		}
		if user.CreditBal < order.Total {
			return nil, httperr.BadRequest("Insufficient credit balance")
		}
		user.CreditBal -= order.Total
		if err := s.users.Update(&user); err != nil {
			return nil, httperr.Internal("Could not update credit balance")
		}
	}

	order.Status = models.OrderStatusPaid
	if err := s.orders.Update(&order); err != nil {
		return nil, httperr.Internal("Could not approve order")
	}
	return &order, nil
}

// Ship moves a paid order to shipped.
func (s *OrderService) Ship(orderID uint) (*models.Order, *httperr.ErrorResponse) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, httperr.NotFound("Order not found")
	}
	if !models.ValidTransition(order.Status, models.OrderStatusShipped) {
		return nil, httperr.BadRequest("Order is not paid")
	}

	order.Status = models.OrderStatusShipped
	if err := s.orders.Update(&order); err != nil {
		return nil, httperr.Internal("Could not ship order")
	}
	return &order, nil
}

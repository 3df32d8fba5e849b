package services_test

import (
	"testing"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/services"
	"github.com/shashiranjanraj/villageangel/pkg/database"
)

func placeOrder(t *testing.T, suffix string, paymentOption string, creditBal float64) (models.User, *models.Order) {
	t.Helper()

	carts := services.NewCartService()
	orders := services.NewOrderService()

	user := seedUser(t, suffix, true)
	if creditBal != 0 {
		user.CreditBal = creditBal
		if err := database.DB.Save(&user).Error; err != nil {
			t.Fatalf("set credit: %v", err)
		}
	}
	product := seedProduct(t, 1000)

	if _, herr := carts.AddItem(user.ID, product.ID, 2, "green", "L"); herr != nil {
		t.Fatalf("fill cart: %v", herr)
	}

	order, herr := orders.Place(user.ID, paymentOption, "")
	if herr != nil {
		t.Fatalf("place: %v", herr)
	}
	return user, order
}

func TestPlaceCopiesCartIntoOrder(t *testing.T) {
	setupDB(t)

	user, order := placeOrder(t, "30", models.PaymentFull, 0)

	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if order.Total != 2000 {
		t.Errorf("total = %v, want 2000", order.Total)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(order.Items))
	}
	line := order.Items[0]
	if line.Quantity != 2 || line.Price != 1000 || line.Color != "green" || line.Size != "L" {
		t.Errorf("line = %+v", line)
	}
	// No explicit address was given, so the account's address is used.
	if order.Address != user.Address {
		t.Errorf("address = %q, want %q", order.Address, user.Address)
	}
}

func TestPlaceDeactivatesCart(t *testing.T) {
	setupDB(t)

	user, _ := placeOrder(t, "31", models.PaymentFull, 0)

	cart, herr := services.NewCartService().Cart(user.ID)
	if herr != nil {
		t.Fatalf("cart: %v", herr)
	}
	if len(cart.Items) != 0 {
		t.Errorf("active cart has %d items after checkout, want a fresh empty one", len(cart.Items))
	}
}

func TestPlaceRejectsEmptyCart(t *testing.T) {
	setupDB(t)
	orders := services.NewOrderService()
	user := seedUser(t, "32", true)

	_, herr := orders.Place(user.ID, models.PaymentFull, "")
	if herr == nil || herr.StatusCode != 400 || herr.Message != "Cart is empty" {
		t.Fatalf("got %v, want 400 Cart is empty", herr)
	}
}

func TestPlaceRejectsUnknownPaymentOption(t *testing.T) {
	setupDB(t)
	orders := services.NewOrderService()
	user := seedUser(t, "33", true)

	_, herr := orders.Place(user.ID, "COD", "")
	if herr == nil || herr.StatusCode != 400 {
		t.Fatalf("got %v, want 400", herr)
	}
}

func TestPlaceUsesExplicitAddress(t *testing.T) {
	setupDB(t)

	carts := services.NewCartService()
	orders := services.NewOrderService()
	user := seedUser(t, "34", true)
	product := seedProduct(t, 100)

	if _, herr := carts.AddItem(user.ID, product.ID, 1, "", ""); herr != nil {
		t.Fatalf("fill cart: %v", herr)
	}

	order, herr := orders.Place(user.ID, models.PaymentFull, "7 Park Street")
	if herr != nil {
		t.Fatalf("place: %v", herr)
	}
	if order.Address != "7 Park Street" {
		t.Errorf("address = %q", order.Address)
	}
}

func TestApproveFullPayment(t *testing.T) {
	setupDB(t)
	orders := services.NewOrderService()

	_, order := placeOrder(t, "35", models.PaymentFull, 0)

	approved, herr := orders.Approve(order.ID)
	if herr != nil {
		t.Fatalf("approve: %v", herr)
	}
	if approved.Status != models.OrderStatusPaid {
		t.Errorf("status = %q, want paid", approved.Status)
	}
}

func TestApproveEMIDrawsDownCredit(t *testing.T) {
	setupDB(t)
	orders := services.NewOrderService()

	user, order := placeOrder(t, "36", models.PaymentEMI3, 5000)

	if _, herr := orders.Approve(order.ID); herr != nil {
		t.Fatalf("approve: %v", herr)
	}

	var reloaded models.User
	if err := database.DB.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.CreditBal != 3000 {
		t.Errorf("credit = %v, want 3000 (5000 - 2000)", reloaded.CreditBal)
	}
}

func TestApproveEMIRejectsInsufficientCredit(t *testing.T) {
	setupDB(t)
	orders := services.NewOrderService()

	_, order := placeOrder(t, "37", models.PaymentEMI6, 500)

	_, herr := orders.Approve(order.ID)
	if herr == nil || herr.StatusCode != 400 || herr.Message != "Insufficient credit balance" {
		t.Fatalf("got %v, want 400 Insufficient credit balance", herr)
	}

	reloaded, gerr := orders.Get(order.ID, order.UserID, models.RoleAdmin)
	if gerr != nil {
		t.Fatalf("reload order: %v", gerr)
	}
	if reloaded.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want pending after failed approval", reloaded.Status)
	}
}

func TestApproveIsNotRepeatable(t *testing.T) {
	setupDB(t)
	orders := services.NewOrderService()

	_, order := placeOrder(t, "38", models.PaymentFull, 0)

	if _, herr := orders.Approve(order.ID); herr != nil {
		t.Fatalf("approve: %v", herr)
	}
	if _, herr := orders.Approve(order.ID); herr == nil {
		t.Fatal("second approval accepted")
	}
}

func TestShipRequiresPaidOrder(t *testing.T) {
	setupDB(t)
	orders := services.NewOrderService()

	_, order := placeOrder(t, "39", models.PaymentFull, 0)

	if _, herr := orders.Ship(order.ID); herr == nil {
		t.Fatal("pending order shipped")
	}

	if _, herr := orders.Approve(order.ID); herr != nil {
		t.Fatalf("approve: %v", herr)
	}
	shipped, herr := orders.Ship(order.ID)
	if herr != nil {
		t.Fatalf("ship: %v", herr)
	}
	if shipped.Status != models.OrderStatusShipped {
		t.Errorf("status = %q, want shipped", shipped.Status)
	}
	if _, herr := orders.Ship(order.ID); herr == nil {
		t.Fatal("second ship accepted")
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	setupDB(t)
	orders := services.NewOrderService()

	owner, order := placeOrder(t, "40", models.PaymentFull, 0)
	stranger := seedUser(t, "41", true)

	if _, herr := orders.Get(order.ID, owner.ID, models.RoleUser); herr != nil {
		t.Errorf("owner denied: %v", herr)
	}
	if _, herr := orders.Get(order.ID, stranger.ID, models.RoleUser); herr == nil || herr.StatusCode != 403 {
		t.Errorf("stranger: got %v, want 403", herr)
	}
	if _, herr := orders.Get(order.ID, stranger.ID, models.RoleAdmin); herr != nil {
		t.Errorf("admin denied: %v", herr)
	}
}

func TestForUser(t *testing.T) {
	setupDB(t)
	orders := services.NewOrderService()

	user, _ := placeOrder(t, "42", models.PaymentFull, 0)
	other := seedUser(t, "43", true)

	mine, herr := orders.ForUser(user.ID)
	if herr != nil {
		t.Fatalf("for user: %v", herr)
	}
	if len(mine) != 1 {
		t.Errorf("orders = %d, want 1", len(mine))
	}

	none, herr := orders.ForUser(other.ID)
	if herr != nil {
		t.Fatalf("for other: %v", herr)
	}
	if len(none) != 0 {
		t.Errorf("orders = %d, want 0", len(none))
	}
}

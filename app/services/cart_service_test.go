package services_test

import (
	"testing"

	"github.com/shashiranjanraj/villageangel/app/services"
)

func TestAddItemMergesSameVariant(t *testing.T) {
	setupDB(t)
	svc := services.NewCartService()

	user := seedUser(t, "20", true)
	product := seedProduct(t, 1499)

	if _, herr := svc.AddItem(user.ID, product.ID, 2, "red", "M"); herr != nil {
		t.Fatalf("first add: %v", herr)
	}
	cart, herr := svc.AddItem(user.ID, product.ID, 3, "red", "M")
	if herr != nil {
		t.Fatalf("second add: %v", herr)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("items = %d, want 1 merged line", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", cart.Items[0].Quantity)
	}
	if got := cart.Total(); got != 5*1499 {
		t.Errorf("total = %v, want %v", got, 5*1499)
	}
}

func TestAddItemDistinctVariantsStaySeparate(t *testing.T) {
	setupDB(t)
	svc := services.NewCartService()

	user := seedUser(t, "21", true)
	product := seedProduct(t, 999)

	if _, herr := svc.AddItem(user.ID, product.ID, 1, "red", "M"); herr != nil {
		t.Fatalf("add red/M: %v", herr)
	}
	if _, herr := svc.AddItem(user.ID, product.ID, 1, "blue", "M"); herr != nil {
		t.Fatalf("add blue/M: %v", herr)
	}
	cart, herr := svc.AddItem(user.ID, product.ID, 1, "red", "L")
	if herr != nil {
		t.Fatalf("add red/L: %v", herr)
	}

	if len(cart.Items) != 3 {
		t.Errorf("items = %d, want 3 distinct lines", len(cart.Items))
	}
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	setupDB(t)
	svc := services.NewCartService()

	user := seedUser(t, "22", true)
	product := seedProduct(t, 750)

	cart, herr := svc.AddItem(user.ID, product.ID, 1, "", "")
	if herr != nil {
		t.Fatalf("add: %v", herr)
	}
	if cart.Items[0].Price != 750 {
		t.Errorf("line price = %v, want 750", cart.Items[0].Price)
	}
}

func TestAddItemRejectsBadInput(t *testing.T) {
	setupDB(t)
	svc := services.NewCartService()
	user := seedUser(t, "23", true)

	if _, herr := svc.AddItem(user.ID, 99999, 1, "", ""); herr == nil || herr.StatusCode != 404 {
		t.Errorf("missing product: got %v, want 404", herr)
	}

	product := seedProduct(t, 100)
	if _, herr := svc.AddItem(user.ID, product.ID, 0, "", ""); herr == nil || herr.StatusCode != 400 {
		t.Errorf("zero quantity: got %v, want 400", herr)
	}
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	setupDB(t)
	svc := services.NewCartService()

	user := seedUser(t, "24", true)
	product := seedProduct(t, 500)

	cart, herr := svc.AddItem(user.ID, product.ID, 2, "", "")
	if herr != nil {
		t.Fatalf("add: %v", herr)
	}

	cart, herr = svc.UpdateItem(user.ID, cart.Items[0].ID, 4)
	if herr != nil {
		t.Fatalf("update: %v", herr)
	}
	if cart.Items[0].Quantity != 4 {
		t.Errorf("quantity = %d, want 4", cart.Items[0].Quantity)
	}

	cart, herr = svc.UpdateItem(user.ID, cart.Items[0].ID, 0)
	if herr != nil {
		t.Fatalf("update to zero: %v", herr)
	}
	if len(cart.Items) != 0 {
		t.Errorf("items = %d, want 0 after zeroing", len(cart.Items))
	}
}

func TestUpdateItemEnforcesOwnership(t *testing.T) {
	setupDB(t)
	svc := services.NewCartService()

	owner := seedUser(t, "25", true)
	intruder := seedUser(t, "26", true)
	product := seedProduct(t, 300)

	cart, herr := svc.AddItem(owner.ID, product.ID, 1, "", "")
	if herr != nil {
		t.Fatalf("add: %v", herr)
	}

	if _, herr := svc.UpdateItem(intruder.ID, cart.Items[0].ID, 5); herr == nil || herr.StatusCode != 404 {
		t.Errorf("foreign item update: got %v, want 404", herr)
	}
}

func TestRemoveItem(t *testing.T) {
	setupDB(t)
	svc := services.NewCartService()

	user := seedUser(t, "27", true)
	product := seedProduct(t, 200)

	cart, herr := svc.AddItem(user.ID, product.ID, 1, "", "")
	if herr != nil {
		t.Fatalf("add: %v", herr)
	}

	cart, herr = svc.RemoveItem(user.ID, cart.Items[0].ID)
	if herr != nil {
		t.Fatalf("remove: %v", herr)
	}
	if len(cart.Items) != 0 {
		t.Errorf("items = %d, want 0", len(cart.Items))
	}
}

package services_test

import (
	"testing"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/repositories"
	"github.com/shashiranjanraj/villageangel/app/services"
	"github.com/shashiranjanraj/villageangel/pkg/database"
)

func TestVerifyKYC(t *testing.T) {
	setupDB(t)
	svc := services.NewAdminService()

	user := seedUser(t, "50", false)

	verified, herr := svc.VerifyKYC(user.ID)
	if herr != nil {
		t.Fatalf("verify: %v", herr)
	}
	if !verified.KYCVerified {
		t.Error("user not verified")
	}

	if _, herr := svc.VerifyKYC(99999); herr == nil || herr.StatusCode != 404 {
		t.Errorf("missing user: got %v, want 404", herr)
	}
}

func TestSetCreditLimit(t *testing.T) {
	setupDB(t)
	svc := services.NewAdminService()

	user := seedUser(t, "51", true)

	updated, herr := svc.SetCreditLimit(user.ID, 25000)
	if herr != nil {
		t.Fatalf("set credit: %v", herr)
	}
	if updated.CreditBal != 25000 {
		t.Errorf("credit = %v, want 25000", updated.CreditBal)
	}

	if _, herr := svc.SetCreditLimit(user.ID, -1); herr == nil || herr.StatusCode != 400 {
		t.Errorf("negative credit: got %v, want 400", herr)
	}
}

func TestUnverifiedUsersListing(t *testing.T) {
	setupDB(t)
	svc := services.NewAdminService()

	seedUser(t, "a53", true)
	pending1 := seedUser(t, "b53", false)
	seedUser(t, "c53", true)
	pending2 := seedUser(t, "d53", false)

	users, pagination, herr := svc.UnverifiedUsers(1, 20)
	if herr != nil {
		t.Fatalf("unverified users: %v", herr)
	}
	if pagination.Total != 2 {
		t.Errorf("total = %d, want 2", pagination.Total)
	}

	got := map[uint]bool{}
	for _, u := range users {
		if u.KYCVerified {
			t.Errorf("verified user %d in the unverified listing", u.ID)
		}
		got[u.ID] = true
	}
	if !got[pending1.ID] || !got[pending2.ID] {
		t.Errorf("listing %v missing pending users %d, %d", got, pending1.ID, pending2.ID)
	}
}

func TestOrdersByStatus(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	user := seedUser(t, "54", true)
	for _, status := range []string{
		models.OrderStatusPending,
		models.OrderStatusPaid,
		models.OrderStatusPending,
		models.OrderStatusShipped,
	} {
		order := models.Order{UserID: user.ID, Status: status, Total: 1200}
		if err := database.DB.Create(&order).Error; err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}

	orders, pagination, err := repo.ByStatus(models.OrderStatusPending, 1, 20)
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	if pagination.Total != 2 {
		t.Errorf("total = %d, want 2", pagination.Total)
	}
	for _, o := range orders {
		if o.Status != models.OrderStatusPending {
			t.Errorf("order %d has status %q", o.ID, o.Status)
		}
	}
}

func TestAdminUsersPagination(t *testing.T) {
	setupDB(t)
	svc := services.NewAdminService()

	for i := 0; i < 5; i++ {
		seedUser(t, string(rune('a'+i))+"52", true)
	}

	users, pagination, herr := svc.Users(1, 3)
	if herr != nil {
		t.Fatalf("users: %v", herr)
	}
	if len(users) != 3 {
		t.Errorf("page size = %d, want 3", len(users))
	}
	if pagination.Total != 5 {
		t.Errorf("total = %d, want 5", pagination.Total)
	}
}

package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/villageangel/client"
)

func line(productID uint, qty int, price float64, color, size string) client.CartLine {
	return client.CartLine{
		ProductID: productID,
		Name:      "Saree",
		Price:     price,
		Quantity:  qty,
		Color:     color,
		Size:      size,
	}
}

func TestCartStoreMergesSameVariant(t *testing.T) {
	s := client.NewCartStore()

	s.Add(line(1, 2, 1000, "red", "M"))
	s.Add(line(1, 3, 1000, "red", "M"))

	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1 merged line", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", lines[0].Quantity)
	}
	if got := s.Total(); got != 5000 {
		t.Errorf("total = %v, want 5000", got)
	}
}

func TestCartStoreDistinctVariants(t *testing.T) {
	s := client.NewCartStore()

	s.Add(line(1, 1, 100, "red", "M"))
	s.Add(line(1, 1, 100, "blue", "M"))
	s.Add(line(1, 1, 100, "red", "L"))
	s.Add(line(2, 1, 100, "red", "M"))

	if got := len(s.Lines()); got != 4 {
		t.Errorf("lines = %d, want 4", got)
	}
	if got := s.Count(); got != 4 {
		t.Errorf("count = %d, want 4", got)
	}
}

func TestCartStoreMergeRefreshesPrice(t *testing.T) {
	s := client.NewCartStore()

	s.Add(line(1, 1, 100, "", ""))
	s.Add(line(1, 1, 120, "", ""))

	lines := s.Lines()
	if lines[0].Price != 120 {
		t.Errorf("price = %v, want the most recent 120", lines[0].Price)
	}
	if got := s.Total(); got != 240 {
		t.Errorf("total = %v, want 240", got)
	}
}

func TestCartStoreIgnoresNonPositiveAdds(t *testing.T) {
	s := client.NewCartStore()

	s.Add(line(1, 0, 100, "", ""))
	s.Add(line(1, -2, 100, "", ""))

	if got := len(s.Lines()); got != 0 {
		t.Errorf("lines = %d, want 0", got)
	}
}

func TestCartStoreUpdateQuantity(t *testing.T) {
	s := client.NewCartStore()
	s.Add(line(1, 2, 100, "red", "M"))

	s.UpdateQuantity(1, "red", "M", 7)
	if got := s.Lines()[0].Quantity; got != 7 {
		t.Errorf("quantity = %d, want 7", got)
	}

	s.UpdateQuantity(1, "red", "M", 0)
	if got := len(s.Lines()); got != 0 {
		t.Errorf("lines = %d, want 0 after zeroing", got)
	}

	// Updating a missing line is a no-op, not a create.
	s.UpdateQuantity(9, "", "", 3)
	if got := len(s.Lines()); got != 0 {
		t.Errorf("lines = %d, want 0", got)
	}
}

func TestCartStoreInsertionOrder(t *testing.T) {
	s := client.NewCartStore()
	s.Add(line(3, 1, 10, "", ""))
	s.Add(line(1, 1, 10, "", ""))
	s.Add(line(2, 1, 10, "", ""))
	s.Remove(1, "", "")
	s.Add(line(4, 1, 10, "", ""))

	var got []uint
	for _, l := range s.Lines() {
		got = append(got, l.ProductID)
	}
	want := []uint{3, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lines = %v, want %v", got, want)
		}
	}
}

func TestCartStoreClear(t *testing.T) {
	s := client.NewCartStore()
	s.Add(line(1, 2, 100, "", ""))
	s.Clear()

	if s.Count() != 0 || s.Total() != 0 || len(s.Lines()) != 0 {
		t.Error("store not empty after clear")
	}
}

func TestCartStoreSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")

	s := client.NewCartStore()
	s.Add(line(1, 2, 100, "red", "M"))
	s.Add(line(2, 1, 50, "", ""))
	if err := s.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := client.NewCartStore()
	if err := restored.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if restored.Count() != 3 || restored.Total() != 250 {
		t.Errorf("restored count=%d total=%v", restored.Count(), restored.Total())
	}

	// Loading a path that was never saved is a silent no-op.
	empty := client.NewCartStore()
	if err := empty.Load(filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if empty.Count() != 0 {
		t.Errorf("count = %d, want 0", empty.Count())
	}
}

func TestCartStoreSyncPushesEveryLine(t *testing.T) {
	var posted []map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/v1/cart/items" {
			writeJSON(w, 404, map[string]interface{}{"message": "Not found", "statusCode": 404})
			return
		}
		var body map[string]interface{}
		if err := jsonDecode(r, &body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		posted = append(posted, body)
		writeJSON(w, 200, map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	s := client.NewCartStore()
	s.Add(line(1, 2, 100, "red", "M"))
	s.Add(line(2, 1, 50, "", ""))

	c := client.New(srv.URL)
	if err := s.Sync(context.Background(), c); err != nil {
		t.Fatalf("sync: %v", err)
	}

	if len(posted) != 2 {
		t.Fatalf("posted %d lines, want 2", len(posted))
	}
	if posted[0]["productId"].(float64) != 1 || posted[0]["quantity"].(float64) != 2 {
		t.Errorf("first line = %v", posted[0])
	}
	if got := len(s.Lines()); got != 0 {
		t.Errorf("lines = %d, want store cleared after sync", got)
	}
}

func TestCartStoreSyncKeepsLinesOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]interface{}{"message": "Something went wrong", "statusCode": 500})
	}))
	defer srv.Close()

	s := client.NewCartStore()
	s.Add(line(1, 1, 100, "", ""))

	c := client.New(srv.URL)
	if err := s.Sync(context.Background(), c); err == nil {
		t.Fatal("expected sync error")
	}
	if got := len(s.Lines()); got != 1 {
		t.Errorf("lines = %d, want the line kept for retry", got)
	}
}

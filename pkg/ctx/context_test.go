package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appctx "github.com/shashiranjanraj/villageangel/pkg/ctx"
)

func TestWrapWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	appctx.Wrap(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	appctx.Wrap(func(c *appctx.Context) {
		c.Success("Cart fetched", map[string]interface{}{"count": 3})
	})(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true || body["message"] != "Cart fetched" || body["count"].(float64) != 3 {
		t.Errorf("body = %v", body)
	}
}

func TestQueryHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?categoryId=7&sort=", nil)

	appctx.Wrap(func(c *appctx.Context) {
		if got := c.QueryUint("categoryId"); got != 7 {
			t.Errorf("categoryId = %d, want 7", got)
		}
		if got := c.QueryUint("productId"); got != 0 {
			t.Errorf("missing productId = %d, want 0", got)
		}
		if got := c.Query("sort", "newest"); got != "newest" {
			t.Errorf("sort = %q, want default", got)
		}
		c.JSON(http.StatusOK, nil)
	})(rec, req)
}

func TestStoreRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	appctx.Wrap(func(c *appctx.Context) {
		c.Set("user_id", uint(42))
		if got := c.GetUint("user_id"); got != 42 {
			t.Errorf("user_id = %d, want 42", got)
		}
		if _, ok := c.Get("absent"); ok {
			t.Error("absent key reported present")
		}
		c.JSON(http.StatusOK, nil)
	})(rec, req)
}

func TestBindValid(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"productId":5,"quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			ProductID uint `json:"productId" validate:"required"`
			Quantity  int  `json:"quantity"  validate:"required,gte=1"`
		}
		if !c.Bind(&input) {
			t.Error("expected Bind to succeed")
			return
		}
		if input.ProductID != 5 || input.Quantity != 2 {
			t.Errorf("input = %+v", input)
		}
		c.Success("ok", nil)
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestBindValidationFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{"quantity":0}`))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			ProductID uint `json:"productId" validate:"required"`
		}
		if c.Bind(&input) {
			t.Error("expected Bind to fail")
		}
	})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"errors"`) {
		t.Errorf("body = %s, want field errors", rec.Body.String())
	}
}

func TestBindMalformedJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct{}
		if c.Bind(&input) {
			t.Error("expected Bind to fail on malformed JSON")
		}
	})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		if got := c.ClientIP(); got != "203.0.113.9" {
			t.Errorf("ip = %q", got)
		}
		c.JSON(http.StatusOK, nil)
	})(rec, req)
}

func TestNotFoundEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	appctx.Wrap(func(c *appctx.Context) {
		c.NotFound("Product not found")
	})(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "Product not found" || body["statusCode"].(float64) != 404 {
		t.Errorf("body = %v", body)
	}
}

package client

import (
	"context"
	"fmt"
)

// User is the account shape the API returns.
type User struct {
	ID          uint    `json:"id"`
	FullName    string  `json:"fullName"`
	UserName    string  `json:"userName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	Role        string  `json:"role"`
	KYCVerified bool    `json:"kycVerified"`
	CreditBal   float64 `json:"creditBal"`
}

// Category and Product mirror the catalogue payloads.
type Category struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Products    []Product `json:"products,omitempty"`
}

type Product struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	CategoryID  uint     `json:"categoryId"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes"`
	Colors      string   `json:"colors"`
}

// Order mirrors the order payload.
type Order struct {
	ID            uint        `json:"id"`
	UserID        uint        `json:"userId"`
	Status        string      `json:"status"`
	PaymentOption string      `json:"paymentOption"`
	Total         float64     `json:"total"`
	Address       string      `json:"address"`
	Items         []OrderItem `json:"items"`
}

type OrderItem struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     float64 `json:"price"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
}

// RegisterInput mirrors the register payload.
type RegisterInput struct {
	FullName string `json:"fullName"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Address  string `json:"address,omitempty"`
	KYCCard  string `json:"kycCard,omitempty"`
}

// RegisterResult carries the new account and its activation token.
type RegisterResult struct {
	User            User   `json:"user"`
	ActivationToken string `json:"activationToken"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	var out RegisterResult
	if err := c.do(ctx, "POST", "/api/v1/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs in and installs the token pair on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		User         User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "POST", "/api/v1/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.SetTokens(out.AccessToken, out.RefreshToken)
	return &out.User, nil
}

// Logout tells the server and drops the local tokens either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, "POST", "/api/v1/auth/logout", nil, nil)
	c.ClearTokens()
	return err
}

// VerifyOTP activates an account with its activation token and code.
func (c *Client) VerifyOTP(ctx context.Context, activationToken string, code int) error {
	body := map[string]interface{}{"token": activationToken, "code": code}
	return c.do(ctx, "POST", "/api/v1/auth/verify-otp", body, nil)
}

// ResendVerification requests a fresh activation token and code.
func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	var out struct {
		ActivationToken string `json:"activationToken"`
	}
	err := c.do(ctx, "POST", "/api/v1/auth/resend-verification", map[string]string{"email": email}, &out)
	return out.ActivationToken, err
}

// ForgotPassword starts the reset flow; the returned token pairs with
// the emailed code.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out struct {
		ForgotPasswordToken string `json:"forgotPasswordToken"`
	}
	err := c.do(ctx, "POST", "/api/v1/auth/forgot-password", map[string]string{"email": email}, &out)
	return out.ForgotPasswordToken, err
}

// VerifyResetOTP trades the reset code for a reset token.
func (c *Client) VerifyResetOTP(ctx context.Context, otpToken string, code int) (string, error) {
	var out struct {
		ResetToken string `json:"resetToken"`
	}
	body := map[string]interface{}{"token": otpToken, "code": code}
	err := c.do(ctx, "POST", "/api/v1/auth/verify-reset-otp", body, &out)
	return out.ResetToken, err
}

// ResetPassword sets a new password with the reset token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) error {
	body := map[string]string{"token": resetToken, "password": password}
	return c.do(ctx, "POST", "/api/v1/auth/reset-password", body, nil)
}

// Categories lists the catalogue's categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out struct {
		Categories []Category `json:"categories"`
	}
	err := c.do(ctx, "GET", "/api/v1/categories", nil, &out)
	return out.Categories, err
}

// Products lists products, optionally scoped to a category (0 = all).
func (c *Client) Products(ctx context.Context, categoryID uint) ([]Product, error) {
	path := "/api/v1/products"
	if categoryID != 0 {
		path = fmt.Sprintf("%s?categoryId=%d", path, categoryID)
	}
	var out struct {
		Data []Product `json:"data"`
	}
	err := c.do(ctx, "GET", path, nil, &out)
	return out.Data, err
}

// ServerCart is the server-side cart payload.
type ServerCart struct {
	ID    uint `json:"id"`
	Items []struct {
		ID        uint    `json:"id"`
		ProductID uint    `json:"productId"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price"`
		Color     string  `json:"color"`
		Size      string  `json:"size"`
	} `json:"items"`
}

// Cart fetches the active server-side cart.
func (c *Client) Cart(ctx context.Context) (*ServerCart, float64, error) {
	var out struct {
		Cart  ServerCart `json:"cart"`
		Total float64    `json:"total"`
	}
	err := c.do(ctx, "GET", "/api/v1/cart", nil, &out)
	return &out.Cart, out.Total, err
}

// AddCartItem puts a product variant in the server-side cart.
func (c *Client) AddCartItem(ctx context.Context, productID uint, quantity int, color, size string) error {
	body := map[string]interface{}{
		"productId": productID,
		"quantity":  quantity,
		"color":     color,
		"size":      size,
	}
	return c.do(ctx, "POST", "/api/v1/cart/items", body, nil)
}

// UpdateCartItem sets a line's quantity; zero or less removes it.
func (c *Client) UpdateCartItem(ctx context.Context, itemID uint, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.do(ctx, "PUT", fmt.Sprintf("/api/v1/cart/items/%d", itemID), body, nil)
}

// RemoveCartItem deletes a line.
func (c *Client) RemoveCartItem(ctx context.Context, itemID uint) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/api/v1/cart/items/%d", itemID), nil, nil)
}

// PlaceOrder checks out the active cart.
func (c *Client) PlaceOrder(ctx context.Context, paymentOption, address string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	body := map[string]string{"paymentOption": paymentOption, "address": address}
	if err := c.do(ctx, "POST", "/api/v1/orders", body, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// MyOrders lists the caller's orders.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	err := c.do(ctx, "GET", "/api/v1/orders", nil, &out)
	return out.Orders, err
}

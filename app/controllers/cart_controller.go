package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/villageangel/app/services"
	"github.com/shashiranjanraj/villageangel/pkg/bind"
	"github.com/shashiranjanraj/villageangel/pkg/middleware"
	"github.com/shashiranjanraj/villageangel/pkg/response"
)

type CartController struct {
	service *services.CartService
}

func NewCartController() *CartController {
	return &CartController{service: services.NewCartService()}
}

// Show returns the caller's active cart with its grand total.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	cart, herr := c.service.Cart(userID)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "", response.Payload{"cart": cart, "total": cart.Total()})
}

// AddItem puts a product variant in the cart.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	var in struct {
		ProductID uint   `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity"  validate:"required,gte=1"`
		Color     string `json:"color"     validate:"nullable,max=50"`
		Size      string `json:"size"      validate:"nullable,max=20"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, herr := c.service.AddItem(userID, in.ProductID, in.Quantity, in.Color, in.Size)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Item added to cart", response.Payload{"cart": cart, "total": cart.Total()})
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	var in struct {
		Quantity int `json:"quantity"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	}

	cart, herr := c.service.UpdateItem(userID, pathID(r, "itemId"), in.Quantity)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Cart updated", response.Payload{"cart": cart, "total": cart.Total()})
}

// RemoveItem deletes a line from the cart.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	cart, herr := c.service.RemoveItem(userID, pathID(r, "itemId"))
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Item removed", response.Payload{"cart": cart, "total": cart.Total()})
}

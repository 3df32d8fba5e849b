package services

import (
	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/repositories"
	"github.com/shashiranjanraj/villageangel/pkg/httperr"
)

// CartService handles the shopper's cart mutations.
type CartService struct {
	carts   *repositories.CartRepository
	catalog *repositories.CatalogRepository
}

func NewCartService() *CartService {
	return &CartService{
		carts:   repositories.NewCartRepository(),
		catalog: repositories.NewCatalogRepository(),
	}
}

// Cart returns the user's active cart, creating one if needed.
func (s *CartService) Cart(userID uint) (*models.Cart, *httperr.ErrorResponse) {
	cart, err := s.carts.ActiveCart(userID)
	if err != nil {
		return nil, httperr.Internal("Could not load cart")
	}
	return &cart, nil
}

// AddItem puts a product variant into the cart. An existing line for the
// same product, color and size grows instead of a duplicate appearing.
// The line price snapshots the product's current price.
func (s *CartService) AddItem(userID, productID uint, quantity int, color, size string) (*models.Cart, *httperr.ErrorResponse) {
	if quantity < 1 {
		return nil, httperr.BadRequest("Quantity must be at least 1")
	}

	product, err := s.catalog.ProductByID(productID)
	if err != nil {
		return nil, httperr.NotFound("Product not found")
	}

	cart, err := s.carts.ActiveCart(userID)
	if err != nil {
		return nil, httperr.Internal("Could not load cart")
	}

	if existing, err := s.carts.FindItem(cart.ID, productID, color, size); err == nil {
		existing.Quantity += quantity
		existing.Price = product.Price
		if err := s.carts.UpdateItem(&existing); err != nil {
			return nil, httperr.Internal("Could not update cart")
		}
		return s.Cart(userID)
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     product.Price,
		Color:     color,
		Size:      size,
	}
	if err := s.carts.CreateItem(&item); err != nil {
		return nil, httperr.Internal("Could not update cart")
	}
	return s.Cart(userID)
}

// UpdateItem sets a line's quantity. Zero or negative removes the line.
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (*models.Cart, *httperr.ErrorResponse) {
	cart, err := s.carts.ActiveCart(userID)
	if err != nil {
		return nil, httperr.Internal("Could not load cart")
	}

	item, err := s.carts.ItemByID(itemID)
	if err != nil || item.CartID != cart.ID {
		return nil, httperr.NotFound("Cart item not found")
	}

	if quantity <= 0 {
		if err := s.carts.DeleteItem(&item); err != nil {
			return nil, httperr.Internal("Could not update cart")
		}
		return s.Cart(userID)
	}

	item.Quantity = quantity
	if err := s.carts.UpdateItem(&item); err != nil {
		return nil, httperr.Internal("Could not update cart")
	}
	return s.Cart(userID)
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(userID, itemID uint) (*models.Cart, *httperr.ErrorResponse) {
	return s.UpdateItem(userID, itemID, 0)
}

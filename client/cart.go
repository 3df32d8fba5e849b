package client

import (
	"context"
	"encoding/json"
	"os"
	"sync"
)

// CartLine is one entry in the local cart store.
type CartLine struct {
	ProductID uint
	Name      string
	Price     float64
	Quantity  int
	Color     string
	Size      string
}

func (l CartLine) key() cartKey {
	return cartKey{ProductID: l.ProductID, Color: l.Color, Size: l.Size}
}

type cartKey struct {
	ProductID uint
	Color     string
	Size      string
}

// CartStore is the client-side cart used before checkout. Adding the
// same product variant twice grows the existing line; quantities at or
// below zero remove it.
type CartStore struct {
	mu    sync.Mutex
	lines map[cartKey]*CartLine
	order []cartKey // insertion order, for stable listings
}

func NewCartStore() *CartStore {
	return &CartStore{lines: make(map[cartKey]*CartLine)}
}

// Add merges line into the store.
func (s *CartStore) Add(line CartLine) {
	if line.Quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := line.key()
	if existing, ok := s.lines[k]; ok {
		existing.Quantity += line.Quantity
		existing.Price = line.Price
		return
	}

	copied := line
	s.lines[k] = &copied
	s.order = append(s.order, k)
}

// UpdateQuantity sets the line's quantity; zero or less removes it.
func (s *CartStore) UpdateQuantity(productID uint, color, size string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := cartKey{ProductID: productID, Color: color, Size: size}
	line, ok := s.lines[k]
	if !ok {
		return
	}

	if quantity <= 0 {
		s.removeLocked(k)
		return
	}
	line.Quantity = quantity
}

// Remove deletes the line for the product variant.
func (s *CartStore) Remove(productID uint, color, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(cartKey{ProductID: productID, Color: color, Size: size})
}

func (s *CartStore) removeLocked(k cartKey) {
	delete(s.lines, k)
	for i, existing := range s.order {
		if existing == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Lines returns the cart contents in insertion order.
func (s *CartStore) Lines() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CartLine, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.lines[k])
	}
	return out
}

// Count is the number of units across all lines.
func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, line := range s.lines {
		n += line.Quantity
	}
	return n
}

// Total is the cart's grand total.
func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum float64
	for _, line := range s.lines {
		sum += line.Price * float64(line.Quantity)
	}
	return sum
}

// Clear empties the store, e.g. after a successful checkout.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[cartKey]*CartLine)
	s.order = nil
}

// Save writes the cart lines to path as JSON so a guest cart survives
// restarts.
func (s *CartStore) Save(path string) error {
	raw, err := json.Marshal(s.Lines())
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Load replaces the store's contents with lines previously saved to
// path. A missing file leaves the store untouched.
func (s *CartStore) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var lines []CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return err
	}

	s.Clear()
	for _, line := range lines {
		s.Add(line)
	}
	return nil
}

// Sync pushes every local line to the server-side cart and clears the
// store when all of them land.
func (s *CartStore) Sync(ctx context.Context, c *Client) error {
	for _, line := range s.Lines() {
		if err := c.AddCartItem(ctx, line.ProductID, line.Quantity, line.Color, line.Size); err != nil {
			return err
		}
	}
	s.Clear()
	return nil
}

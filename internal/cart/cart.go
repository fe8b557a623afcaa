// Package cart holds the in-memory shopping cart: an insertion-ordered list
// of product lines and a total that is recomputed synchronously after every
// mutation. A cart belongs to exactly one client session and has no
// concurrent writers, so it carries no locking.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/product"
)

// Line is one product entry in the cart, unique per product id. Name,
// price and image are denormalized from the product snapshot for stable
// display; the backend remains authoritative for pricing at order time.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int32           `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt32(l.Quantity))
}

type Cart struct {
	lines []Line
	total decimal.Decimal
}

func New() *Cart {
	return &Cart{total: decimal.Zero}
}

// AddItem merges quantity into an existing line for the same product or
// appends a new line at the end. Quantity below 1 is rejected as a no-op.
// Stock validation against a fresh snapshot is the caller's job; the cart
// only records what it is told. Reports whether the cart changed.
func (c *Cart) AddItem(p product.Product, quantity int32) bool {
	if quantity < 1 {
		return false
	}
	for i, line := range c.lines {
		if line.ProductID == p.ID {
			c.lines[i].Quantity += quantity
			c.recomputeTotal()
			return true
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  quantity,
	})
	c.recomputeTotal()
	return true
}

// RemoveItem deletes the line for productID. Removing an absent product is
// a no-op, not an error. Reports whether the cart changed.
func (c *Cart) RemoveItem(productID uuid.UUID) bool {
	for i, line := range c.lines {
		if line.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.recomputeTotal()
			return true
		}
	}
	return false
}

// UpdateQuantity replaces the quantity of an existing line. Quantity below
// 1 or an unknown product leaves the cart unchanged. Reports whether the
// cart changed.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int32) bool {
	if quantity < 1 {
		return false
	}
	for i, line := range c.lines {
		if line.ProductID == productID {
			c.lines[i].Quantity = quantity
			c.recomputeTotal()
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.lines = nil
	c.total = decimal.Zero
}

// Lines returns a copy in first-add order.
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) Total() decimal.Decimal {
	return c.total
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) recomputeTotal() {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	c.total = total
}

package product

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/errors"
)

// Product is a catalog snapshot taken at fetch time. Stock may already be
// stale by the time the shopper acts on it; the backend re-checks at order
// creation.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Stock     int32           `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CheckStock is the caller-side guard before AddItem/UpdateQuantity: it
// compares a desired quantity against this snapshot's stock figure.
func (p Product) CheckStock(quantity int32) error {
	if quantity > p.Stock {
		return fmt.Errorf(
			"requested quantity=%d of productId=%s exceeds stock=%d with error=%w",
			quantity, p.ID.String(), p.Stock, errors.ErrStaleStock,
		)
	}
	return nil
}

package product

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/errors"
)

func TestCheckStock(t *testing.T) {
	p := Product{ID: uuid.New(), Name: "grinder", Price: decimal.NewFromInt(120), Stock: 3}

	assert.NoError(t, p.CheckStock(1))
	assert.NoError(t, p.CheckStock(3))
	assert.ErrorIs(t, p.CheckStock(4), errors.ErrStaleStock)
}

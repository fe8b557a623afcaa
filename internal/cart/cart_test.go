package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/product"
)

func snapshot(name string, price int64, stock int32) product.Product {
	return product.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	tests := []struct {
		name             string
		quantities       []int32
		expectedQuantity int32
		expectedChanged  []bool
	}{
		{
			name:             "given repeated adds of the same product should keep one line with summed quantity",
			quantities:       []int32{1, 2, 3},
			expectedQuantity: 6,
			expectedChanged:  []bool{true, true, true},
		},
		{
			name:             "given adds with invalid quantities mixed in should ignore the invalid ones",
			quantities:       []int32{2, 0, -1, 5},
			expectedQuantity: 7,
			expectedChanged:  []bool{true, false, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := snapshot("espresso machine", 10, 100)
			crt := New()

			for i, quantity := range tt.quantities {
				assert.Equal(t, tt.expectedChanged[i], crt.AddItem(p, quantity))
			}

			lines := crt.Lines()
			assert.Len(t, lines, 1)
			assert.Equal(t, p.ID, lines[0].ProductID)
			assert.Equal(t, tt.expectedQuantity, lines[0].Quantity)
		})
	}
}

func TestTotalMatchesLinesAfterEveryMutation(t *testing.T) {
	p1 := snapshot("grinder", 10, 50)
	p2 := snapshot("kettle", 5, 50)
	crt := New()

	checkInvariant := func() {
		expected := decimal.Zero
		for _, line := range crt.Lines() {
			expected = expected.Add(line.Price.Mul(decimal.NewFromInt32(line.Quantity)))
		}
		assert.True(t, crt.Total().Equal(expected),
			"total=%s should equal sum of line subtotals=%s", crt.Total(), expected)
	}

	crt.AddItem(p1, 2)
	checkInvariant()
	crt.AddItem(p2, 1)
	checkInvariant()
	assert.True(t, crt.Total().Equal(decimal.NewFromInt(25)))

	crt.UpdateQuantity(p1.ID, 3)
	checkInvariant()
	assert.True(t, crt.Total().Equal(decimal.NewFromInt(35)))

	crt.RemoveItem(p2.ID)
	checkInvariant()
	assert.True(t, crt.Total().Equal(decimal.NewFromInt(30)))

	crt.Clear()
	checkInvariant()
	assert.True(t, crt.Total().IsZero())
	assert.True(t, crt.IsEmpty())
}

func TestUpdateQuantityReplacesNotIncrements(t *testing.T) {
	p := snapshot("scale", 20, 10)
	crt := New()
	crt.AddItem(p, 4)

	assert.True(t, crt.UpdateQuantity(p.ID, 2))
	assert.Equal(t, int32(2), crt.Lines()[0].Quantity)
	assert.True(t, crt.Total().Equal(decimal.NewFromInt(40)))
}

func TestUpdateQuantityInvalidInputLeavesCartUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		quantity int32
	}{
		{name: "given quantity zero should leave cart unchanged", quantity: 0},
		{name: "given negative quantity should leave cart unchanged", quantity: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := snapshot("tamper", 15, 10)
			crt := New()
			crt.AddItem(p, 3)
			before := crt.Lines()

			assert.False(t, crt.UpdateQuantity(p.ID, tt.quantity))
			assert.Equal(t, before, crt.Lines())
			assert.True(t, crt.Total().Equal(decimal.NewFromInt(45)))
		})
	}
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	crt := New()
	crt.AddItem(snapshot("dripper", 8, 10), 1)

	assert.False(t, crt.UpdateQuantity(uuid.New(), 5))
	assert.Len(t, crt.Lines(), 1)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	p := snapshot("filter pack", 3, 200)
	crt := New()
	crt.AddItem(p, 2)

	assert.True(t, crt.RemoveItem(p.ID))
	assert.False(t, crt.RemoveItem(p.ID), "removing an absent product should be a no-op")
	assert.False(t, crt.RemoveItem(uuid.New()))
	assert.True(t, crt.IsEmpty())
	assert.True(t, crt.Total().IsZero())
}

func TestLineOrderIsStable(t *testing.T) {
	p1 := snapshot("beans", 12, 40)
	p2 := snapshot("mug", 6, 40)
	p3 := snapshot("thermometer", 9, 40)
	crt := New()
	crt.AddItem(p1, 1)
	crt.AddItem(p2, 1)
	crt.AddItem(p3, 1)

	crt.UpdateQuantity(p1.ID, 5)
	crt.AddItem(p2, 2)

	ids := []uuid.UUID{}
	for _, line := range crt.Lines() {
		ids = append(ids, line.ProductID)
	}
	assert.Equal(t, []uuid.UUID{p1.ID, p2.ID, p3.ID}, ids, "mutations should not reorder lines")

	// Removing and re-adding places the product at the end.
	crt.RemoveItem(p1.ID)
	crt.AddItem(p1, 1)
	ids = ids[:0]
	for _, line := range crt.Lines() {
		ids = append(ids, line.ProductID)
	}
	assert.Equal(t, []uuid.UUID{p2.ID, p3.ID, p1.ID}, ids)
}

func TestLinesReturnsACopy(t *testing.T) {
	p := snapshot("cleaning kit", 18, 5)
	crt := New()
	crt.AddItem(p, 1)

	lines := crt.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, int32(1), crt.Lines()[0].Quantity)
	assert.True(t, crt.Total().Equal(decimal.NewFromInt(18)))
}

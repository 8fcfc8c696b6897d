package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilemart/storefront/internal/catalog"
)

func TestApplyDecrement(t *testing.T) {
	t.Run("leaves stock in stock", func(t *testing.T) {
		remaining, availability, err := applyDecrement("Pixel 9", 5, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)
		assert.Equal(t, catalog.InStock, availability)
	})

	t.Run("exact depletion flips availability", func(t *testing.T) {
		remaining, availability, err := applyDecrement("Pixel 9", 3, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
		assert.Equal(t, catalog.OutOfStock, availability)
	})

	t.Run("shortfall names the product", func(t *testing.T) {
		_, _, err := applyDecrement("Galaxy S25", 2, 5)
		var ise InsufficientStockError
		require.ErrorAs(t, err, &ise)
		assert.Equal(t, "Galaxy S25", ise.ProductName)
		assert.Equal(t, 2, ise.Available)
		assert.Equal(t, 5, ise.Requested)
		assert.Contains(t, err.Error(), "Galaxy S25")
	})
}

func TestLockOrder(t *testing.T) {
	items := []LineItem{
		{ProductID: "p3", Quantity: 1},
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}

	sorted := lockOrder(items)
	require.Len(t, sorted, 3)
	assert.Equal(t, "p1", sorted[0].ProductID)
	assert.Equal(t, "p2", sorted[1].ProductID)
	assert.Equal(t, "p3", sorted[2].ProductID)

	// the caller's slice keeps its submitted order
	assert.Equal(t, "p3", items[0].ProductID)
	assert.Equal(t, "p1", items[1].ProductID)
	assert.Equal(t, "p2", items[2].ProductID)
}

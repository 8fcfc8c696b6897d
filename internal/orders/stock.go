package orders

import (
	"slices"
	"strings"

	"github.com/mobilemart/storefront/internal/catalog"
)

// lockOrder returns the line items sorted by product id. Row locks are
// always taken in this canonical order so two concurrent orders naming
// the same products cannot deadlock; the stored line order is not
// affected.
func lockOrder(items []LineItem) []LineItem {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b LineItem) int {
		return strings.Compare(a.ProductID, b.ProductID)
	})
	return sorted
}

// applyDecrement reconciles one line item against current stock. On
// success it returns the remaining quantity and the availability label
// the product row must be updated with.
func applyDecrement(productName string, stock, requested int) (remaining int, availability string, err error) {
	if stock < requested {
		return 0, "", InsufficientStockError{ProductName: productName, Available: stock, Requested: requested}
	}
	remaining = stock - requested
	return remaining, catalog.ComputeAvailability(remaining), nil
}

package orders

import "fmt"

// ValidationError marks a malformed request; the caller can resubmit a
// corrected one.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

type NotFoundError struct {
	Entity string
}

func (e NotFoundError) Error() string { return e.Entity + " not found" }

// InsufficientStockError names the offending product so the message can
// be shown to the buyer as-is.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d available, %d requested", e.ProductName, e.Available, e.Requested)
}

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("order already %s, cannot change status to %s", e.From, e.To)
}

package orders

import "time"

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type OrderPlacedPayload struct {
	OrderID    string     `json:"order_id"`
	UserID     string     `json:"user_id"`
	Items      []LineItem `json:"items"`
	TotalCents int        `json:"total_cents"`
}

type OrderStatusChangedPayload struct {
	OrderID     string     `json:"order_id"`
	NewStatus   Status     `json:"new_status"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

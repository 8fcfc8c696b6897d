package orders

import "time"

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// LineItem snapshots name, image and unit price at order time; the
// snapshot does not follow later catalog edits.
type LineItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	UnitCents int    `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user"`
	Items         []LineItem      `json:"orderItems"`
	Shipping      ShippingAddress `json:"shippingAddress"`
	TotalCents    int             `json:"totalPrice"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Status        Status          `json:"orderStatus"`
	PaidAt        *time.Time      `json:"paidAt"`
	DeliveredAt   *time.Time      `json:"deliveredAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

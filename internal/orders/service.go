package orders

import (
	"context"
	"time"
)

// Store is the persistence contract of the order workflows. PlaceOrder
// must be all-or-nothing: either every line item's stock is decremented
// and the order exists, or nothing changed.
type Store interface {
	PlaceOrder(ctx context.Context, draft Order) (Order, error)
	GetOrder(ctx context.Context, id string) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	SetStatus(ctx context.Context, id string, next Status, deliveredAt *time.Time) (Order, error)
}

type PlaceOrderRequest struct {
	Items      []LineItem      `json:"orderItems"`
	Shipping   ShippingAddress `json:"shippingAddress"`
	TotalCents int             `json:"totalPrice"`
}

type Service struct {
	Store Store

	now func() time.Time
}

func NewService(store Store) *Service {
	return &Service{Store: store, now: time.Now}
}

// PlaceOrder validates the request and hands a draft order to the store.
// The supplied line-item snapshots and total are stored as given; the
// total is not recomputed from the items.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (Order, error) {
	if err := validatePlaceOrder(req); err != nil {
		return Order{}, err
	}
	draft := Order{
		UserID:        userID,
		Items:         req.Items,
		Shipping:      req.Shipping,
		TotalCents:    req.TotalCents,
		Status:        StatusProcessing,
		PaymentStatus: PaymentPending,
	}
	return s.Store.PlaceOrder(ctx, draft)
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return ValidationError{Msg: "order must contain at least one item"}
	}
	for _, it := range req.Items {
		if it.ProductID == "" {
			return ValidationError{Msg: "order item is missing a product id"}
		}
		if it.Quantity <= 0 {
			return ValidationError{Msg: "order item quantity must be positive"}
		}
	}
	addr := req.Shipping
	if addr.Street == "" || addr.City == "" || addr.State == "" || addr.Pincode == "" {
		return ValidationError{Msg: "shipping address requires street, city, state and pincode"}
	}
	if req.TotalCents <= 0 {
		return ValidationError{Msg: "total price must be positive"}
	}
	return nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (Order, error) {
	return s.Store.GetOrder(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.Store.ListByUser(ctx, userID)
}

// UpdateStatus advances an order's status. Delivered is terminal: once
// reached, every further transition fails. Setting delivered stamps
// DeliveredAt.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next Status) (Order, error) {
	if !ValidStatus(next) {
		return Order{}, ValidationError{Msg: "order status must be one of processing, shipped, delivered, cancelled"}
	}
	cur, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(cur.Status, next) {
		return Order{}, InvalidTransitionError{From: cur.Status, To: next}
	}
	var deliveredAt *time.Time
	if next == StatusDelivered {
		t := s.now()
		deliveredAt = &t
	}
	return s.Store.SetStatus(ctx, orderID, next, deliveredAt)
}

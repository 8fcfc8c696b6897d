package orders

type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

var validStatuses = map[Status]bool{
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

func ValidStatus(s Status) bool { return validStatuses[s] }

// Terminal reports whether no further transition is permitted from s.
// Only delivered is terminal; every other pair of statuses is a legal
// transition (cancelled orders may even be shipped again).
func Terminal(s Status) bool { return s == StatusDelivered }

func CanTransition(from, to Status) bool {
	return validStatuses[to] && !Terminal(from)
}

package catalog

import "time"

const (
	InStock    = "In Stock"
	OutOfStock = "Out of Stock"
)

// ComputeAvailability is the single source of truth for the availability
// label. Every stock mutation must write the value it returns; the label
// is never left to a schema default.
func ComputeAvailability(stockQuantity int) string {
	if stockQuantity > 0 {
		return InStock
	}
	return OutOfStock
}

type Specifications struct {
	Display   string `json:"Display,omitempty"`
	Processor string `json:"Processor,omitempty"`
	Camera    string `json:"Camera,omitempty"`
	Battery   string `json:"Battery,omitempty"`
	Storage   string `json:"Storage,omitempty"`
	RAM       string `json:"RAM,omitempty"`
}

// Product prices are integer cents.
type Product struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Brand         string         `json:"brand"`
	OriginalCents int            `json:"originalPrice"`
	OfferCents    int            `json:"offerPrice"`
	StockQuantity int            `json:"quantity"`
	Availability  string         `json:"availability"`
	Specs         Specifications `json:"specifications"`
	Description   string         `json:"description"`
	Image         string         `json:"image"`
	AverageRating float64        `json:"averageRating"`
	NumOfReviews  int            `json:"numOfReviews"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

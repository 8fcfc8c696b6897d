package redisx

import "time"

const (
	// Order status cache: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Product cache: product:{product_id} -> product JSON
	KeyProduct = "product:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache  = 5 * time.Minute
	TTLProductCache = 10 * time.Minute
	TTLDedup        = 48 * time.Hour
)

package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/mobilemart/storefront/internal/auth"
	"github.com/mobilemart/storefront/internal/catalog"
	kafkax "github.com/mobilemart/storefront/internal/kafka"
	"github.com/mobilemart/storefront/internal/orders"
	"github.com/mobilemart/storefront/internal/redisx"
	"github.com/mobilemart/storefront/internal/users"
)

type OrdersHandler struct {
	Service  *orders.Service
	Producer *kafkax.Producer // order.placed
	Redis    *redis.Client
	Cache    *catalog.Cache
	Name     string // producer name on event envelopes
}

func (h *OrdersHandler) Register(r *chi.Mux, mw *auth.Middleware) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(mw.RequireUser)
		r.Post("/", h.placeOrder)
		r.Get("/my", h.myOrders)
		r.Get("/{id}", h.getOrder)
	})
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	var req orders.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.PlaceOrder(ctx, u.ID, req)
	if err != nil {
		respondError(w, err)
		return
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, order.ID)
	_ = h.Redis.Set(ctx, statusKey, `{"status":"processing"}`, redisx.TTLStatusCache).Err()

	// the decrement changed stock and availability
	ids := make([]string, len(order.Items))
	for i, it := range order.Items {
		ids[i] = it.ProductID
	}
	h.Cache.Invalidate(ctx, ids...)

	ev := kafkax.NewEnvelope(orders.EventOrderPlaced, h.Name, r.Header.Get("X-Request-Id"), order.ID,
		orders.OrderPlacedPayload{
			OrderID:    order.ID,
			UserID:     order.UserID,
			Items:      order.Items,
			TotalCents: order.TotalCents,
		})
	h.Producer.Publish(orders.PartitionKey(order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "order": order})
}

func (h *OrdersHandler) myOrders(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Service.ListByUser(ctx, u.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(list), "orders": list})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Service.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if order.UserID != u.ID && u.Role != users.RoleAdmin {
		fail(w, http.StatusForbidden, "not your order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

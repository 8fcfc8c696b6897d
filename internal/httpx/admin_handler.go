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
	kafkax "github.com/mobilemart/storefront/internal/kafka"
	"github.com/mobilemart/storefront/internal/orders"
	"github.com/mobilemart/storefront/internal/redisx"
)

type AdminHandler struct {
	Service  *orders.Service
	Producer *kafkax.Producer // order.status.changed
	Redis    *redis.Client
	Name     string
}

func (h *AdminHandler) Register(r *chi.Mux, mw *auth.Middleware) {
	r.Route("/api/admin/orders", func(r chi.Router) {
		r.Use(mw.RequireUser, mw.RequireAdmin)
		r.Put("/{id}", h.updateStatus)
	})
}

func (h *AdminHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderStatus orders.Status `json:"orderStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.UpdateStatus(ctx, chi.URLParam(r, "id"), req.OrderStatus)
	if err != nil {
		respondError(w, err)
		return
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, order.ID)
	_ = h.Redis.Set(ctx, statusKey, fmt.Sprintf(`{"status":%q}`, order.Status), redisx.TTLStatusCache).Err()

	ev := kafkax.NewEnvelope(orders.EventOrderStatusChanged, h.Name, r.Header.Get("X-Request-Id"), order.ID,
		orders.OrderStatusChangedPayload{
			OrderID:     order.ID,
			NewStatus:   order.Status,
			DeliveredAt: order.DeliveredAt,
		})
	h.Producer.Publish(orders.PartitionKey(order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mobilemart/storefront/internal/auth"
	"github.com/mobilemart/storefront/internal/catalog"
)

// ReviewStore is what the review endpoints need from persistence;
// satisfied by catalog.Repo.
type ReviewStore interface {
	UpsertReview(ctx context.Context, productID string, rv catalog.Review) (catalog.RatingSummary, error)
	ListReviews(ctx context.Context, productID string) ([]catalog.Review, error)
}

type ProductsHandler struct {
	Repo    *catalog.Repo
	Cache   *catalog.Cache
	Reviews ReviewStore
}

func (h *ProductsHandler) Register(r *chi.Mux, mw *auth.Middleware) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/search", h.search)
		r.Post("/", h.create)
		r.Post("/batch", h.createBatch)
		r.With(mw.RequireUser, mw.RequireAdmin).Get("/", h.list)
		r.With(mw.RequireUser, mw.RequireAdmin).Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.With(mw.RequireUser).Put("/{id}/review", h.review)
		r.Get("/{id}/reviews", h.listReviews)
	})
}

func validProduct(p catalog.Product) (string, bool) {
	switch {
	case p.Name == "":
		return "product name is required", false
	case p.Brand == "":
		return "brand is required", false
	case p.OriginalCents <= 0 || p.OfferCents <= 0:
		return "prices must be positive", false
	case p.StockQuantity < 0:
		return "quantity cannot be negative", false
	case p.Description == "":
		return "description is required", false
	case p.Image == "":
		return "product image URL is required", false
	}
	return "", true
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg, ok := validProduct(p); !ok {
		fail(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	created, err := h.Repo.Create(ctx, p)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "product": created})
}

func (h *ProductsHandler) createBatch(w http.ResponseWriter, r *http.Request) {
	var ps []catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&ps); err != nil {
		fail(w, http.StatusBadRequest, "invalid data format, expected an array of products")
		return
	}
	if len(ps) == 0 {
		fail(w, http.StatusBadRequest, "product list is empty")
		return
	}
	for _, p := range ps {
		if msg, ok := validProduct(p); !ok {
			fail(w, http.StatusBadRequest, msg)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateBatch(ctx, ps)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(created), "products": created})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.List(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Cache.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	p.ID = chi.URLParam(r, "id")
	if msg, ok := validProduct(p); !ok {
		fail(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	updated, err := h.Repo.Update(ctx, p)
	if err != nil {
		respondError(w, err)
		return
	}
	h.Cache.Invalidate(ctx, p.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "product": updated})
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	deleted, err := h.Repo.Delete(ctx, id)
	if err != nil {
		respondError(w, err)
		return
	}
	h.Cache.Invalidate(ctx, id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "product": deleted})
}

func (h *ProductsHandler) search(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := catalog.SearchQuery{
		Text:     qs.Get("q"),
		Brand:    qs.Get("brand"),
		RAM:      qs.Get("ram"),
		Storage:  qs.Get("storage"),
		Battery:  qs.Get("battery"),
		MinCents: atoi(qs.Get("minPrice")),
		MaxCents: atoi(qs.Get("maxPrice")),
		Page:     atoi(qs.Get("page")),
		Limit:    atoi(qs.Get("limit")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Repo.Search(ctx, q)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ProductsHandler) review(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		fail(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	if strings.TrimSpace(req.Comment) == "" {
		fail(w, http.StatusBadRequest, "comment is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	sum, err := h.Reviews.UpsertReview(ctx, id, catalog.Review{
		UserID:   u.ID,
		UserName: u.Name,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.Cache.Invalidate(ctx, id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"averageRating": sum.AverageRating,
		"numOfReviews":  sum.NumOfReviews,
	})
}

func (h *ProductsHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	reviews, err := h.Reviews.ListReviews(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(reviews), "reviews": reviews})
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// Review is one buyer's rating of a product. UserName is a snapshot
// taken at review time; a user has at most one review per product and
// resubmitting replaces it.
type Review struct {
	UserID    string    `json:"user"`
	UserName  string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummary is the denormalized aggregate kept on the product row.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	NumOfReviews  int     `json:"numOfReviews"`
}

// UpsertReview writes the user's review and recomputes the product's
// average_rating and num_of_reviews in the same transaction, so the
// aggregate never drifts from the review rows.
func (r *Repo) UpsertReview(ctx context.Context, productID string, rv Review) (RatingSummary, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return RatingSummary{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists string
	err = tx.QueryRow(ctx, `SELECT id FROM products WHERE id=$1 FOR UPDATE`, productID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return RatingSummary{}, ErrNotFound
	}
	if err != nil {
		return RatingSummary{}, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO product_reviews(product_id, user_id, user_name, rating, comment)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET user_name=EXCLUDED.user_name, rating=EXCLUDED.rating,
			comment=EXCLUDED.comment, updated_at=now()`,
		productID, rv.UserID, rv.UserName, rv.Rating, rv.Comment,
	); err != nil {
		return RatingSummary{}, err
	}

	var sum RatingSummary
	if err := tx.QueryRow(ctx, `
		UPDATE products SET
			average_rating = agg.avg_rating,
			num_of_reviews = agg.review_count,
			updated_at = now()
		FROM (SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS review_count
			FROM product_reviews WHERE product_id=$1) AS agg
		WHERE id=$1
		RETURNING average_rating, num_of_reviews`,
		productID,
	).Scan(&sum.AverageRating, &sum.NumOfReviews); err != nil {
		return RatingSummary{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return RatingSummary{}, err
	}
	return sum, nil
}

// ListReviews returns a product's reviews, most recently updated first.
func (r *Repo) ListReviews(ctx context.Context, productID string) ([]Review, error) {
	var exists string
	err := r.DB.QueryRow(ctx, `SELECT id FROM products WHERE id=$1`, productID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT user_id, user_name, rating, comment, created_at, updated_at
		FROM product_reviews WHERE product_id=$1 ORDER BY updated_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, name, brand, original_cents, offer_cents, stock_quantity, availability,
	spec_display, spec_processor, spec_camera, spec_battery, spec_storage, spec_ram,
	description, image_url, average_rating, num_of_reviews, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.OriginalCents, &p.OfferCents, &p.StockQuantity, &p.Availability,
		&p.Specs.Display, &p.Specs.Processor, &p.Specs.Camera, &p.Specs.Battery, &p.Specs.Storage, &p.Specs.RAM,
		&p.Description, &p.Image, &p.AverageRating, &p.NumOfReviews, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *Repo) GetByID(ctx context.Context, id string) (Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, p Product) (Product, error) {
	p.ID = uuid.NewString()
	p.Availability = ComputeAvailability(p.StockQuantity)
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, brand, original_cents, offer_cents, stock_quantity, availability,
			spec_display, spec_processor, spec_camera, spec_battery, spec_storage, spec_ram,
			description, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Brand, p.OriginalCents, p.OfferCents, p.StockQuantity, p.Availability,
		p.Specs.Display, p.Specs.Processor, p.Specs.Camera, p.Specs.Battery, p.Specs.Storage, p.Specs.RAM,
		p.Description, p.Image,
	)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	return p, nil
}

// CreateBatch inserts all products in one transaction.
func (r *Repo) CreateBatch(ctx context.Context, ps []Product) ([]Product, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		p.ID = uuid.NewString()
		p.Availability = ComputeAvailability(p.StockQuantity)
		row := tx.QueryRow(ctx, `
			INSERT INTO products(id, name, brand, original_cents, offer_cents, stock_quantity, availability,
				spec_display, spec_processor, spec_camera, spec_battery, spec_storage, spec_ram,
				description, image_url)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			RETURNING created_at, updated_at`,
			p.ID, p.Name, p.Brand, p.OriginalCents, p.OfferCents, p.StockQuantity, p.Availability,
			p.Specs.Display, p.Specs.Processor, p.Specs.Camera, p.Specs.Battery, p.Specs.Storage, p.Specs.RAM,
			p.Description, p.Image,
		)
		if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, p Product) (Product, error) {
	p.Availability = ComputeAvailability(p.StockQuantity)
	row := r.DB.QueryRow(ctx, `
		UPDATE products SET name=$2, brand=$3, original_cents=$4, offer_cents=$5,
			stock_quantity=$6, availability=$7,
			spec_display=$8, spec_processor=$9, spec_camera=$10, spec_battery=$11, spec_storage=$12, spec_ram=$13,
			description=$14, image_url=$15, updated_at=now()
		WHERE id=$1
		RETURNING average_rating, num_of_reviews, created_at, updated_at`,
		p.ID, p.Name, p.Brand, p.OriginalCents, p.OfferCents, p.StockQuantity, p.Availability,
		p.Specs.Display, p.Specs.Processor, p.Specs.Camera, p.Specs.Battery, p.Specs.Storage, p.Specs.RAM,
		p.Description, p.Image,
	)
	err := row.Scan(&p.AverageRating, &p.NumOfReviews, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (Product, error) {
	row := r.DB.QueryRow(ctx, `DELETE FROM products WHERE id=$1 RETURNING `+productCols, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// Search counts all matches, then fetches one page.
func (r *Repo) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	q = q.Normalize()
	where, args := q.WhereClause()

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return SearchResult{}, err
	}

	offset := (q.Page - 1) * q.Limit
	pageArgs := append(args, q.Limit, offset)
	paging := fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products`+where+paging, pageArgs...)
	if err != nil {
		return SearchResult{}, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return SearchResult{}, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return SearchResult{}, err
	}

	return SearchResult{
		Page:       q.Page,
		Limit:      q.Limit,
		TotalFound: total,
		TotalPages: (total + q.Limit - 1) / q.Limit,
		Products:   products,
	}, nil
}

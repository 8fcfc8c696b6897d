package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, user_id, ship_street, ship_city, ship_state, ship_pincode,
	total_cents, payment_status, order_status, paid_at, delivered_at, created_at, updated_at`

// PlaceOrder runs the whole placement in one transaction: each product
// row is locked (FOR UPDATE), its stock checked and decremented with the
// availability label kept in step, then the order and its items are
// inserted. Any shortfall or missing product rolls the lot back, so a
// partial decrement is never visible and stock cannot go negative.
func (r *Repo) PlaceOrder(ctx context.Context, draft Order) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, it := range lockOrder(draft.Items) {
		var name string
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT name, stock_quantity FROM products WHERE id=$1 FOR UPDATE`,
			it.ProductID).Scan(&name, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, NotFoundError{Entity: "product"}
		}
		if err != nil {
			return Order{}, err
		}
		remaining, availability, err := applyDecrement(name, stock, it.Quantity)
		if err != nil {
			return Order{}, err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock_quantity=$2, availability=$3, updated_at=now() WHERE id=$1`,
			it.ProductID, remaining, availability); err != nil {
			return Order{}, err
		}
	}

	o := draft
	o.ID = uuid.NewString()
	row := tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, ship_street, ship_city, ship_state, ship_pincode,
			total_cents, payment_status, order_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.Shipping.Street, o.Shipping.City, o.Shipping.State, o.Shipping.Pincode,
		o.TotalCents, o.PaymentStatus, o.Status,
	)
	if err := row.Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}

	for i, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, line_no, product_id, name, image_url, unit_cents, quantity)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			uuid.NewString(), o.ID, i, it.ProductID, it.Name, it.Image, it.UnitCents, it.Quantity,
		); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) GetOrder(ctx context.Context, id string) (Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, NotFoundError{Entity: "order"}
	}
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.itemsFor(ctx, o.ID)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderCols+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items, err = r.itemsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetStatus applies a status change; the delivered guard is enforced in
// the UPDATE itself so a concurrent delivery cannot be overwritten.
func (r *Repo) SetStatus(ctx context.Context, id string, next Status, deliveredAt *time.Time) (Order, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE orders SET order_status=$2, delivered_at=COALESCE($3, delivered_at), updated_at=now()
		WHERE id=$1 AND order_status <> 'delivered'
		RETURNING `+orderCols,
		id, next, deliveredAt)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		cur, gerr := r.GetOrder(ctx, id)
		if gerr != nil {
			return Order{}, gerr
		}
		return Order{}, InvalidTransitionError{From: cur.Status, To: next}
	}
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.itemsFor(ctx, o.ID)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) itemsFor(ctx context.Context, orderID string) ([]LineItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, name, image_url, unit_cents, quantity
		FROM order_items WHERE order_id=$1 ORDER BY line_no`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Image, &it.UnitCents, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Shipping.Street, &o.Shipping.City, &o.Shipping.State, &o.Shipping.Pincode,
		&o.TotalCents, &o.PaymentStatus, &o.Status, &o.PaidAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

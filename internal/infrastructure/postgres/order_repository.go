package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/domain/repository"
)

const orderSelect = `
	SELECT o.id, o.user_id, o.items, o.total_price, o.status, o.order_date,
		o.shipping_address, o.payment_method, o.payment_status, o.shipping_cost,
		o.tracking_number, o.notes, COALESCE(u.name, ''), COALESCE(u.email, '')
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id`

// OrderRepository stores line items as a JSONB array owned by the order row.
type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	o := &entity.Order{}
	var (
		items                   []byte
		status, method, payment string
		ownerName, ownerEmail   string
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.TotalPrice, &status, &o.OrderDate,
		&o.ShippingAddress, &method, &payment, &o.ShippingCost,
		&o.TrackingNumber, &o.Notes, &ownerName, &ownerEmail); err != nil {
		return nil, mapErr(err)
	}
	o.Status = entity.OrderStatus(status)
	o.PaymentMethod = entity.PaymentMethod(method)
	o.PaymentStatus = entity.PaymentStatus(payment)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if ownerEmail != "" {
		o.User = &entity.OrderUser{ID: o.UserID, Name: ownerName, Email: ownerEmail}
	}
	return o, nil
}

// encodeItems drops the read-side product population before storing.
func encodeItems(items []entity.OrderItem) ([]byte, error) {
	stored := make([]entity.OrderItem, len(items))
	for i, it := range items {
		it.Product = nil
		stored[i] = it
	}
	return json.Marshal(stored)
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	items, err := encodeItems(o.Items)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO orders (id, user_id, items, total_price, status, order_date, shipping_address,
			payment_method, payment_status, shipping_cost, tracking_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, o.ID, o.UserID, items, o.TotalPrice, string(o.Status), o.OrderDate, o.ShippingAddress,
		string(o.PaymentMethod), string(o.PaymentStatus), o.ShippingCost, o.TrackingNumber, o.Notes)
	return mapErr(err)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, err
	}
	orders := []entity.Order{*o}
	if err := r.populateProducts(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	orders, err := r.list(ctx, orderSelect+` WHERE o.user_id = $1 ORDER BY o.order_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].User = nil
	}
	return orders, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	return r.list(ctx, orderSelect+` ORDER BY o.order_date DESC`)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	orders := []entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, *o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.populateProducts(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// populateProducts attaches a current summary of each referenced product.
// Items whose product was deleted keep only their snapshot.
func (r *OrderRepository) populateProducts(ctx context.Context, orders []entity.Order) error {
	var refs []string
	for _, o := range orders {
		for _, it := range o.Items {
			refs = append(refs, it.ProductID)
		}
	}
	ids := canonicalIDs(refs)
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, thumbnail, regular_price, sale_price
		FROM products
		WHERE id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	summaries := make(map[string]*entity.ProductSummary, len(ids))
	for rows.Next() {
		var (
			s       entity.ProductSummary
			thumb   []byte
			regular decimal.Decimal
			sale    decimal.NullDecimal
		)
		if err := rows.Scan(&s.ID, &s.Name, &thumb, &regular, &sale); err != nil {
			return err
		}
		s.Price = entity.Price{Regular: regular, Sale: sale}.Effective()
		if len(thumb) > 0 && string(thumb) != "null" {
			var img entity.Image
			if err := json.Unmarshal(thumb, &img); err == nil {
				s.Thumbnail = img.URL
			}
		}
		summaries[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range orders {
		for j := range orders[i].Items {
			if id, ok := canonicalID(orders[i].Items[j].ProductID); ok {
				orders[i].Items[j].Product = summaries[id]
			}
		}
	}
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return nil, mapErr(err)
	}
	if err := affected(tag); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

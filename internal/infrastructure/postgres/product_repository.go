package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/domain/repository"
)

const productSelect = `
	SELECT p.id, p.name, p.slug, COALESCE(p.category_id::text, ''), COALESCE(c.name, ''),
		p.brand, p.description, p.regular_price, p.sale_price, p.discount_percentage,
		p.stock_quantity, p.stock_status, p.thumbnail, p.images, p.specifications, p.features,
		p.ratings, p.num_of_reviews, p.is_new, p.is_featured, p.is_weekly_deal,
		p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	var (
		stockStatus                    string
		thumb, images, specs, features []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.CategoryID, &p.CategoryName,
		&p.Brand, &p.Description, &p.Price.Regular, &p.Price.Sale, &p.Price.DiscountPercentage,
		&p.Stock.Quantity, &stockStatus, &thumb, &images, &specs, &features,
		&p.Ratings, &p.NumOfReviews, &p.Flags.IsNew, &p.Flags.IsFeatured, &p.Flags.IsWeeklyDeal,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	p.Stock.Status = entity.StockStatus(stockStatus)
	if len(thumb) > 0 && string(thumb) != "null" {
		p.Thumbnail = &entity.Image{}
		if err := json.Unmarshal(thumb, p.Thumbnail); err != nil {
			return nil, fmt.Errorf("decode thumbnail: %w", err)
		}
	}
	if err := unmarshalOr(images, &p.Images, []entity.Image{}); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specifications); err != nil {
			return nil, fmt.Errorf("decode specifications: %w", err)
		}
	}
	if err := unmarshalOr(features, &p.Features, []string{}); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	return p, nil
}

// unmarshalOr decodes b into dst, leaving def when b is empty or null.
func unmarshalOr[T any](b []byte, dst *[]T, def []T) error {
	*dst = def
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = def
	}
	return nil
}

// productArgs returns the column values shared by insert and update, starting at $2.
func productArgs(p *entity.Product) ([]any, error) {
	var thumb []byte
	if p.Thumbnail != nil {
		b, err := json.Marshal(p.Thumbnail)
		if err != nil {
			return nil, err
		}
		thumb = b
	}
	images, err := json.Marshal(nonNil(p.Images))
	if err != nil {
		return nil, err
	}
	specs, err := json.Marshal(p.Specifications)
	if err != nil {
		return nil, err
	}
	features, err := json.Marshal(nonNil(p.Features))
	if err != nil {
		return nil, err
	}
	return []any{
		p.Name, p.Slug, nullable(p.CategoryID), p.Brand, p.Description,
		p.Price.Regular, p.Price.Sale, p.Price.DiscountPercentage,
		p.Stock.Quantity, string(p.Stock.Status), thumb, images, specs, features,
		p.Ratings, p.NumOfReviews, p.Flags.IsNew, p.Flags.IsFeatured, p.Flags.IsWeeklyDeal,
		p.UpdatedAt,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	args = append([]any{p.ID}, args...)
	args = append(args, p.CreatedAt)
	_, err = r.db.Exec(ctx, `
		INSERT INTO products (id, name, slug, category_id, brand, description,
			regular_price, sale_price, discount_percentage, stock_quantity, stock_status,
			thumbnail, images, specifications, features, ratings, num_of_reviews,
			is_new, is_featured, is_weekly_deal, updated_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`, args...)
	return mapErr(err)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	canonical := canonicalIDs(ids)
	if len(canonical) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, productSelect+` WHERE p.id = ANY($1::uuid[])`, canonical)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

var productSortColumns = map[repository.ProductSortField]string{
	repository.SortByCreatedAt: "p.created_at",
	repository.SortByPrice:     "p.regular_price",
	repository.SortByName:      "lower(p.name)",
	repository.SortByRatings:   "p.ratings",
}

// productWhere renders f as a parameterized WHERE clause.
func productWhere(f repository.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CategoryID != "" {
		add("p.category_id::text = $%d", f.CategoryID)
	}
	if f.Brand != "" {
		add("lower(p.brand) = lower($%d)", f.Brand)
	}
	if f.PriceMin.Valid {
		add("p.regular_price >= $%d", f.PriceMin.Decimal)
	}
	if f.PriceMax.Valid {
		add("p.regular_price <= $%d", f.PriceMax.Decimal)
	}
	if f.InStock {
		add("p.stock_status = $%d", string(entity.StockInStock))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func productOrder(s repository.ProductSort) string {
	col, ok := productSortColumns[s.Field]
	if !ok {
		col = productSortColumns[repository.SortByCreatedAt]
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	// id breaks ties so pages never overlap
	return " ORDER BY " + col + " " + dir + ", p.id " + dir
}

func (r *ProductRepository) List(ctx context.Context, f repository.ProductFilter) ([]entity.Product, int, error) {
	f = f.Normalized()
	where, args := productWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}
	out := []entity.Product{}
	if total == 0 || f.Offset() >= total {
		return out, total, nil
	}

	n := len(args)
	query := productSelect + where + productOrder(f.Sort) + fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.Offset())...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	args = append([]any{p.ID}, args...)
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, slug = $3, category_id = $4, brand = $5, description = $6,
			regular_price = $7, sale_price = $8, discount_percentage = $9,
			stock_quantity = $10, stock_status = $11, thumbnail = $12, images = $13,
			specifications = $14, features = $15, ratings = $16, num_of_reviews = $17,
			is_new = $18, is_featured = $19, is_weekly_deal = $20, updated_at = $21
		WHERE id = $1
	`, args...)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

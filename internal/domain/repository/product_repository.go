package repository

import (
	"context"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs returns the products that exist, keyed by id.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	// List returns one page of products matching f and the total match count.
	List(ctx context.Context, f ProductFilter) ([]entity.Product, int, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// NameTaken reports whether another category (not excludeID) uses name, ignoring case.
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id string) error
}

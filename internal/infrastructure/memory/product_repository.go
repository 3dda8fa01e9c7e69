package memory

import (
	"cmp"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	repo "github.com/oksasatya/shop-admin/internal/domain/repository"
)

type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]entity.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: map[string]entity.Product{}}
}

func cloneProduct(p entity.Product) entity.Product {
	p.Images = append([]entity.Image(nil), p.Images...)
	p.Features = append([]string(nil), p.Features...)
	if p.Thumbnail != nil {
		t := *p.Thumbnail
		p.Thumbnail = &t
	}
	return p
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.Slug == p.Slug {
			return repo.ErrDuplicate
		}
	}
	r.products[p.ID] = cloneProduct(*p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := cloneProduct(p)
	return &c, nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			c := cloneProduct(p)
			out[id] = &c
		}
	}
	return out, nil
}

func (r *ProductRepo) List(_ context.Context, f repo.ProductFilter) ([]entity.Product, int, error) {
	f = f.Normalized()
	r.mu.RLock()
	matched := make([]entity.Product, 0, len(r.products))
	for _, p := range r.products {
		if productMatches(p, f) {
			matched = append(matched, cloneProduct(p))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if f.Sort.Desc {
			a, b = b, a
		}
		if c := compareProducts(a, b, f.Sort.Field); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	total := len(matched)
	start := f.Offset()
	if start >= total {
		return []entity.Product{}, total, nil
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func productMatches(p entity.Product, f repo.ProductFilter) bool {
	switch {
	case f.CategoryID != "" && p.CategoryID != f.CategoryID:
		return false
	case f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand):
		return false
	case f.PriceMin.Valid && p.Price.Regular.LessThan(f.PriceMin.Decimal):
		return false
	case f.PriceMax.Valid && p.Price.Regular.GreaterThan(f.PriceMax.Decimal):
		return false
	case f.InStock && p.Stock.Status != entity.StockInStock:
		return false
	}
	return true
}

func compareProducts(a, b entity.Product, field repo.ProductSortField) int {
	switch field {
	case repo.SortByPrice:
		return a.Price.Regular.Cmp(b.Price.Regular)
	case repo.SortByName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case repo.SortByRatings:
		return cmp.Compare(a.Ratings, b.Ratings)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	r.products[p.ID] = cloneProduct(*p)
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type CategoryRepo struct {
	mu         sync.RWMutex
	categories map[string]entity.Category
}

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{categories: map[string]entity.Category{}}
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(c.Name, "") {
		return repo.ErrDuplicate
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (r *CategoryRepo) NameTaken(_ context.Context, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.taken(name, excludeID), nil
}

func (r *CategoryRepo) taken(name, excludeID string) bool {
	for id, c := range r.categories {
		if id != excludeID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *CategoryRepo) List(_ context.Context) ([]entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return repo.ErrNotFound
	}
	if r.taken(c.Name, c.ID) {
		return repo.ErrDuplicate
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

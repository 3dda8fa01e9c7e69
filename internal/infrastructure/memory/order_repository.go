package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	repo "github.com/oksasatya/shop-admin/internal/domain/repository"
)

// OrderRepo populates owners and products from the sibling repositories,
// mirroring the joins of the SQL implementation.
type OrderRepo struct {
	mu       sync.RWMutex
	orders   map[string]entity.Order
	users    *UserRepo
	products *ProductRepo
}

func NewOrderRepo(users *UserRepo, products *ProductRepo) *OrderRepo {
	return &OrderRepo{orders: map[string]entity.Order{}, users: users, products: products}
}

func cloneOrder(o entity.Order) entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	o.User = nil
	return o
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.RLock()
	o, ok := r.orders[id]
	r.mu.RUnlock()
	if !ok {
		return nil, repo.ErrNotFound
	}
	o = r.populate(ctx, cloneOrder(o), true)
	return &o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return r.list(ctx, func(o entity.Order) bool { return o.UserID == userID }, false), nil
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]entity.Order, error) {
	return r.list(ctx, func(entity.Order) bool { return true }, true), nil
}

func (r *OrderRepo) list(ctx context.Context, keep func(entity.Order) bool, withUser bool) []entity.Order {
	r.mu.RLock()
	out := make([]entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	for i := range out {
		out[i] = r.populate(ctx, out[i], withUser)
	}
	return out
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	r.mu.Lock()
	o, ok := r.orders[id]
	if !ok {
		r.mu.Unlock()
		return nil, repo.ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	r.mu.Unlock()
	o = r.populate(ctx, cloneOrder(o), true)
	return &o, nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *OrderRepo) populate(ctx context.Context, o entity.Order, withUser bool) entity.Order {
	if withUser && r.users != nil {
		if u, err := r.users.GetByID(ctx, o.UserID); err == nil {
			o.User = &entity.OrderUser{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	if r.products == nil {
		return o
	}
	for i, it := range o.Items {
		p, err := r.products.GetByID(ctx, it.ProductID)
		if err != nil {
			continue
		}
		sum := &entity.ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price.Effective()}
		if p.Thumbnail != nil {
			sum.Thumbnail = p.Thumbnail.URL
		}
		o.Items[i].Product = sum
	}
	return o
}

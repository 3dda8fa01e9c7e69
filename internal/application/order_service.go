package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	repo "github.com/oksasatya/shop-admin/internal/domain/repository"
)

// OrderNotifier tells a customer their order moved. Failures are logged only.
type OrderNotifier interface {
	OrderStatusChanged(ctx context.Context, o *entity.Order, to entity.OrderUser) error
}

// OrderMetrics receives order workflow events.
type OrderMetrics interface {
	OrderCreated()
	OrderStatusChanged(status entity.OrderStatus)
}

type OrderService struct {
	Orders   repo.OrderRepository
	Products repo.ProductRepository
	Users    repo.UserRepository
	Notifier OrderNotifier
	Metrics  OrderMetrics
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewOrderService(orders repo.OrderRepository, products repo.ProductRepository, users repo.UserRepository, notifier OrderNotifier, metrics OrderMetrics, logger *logrus.Logger) *OrderService {
	return &OrderService{
		Orders:   orders,
		Products: products,
		Users:    users,
		Notifier: notifier,
		Metrics:  metrics,
		Logger:   logger,
		Now:      time.Now,
	}
}

type OrderItemInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress string
	PaymentMethod   string
}

// Create snapshots each product's name and effective price into the order.
// Nothing is written when any product is missing.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return nil, fmt.Errorf("%w: shipping address is required", ErrValidation)
	}
	method := entity.PaymentMethod(strings.ToLower(strings.TrimSpace(in.PaymentMethod)))
	if method == "" {
		method = entity.PaymentCash
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		ids = append(ids, canonicalProductID(it.ProductID))
	}
	products, err := s.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p, ok := products[canonicalProductID(it.ProductID)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
		}
		items = append(items, entity.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			Price:       p.Price.Effective(),
		})
	}

	o := &entity.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		TotalPrice:      entity.TotalOf(items),
		Status:          entity.OrderPending,
		OrderDate:       s.Now(),
		ShippingAddress: address,
		PaymentMethod:   method,
		PaymentStatus:   entity.PaymentPending,
		ShippingCost:    decimal.Zero,
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.OrderCreated()
	}
	s.Logger.WithFields(logrus.Fields{"order_id": o.ID, "user_id": userID, "total": o.TotalPrice.StringFixed(2)}).Info("order created")
	return o, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]entity.Order, error) {
	return s.Orders.ListAll(ctx)
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, mapOrderErr(err)
	}
	return o, nil
}

// SetStatus validates status before touching storage, so an unknown value
// leaves the order as it was.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	st, ok := entity.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	o, err := s.Orders.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, mapOrderErr(err)
	}
	if s.Metrics != nil {
		s.Metrics.OrderStatusChanged(st)
	}
	s.Logger.WithFields(logrus.Fields{"order_id": o.ID, "status": st}).Info("order status updated")
	s.notify(ctx, o)
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.Orders.Delete(ctx, id); err != nil {
		return mapOrderErr(err)
	}
	return nil
}

func (s *OrderService) notify(ctx context.Context, o *entity.Order) {
	if s.Notifier == nil {
		return
	}
	var to entity.OrderUser
	if o.User != nil {
		to = *o.User
	} else {
		u, err := s.Users.GetByID(ctx, o.UserID)
		if err != nil {
			s.Logger.WithError(err).WithField("order_id", o.ID).Warn("order owner lookup failed; notification skipped")
			return
		}
		to = entity.OrderUser{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	if err := s.Notifier.OrderStatusChanged(ctx, o, to); err != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID).Warn("order status notification failed")
	}
}

// canonicalProductID lowercases uuid references to the form products are stored
// under. Anything that is not a uuid is looked up as given.
func canonicalProductID(ref string) string {
	if id, err := uuid.Parse(strings.TrimSpace(ref)); err == nil {
		return id.String()
	}
	return ref
}

func mapOrderErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}

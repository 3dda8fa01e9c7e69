package postgres

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/domain/repository"
)

var orderCols = []string{"id", "user_id", "items", "total_price", "status", "order_date",
	"shipping_address", "payment_method", "payment_status", "shipping_cost",
	"tracking_number", "notes", "name", "email"}

var summaryCols = []string{"id", "name", "thumbnail", "regular_price", "sale_price"}

func itemsJSON(t *testing.T, items ...entity.OrderItem) []byte {
	t.Helper()
	b, err := json.Marshal(items)
	require.NoError(t, err)
	return b
}

func TestOrderRepository_CreateStripsProducts(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	o := &entity.Order{
		ID: "o-1", UserID: "u-1", Status: entity.OrderPending, OrderDate: time.Now(),
		PaymentMethod: entity.PaymentCash, PaymentStatus: entity.PaymentPending,
		TotalPrice: decimal.RequireFromString("40"), ShippingAddress: "1 Main St",
		Items: []entity.OrderItem{{
			ProductID: "p-1", ProductName: "Speaker", Quantity: 2, Price: decimal.RequireFromString("20"),
			Product: &entity.ProductSummary{ID: "p-1", Name: "Speaker"},
		}},
	}
	stored, err := encodeItems(o.Items)
	require.NoError(t, err)
	assert.NotContains(t, string(stored), `"product":`)

	mock.ExpectExec("INSERT INTO orders").
		WithArgs("o-1", "u-1", stored, pgxmock.AnyArg(), "pending", pgxmock.AnyArg(), "1 Main St",
			"cash", "pending", pgxmock.AnyArg(), "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), o))
}

const speakerID = "0b8e4b8e-3c2a-4f7e-9d3b-2f9a1c7e5d10"

func TestOrderRepository_ListAllPopulates(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	now := time.Now()
	// stored in upper case; the uuid column scans back lower case
	items := itemsJSON(t, entity.OrderItem{ProductID: strings.ToUpper(speakerID), ProductName: "Speaker", Quantity: 2, Price: decimal.RequireFromString("10")})

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY o.order_date DESC")).
		WillReturnRows(pgxmock.NewRows(orderCols).AddRow(
			"o-1", "u-1", items, decimal.RequireFromString("20"), "shipped", now,
			"1 Main St", "card", "paid", decimal.Zero, "TRK1", "", "Ann", "a@x.io",
		))
	mock.ExpectQuery(regexp.QuoteMeta("FROM products")).
		WithArgs([]string{speakerID}).
		WillReturnRows(pgxmock.NewRows(summaryCols).AddRow(
			speakerID, "Speaker v2", []byte(`{"public_id":"x","url":"https://cdn/x.png"}`),
			decimal.RequireFromString("12"), decimal.NewNullDecimal(decimal.RequireFromString("9")),
		))

	orders, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, entity.OrderShipped, o.Status)
	assert.Equal(t, entity.PaymentCard, o.PaymentMethod)
	require.NotNil(t, o.User)
	assert.Equal(t, "a@x.io", o.User.Email)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Speaker", o.Items[0].ProductName)
	require.NotNil(t, o.Items[0].Product)
	assert.Equal(t, "Speaker v2", o.Items[0].Product.Name)
	assert.Equal(t, "https://cdn/x.png", o.Items[0].Product.Thumbnail)
	assert.Equal(t, "9.00", o.Items[0].Product.Price.StringFixed(2))
	assert.Equal(t, "10.00", o.Items[0].Price.StringFixed(2))
}

func TestOrderRepository_UpdateStatusMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $2 WHERE id = $1")).
		WithArgs("o-x", "confirmed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := repo.UpdateStatus(context.Background(), "o-x", entity.OrderConfirmed)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOrderRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = $1")).
		WithArgs("o-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = $1")).
		WithArgs("o-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), "o-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "o-1"), repository.ErrNotFound)
}

func TestOrderRepository_MalformedProductRefSkipsLookup(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	items := itemsJSON(t, entity.OrderItem{ProductID: "legacy-1", ProductName: "Cable", Quantity: 1, Price: decimal.RequireFromString("5")})

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY o.order_date DESC")).
		WillReturnRows(pgxmock.NewRows(orderCols).AddRow(
			"o-2", "u-1", items, decimal.RequireFromString("5"), "pending", time.Now(),
			"1 Main St", "cash", "pending", decimal.Zero, "", "", "Ann", "a@x.io",
		))

	orders, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Nil(t, orders[0].Items[0].Product)
	assert.Equal(t, "Cable", orders[0].Items[0].ProductName)
}

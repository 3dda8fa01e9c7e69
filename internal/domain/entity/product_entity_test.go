package entity

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockStatusFor(t *testing.T) {
	cases := []struct {
		qty  int
		want StockStatus
	}{
		{0, StockOutOfStock},
		{1, StockLowStock},
		{9, StockLowStock},
		{10, StockInStock},
		{250, StockInStock},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StockStatusFor(tc.qty), "qty=%d", tc.qty)
	}
}

func TestSetQuantityRederivesStatus(t *testing.T) {
	p := &Product{}
	p.SetQuantity(12)
	assert.Equal(t, StockInStock, p.Stock.Status)
	p.SetQuantity(3)
	assert.Equal(t, StockLowStock, p.Stock.Status)
	p.SetQuantity(0)
	assert.Equal(t, StockOutOfStock, p.Stock.Status)
}

func TestPriceEffectiveAndDiscount(t *testing.T) {
	p := &Product{}
	p.SetPrice(decimal.RequireFromString("25.00"), decimal.NewNullDecimal(decimal.RequireFromString("20.00")))
	assert.True(t, p.Price.Effective().Equal(decimal.RequireFromString("20")))
	assert.Equal(t, 20, p.Price.DiscountPercentage)

	p.SetPrice(decimal.RequireFromString("10.00"), decimal.NullDecimal{})
	assert.True(t, p.Price.Effective().Equal(decimal.RequireFromString("10")))
	assert.Equal(t, 0, p.Price.DiscountPercentage)

	// zero sale is treated as no sale
	p.SetPrice(decimal.RequireFromString("10.00"), decimal.NewNullDecimal(decimal.Zero))
	assert.True(t, p.Price.Effective().Equal(decimal.RequireFromString("10")))
}

func TestDiscountPercentRounds(t *testing.T) {
	got := DiscountPercent(decimal.RequireFromString("30"), decimal.NewNullDecimal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 33, got)
}

func TestSlugify(t *testing.T) {
	s := Slugify("Bass Boost Headphones X!")
	assert.True(t, strings.HasPrefix(s, "bass-boost-headphones-x-"), s)
	assert.NotEqual(t, s, Slugify("Bass Boost Headphones X!"))
}

func TestRemoteImagesIncludesThumbnail(t *testing.T) {
	p := &Product{
		Thumbnail: &Image{PublicID: "products/t.png", URL: "u0"},
		Images:    []Image{{PublicID: "products/a.png", URL: "u1"}},
	}
	imgs := p.RemoteImages()
	assert.Len(t, imgs, 2)
	assert.Equal(t, "products/t.png", imgs[0].PublicID)
}

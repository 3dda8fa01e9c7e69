package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockLowStock   StockStatus = "low_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

// LowStockThreshold is the quantity under which a product counts as low stock.
const LowStockThreshold = 10

// StockStatusFor derives the stock status from a quantity.
func StockStatusFor(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity < LowStockThreshold:
		return StockLowStock
	default:
		return StockInStock
	}
}

// Image is a remote asset. PublicID is the object name inside the image store.
type Image struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type Price struct {
	Regular            decimal.Decimal     `json:"regular"`
	Sale               decimal.NullDecimal `json:"sale"`
	DiscountPercentage int                 `json:"discount_percentage"`
}

// Effective is the unit price charged at checkout: sale when set and non-zero, else regular.
func (p Price) Effective() decimal.Decimal {
	if p.Sale.Valid && !p.Sale.Decimal.IsZero() {
		return p.Sale.Decimal
	}
	return p.Regular
}

// DiscountPercent returns round((regular-sale)/regular*100), or 0 without a sale price.
func DiscountPercent(regular decimal.Decimal, sale decimal.NullDecimal) int {
	if !sale.Valid || sale.Decimal.IsZero() || !regular.IsPositive() {
		return 0
	}
	pct := regular.Sub(sale.Decimal).Div(regular).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}

type Stock struct {
	Quantity int         `json:"quantity"`
	Status   StockStatus `json:"status"`
}

type Specifications struct {
	Dimensions       string `json:"dimensions,omitempty"`
	Weight           string `json:"weight,omitempty"`
	BluetoothVersion string `json:"bluetooth_version,omitempty"`
	BatteryLife      string `json:"battery_life,omitempty"`
	WaterproofRating string `json:"waterproof_rating,omitempty"`
}

type Flags struct {
	IsNew        bool `json:"isNew"`
	IsFeatured   bool `json:"isFeatured"`
	IsWeeklyDeal bool `json:"isWeeklyDeal"`
}

type Product struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	CategoryID     string         `json:"category"`
	CategoryName   string         `json:"category_name,omitempty"`
	Brand          string         `json:"brand"`
	Description    string         `json:"description"`
	Price          Price          `json:"price"`
	Stock          Stock          `json:"stock"`
	Thumbnail      *Image         `json:"thumbnail,omitempty"`
	Images         []Image        `json:"images"`
	Specifications Specifications `json:"specifications"`
	Features       []string       `json:"features"`
	Ratings        float64        `json:"ratings"`
	NumOfReviews   int            `json:"numOfReviews"`
	Flags          Flags          `json:"flags"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SetQuantity is the only way stock changes; it keeps Status derived.
func (p *Product) SetQuantity(q int) {
	p.Stock.Quantity = q
	p.Stock.Status = StockStatusFor(q)
}

// SetPrice updates regular/sale and re-derives the discount.
func (p *Product) SetPrice(regular decimal.Decimal, sale decimal.NullDecimal) {
	p.Price.Regular = regular
	p.Price.Sale = sale
	p.Price.DiscountPercentage = DiscountPercent(regular, sale)
}

// RemoteImages lists every stored asset, thumbnail first.
func (p *Product) RemoteImages() []Image {
	out := make([]Image, 0, len(p.Images)+1)
	if p.Thumbnail != nil && p.Thumbnail.PublicID != "" {
		out = append(out, *p.Thumbnail)
	}
	return append(out, p.Images...)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds a unique slug from a product name.
func Slugify(name string) string {
	base := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// ProductSummary is the slice of a product shown next to order items.
type ProductSummary struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	Price     decimal.Decimal `json:"price"`
}

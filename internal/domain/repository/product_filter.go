package repository

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultProductPageSize = 10
	MaxProductPageSize     = 100
)

// ProductSortField is the whitelist of orderings a product list accepts.
type ProductSortField string

const (
	SortByCreatedAt ProductSortField = "createdAt"
	SortByPrice     ProductSortField = "price"
	SortByName      ProductSortField = "name"
	SortByRatings   ProductSortField = "ratings"
)

var sortAliases = map[string]ProductSortField{
	"createdAt":     SortByCreatedAt,
	"created_at":    SortByCreatedAt,
	"price":         SortByPrice,
	"price.regular": SortByPrice,
	"name":          SortByName,
	"ratings":       SortByRatings,
}

type ProductSort struct {
	Field ProductSortField
	Desc  bool
}

// ParseProductSort reads "field" or "-field" (descending). Empty means newest first.
func ParseProductSort(s string) (ProductSort, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ProductSort{Field: SortByCreatedAt, Desc: true}, true
	}
	desc := strings.HasPrefix(s, "-")
	field, ok := sortAliases[strings.TrimPrefix(s, "-")]
	if !ok {
		return ProductSort{}, false
	}
	return ProductSort{Field: field, Desc: desc}, true
}

// ProductFilter narrows and pages a product list. Zero values do not filter.
type ProductFilter struct {
	CategoryID string
	Brand      string // case-insensitive exact match
	PriceMin   decimal.NullDecimal
	PriceMax   decimal.NullDecimal // bounds apply to the regular price
	InStock    bool
	Sort       ProductSort
	Page       int
	Limit      int
}

// Normalized clamps paging and fills the default sort.
func (f ProductFilter) Normalized() ProductFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultProductPageSize
	}
	if f.Limit > MaxProductPageSize {
		f.Limit = MaxProductPageSize
	}
	if f.Sort.Field == "" {
		f.Sort = ProductSort{Field: SortByCreatedAt, Desc: true}
	}
	f.Brand = strings.TrimSpace(f.Brand)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	return f
}

func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

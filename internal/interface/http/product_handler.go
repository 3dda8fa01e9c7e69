package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/domain/repository"
	"github.com/oksasatya/shop-admin/pkg/helpers"
	"github.com/oksasatya/shop-admin/pkg/response"
)

type ProductHandler struct {
	Svc     *application.CatalogService
	Errors  *ErrorWriter
	TempDir string
}

func NewProductHandler(svc *application.CatalogService, errs *ErrorWriter, tempDir string) *ProductHandler {
	return &ProductHandler{Svc: svc, Errors: errs, TempDir: tempDir}
}

func (h *ProductHandler) Create(c *gin.Context) {
	h.save(c, "", entity.Flags{IsNew: true})
}

func (h *ProductHandler) Update(c *gin.Context) {
	current, err := h.Svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	h.save(c, current.ID, current.Flags)
}

// save handles create when id is empty and partial update otherwise.
func (h *ProductHandler) save(c *gin.Context, id string, flags entity.Flags) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, (helpers.MaxProductImage+1)*helpers.MaxUploadSize)
	uploads, err := helpers.SaveTempUploads(c, h.TempDir)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	defer uploads.Cleanup()

	in, err := productInputFromForm(c, flags)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	in.Thumbnail = uploads.Thumbnail
	in.Images = uploads.Images

	var p *entity.Product
	if id == "" {
		p, err = h.Svc.CreateProduct(c.Request.Context(), in)
	} else {
		p, err = h.Svc.UpdateProduct(c.Request.Context(), id, in)
	}
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	if id == "" {
		response.Success(c, http.StatusCreated, p, "product created", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "product updated", nil)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "product deleted", nil)
}

// List serves one filtered page; paging totals go in meta.
func (h *ProductHandler) List(c *gin.Context) {
	f, err := productFilterFromQuery(c)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	page, err := h.Svc.ListProducts(c.Request.Context(), f)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, page.Items, "products", gin.H{
		"count":       len(page.Items),
		"total":       page.Total,
		"currentPage": page.CurrentPage,
		"totalPages":  page.TotalPages,
		"limit":       page.Limit,
	})
}

func productFilterFromQuery(c *gin.Context) (repository.ProductFilter, error) {
	f := repository.ProductFilter{
		CategoryID: c.Query("category"),
		Brand:      c.Query("brand"),
		InStock:    c.Query("inStock") == "true",
	}
	var err error
	if f.Page, err = queryInt(c, "page"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		return f, err
	}
	sort, ok := repository.ParseProductSort(c.Query("sort"))
	if !ok {
		return f, invalidField("sort", "must be one of createdAt, price, name, ratings with optional '-' prefix")
	}
	f.Sort = sort
	if f.PriceMin, err = queryDecimal(c, "priceMin"); err != nil {
		return f, err
	}
	if f.PriceMax, err = queryDecimal(c, "priceMax"); err != nil {
		return f, err
	}
	return f, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, invalidField(key, "must be a positive integer")
	}
	return n, nil
}

func queryDecimal(c *gin.Context, key string) (decimal.NullDecimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}, invalidField(key, "must be a non-negative number")
	}
	return decimal.NewNullDecimal(d), nil
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

func (h *ProductHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	products, err := h.Svc.SearchProducts(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, products, "products", gin.H{"count": len(products), "q": c.Query("q")})
}

// productInputFromForm reads form fields; absent fields stay nil so updates
// leave them unchanged. An empty sale_price clears the sale.
func productInputFromForm(c *gin.Context, flags entity.Flags) (application.ProductInput, error) {
	var in application.ProductInput
	if v, ok := c.GetPostForm("name"); ok {
		in.Name = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		in.CategoryID = &v
	}
	if v, ok := c.GetPostForm("brand"); ok {
		in.Brand = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		in.Description = &v
	}
	if v, ok := c.GetPostForm("regular_price"); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return in, invalidField("regular_price", "must be a number")
		}
		in.RegularPrice = &d
	}
	if v, ok := c.GetPostForm("sale_price"); ok {
		var sale decimal.NullDecimal
		if v = strings.TrimSpace(v); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return in, invalidField("sale_price", "must be a number")
			}
			sale = decimal.NewNullDecimal(d)
		}
		in.SalePrice = &sale
	}
	if v, ok := c.GetPostForm("quantity"); ok {
		q, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return in, invalidField("quantity", "must be an integer")
		}
		in.Quantity = &q
	}
	if v, ok := c.GetPostForm("specifications"); ok && strings.TrimSpace(v) != "" {
		var spec entity.Specifications
		if err := json.Unmarshal([]byte(v), &spec); err != nil {
			return in, invalidField("specifications", "must be a JSON object")
		}
		in.Specifications = &spec
	}
	if vs, ok := c.GetPostFormArray("features"); ok {
		in.Features = []string{}
		for _, f := range vs {
			if f = strings.TrimSpace(f); f != "" {
				in.Features = append(in.Features, f)
			}
		}
	}

	touched := false
	for key, dst := range map[string]*bool{
		"is_new":         &flags.IsNew,
		"is_featured":    &flags.IsFeatured,
		"is_weekly_deal": &flags.IsWeeklyDeal,
	} {
		v, ok := c.GetPostForm(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return in, invalidField(key, "must be a boolean")
		}
		*dst = b
		touched = true
	}
	if touched {
		in.Flags = &flags
	}
	return in, nil
}

func invalidField(field, msg string) error {
	return fmt.Errorf("%w: %s %s", application.ErrValidation, field, msg)
}

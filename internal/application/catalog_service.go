package application

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	repo "github.com/oksasatya/shop-admin/internal/domain/repository"
	"github.com/oksasatya/shop-admin/pkg/helpers"
)

// ImageStore is the remote asset host for product images.
type ImageStore interface {
	Upload(ctx context.Context, localPath, objectPath, contentType string) (entity.Image, error)
	Delete(ctx context.Context, objectPath string) error
}

// ProductIndex is the full-text search side of the catalog.
type ProductIndex interface {
	Index(ctx context.Context, p *entity.Product) error
	Remove(ctx context.Context, id string) error
	// Search returns matching product ids, best match first.
	Search(ctx context.Context, q string, size int) ([]string, error)
}

const maxProductName = 100

type CatalogService struct {
	Products   repo.ProductRepository
	Categories repo.CategoryRepository
	Images     ImageStore
	Index      ProductIndex
	Logger     *logrus.Logger
	Now        func() time.Time
	// Background runs best-effort cleanup detached from the request.
	Background func(func())
}

func NewCatalogService(products repo.ProductRepository, categories repo.CategoryRepository, images ImageStore, index ProductIndex, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		Products:   products,
		Categories: categories,
		Images:     images,
		Index:      index,
		Logger:     logger,
		Now:        time.Now,
		Background: func(f func()) { go f() },
	}
}

// ---- categories ----

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	name = entity.NormalizeCategoryName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if err := s.ensureCategoryNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	now := s.Now()
	c := &entity.Category{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.Categories.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*entity.Category, error) {
	name = entity.NormalizeCategoryName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategoryNameFree(ctx, name, id); err != nil {
		return nil, err
	}
	c.Name = name
	c.UpdatedAt = s.Now()
	if err := s.Categories.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateCategory
		}
		return nil, mapCategoryErr(err)
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return mapCategoryErr(s.Categories.Delete(ctx, id))
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.Categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapCategoryErr(err)
	}
	return c, nil
}

func (s *CatalogService) ensureCategoryNameFree(ctx context.Context, name, excludeID string) error {
	taken, err := s.Categories.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateCategory
	}
	return nil
}

// ---- products ----

// ProductInput carries create and partial-update fields; nil means unchanged.
type ProductInput struct {
	Name           *string
	CategoryID     *string
	Brand          *string
	Description    *string
	RegularPrice   *decimal.Decimal
	SalePrice      *decimal.NullDecimal
	Quantity       *int
	Specifications *entity.Specifications
	Features       []string
	Flags          *entity.Flags

	Thumbnail *helpers.TempFile
	Images    []helpers.TempFile
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if in.Name == nil || in.CategoryID == nil || in.RegularPrice == nil || in.Quantity == nil {
		return nil, fmt.Errorf("%w: name, category, price and quantity are required", ErrValidation)
	}
	now := s.Now()
	p := &entity.Product{
		ID:        uuid.NewString(),
		Flags:     entity.Flags{IsNew: true},
		Features:  []string{},
		Images:    []entity.Image{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}

	thumb, images, err := s.uploadAll(ctx, p.ID, in.Thumbnail, in.Images)
	if err != nil {
		return nil, err
	}
	p.Thumbnail = thumb
	if images != nil {
		p.Images = images
	}

	if err := s.Products.Create(ctx, p); err != nil {
		s.deleteImagesLater(p.RemoteImages())
		return nil, err
	}
	s.index(ctx, p)
	return p, nil
}

// UpdateProduct applies a partial update. New uploads replace the old
// thumbnail or gallery, whose remote copies are removed afterwards.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*entity.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}

	thumb, images, err := s.uploadAll(ctx, p.ID, in.Thumbnail, in.Images)
	if err != nil {
		return nil, err
	}
	var replaced []entity.Image
	if thumb != nil {
		if p.Thumbnail != nil {
			replaced = append(replaced, *p.Thumbnail)
		}
		p.Thumbnail = thumb
	}
	if images != nil {
		replaced = append(replaced, p.Images...)
		p.Images = images
	}
	p.UpdatedAt = s.Now()

	if err := s.Products.Update(ctx, p); err != nil {
		if thumb != nil {
			s.deleteImagesLater([]entity.Image{*thumb})
		}
		s.deleteImagesLater(images)
		return nil, mapProductErr(err)
	}
	s.deleteImagesLater(replaced)
	s.index(ctx, p)
	return p, nil
}

// DeleteProduct removes the row, then the remote images and index document
// in the background.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Products.Delete(ctx, id); err != nil {
		return mapProductErr(err)
	}
	s.deleteImagesLater(p.RemoteImages())
	if s.Index != nil {
		s.Background(func() {
			c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.Index.Remove(c, id); err != nil {
				s.Logger.WithError(err).WithField("product_id", id).Warn("product index removal failed")
			}
		})
	}
	return nil
}

// ProductPage is one page of a filtered product list.
type ProductPage struct {
	Items       []entity.Product
	Total       int
	CurrentPage int
	TotalPages  int
	Limit       int
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter) (ProductPage, error) {
	f = f.Normalized()
	if f.PriceMin.Valid && f.PriceMax.Valid && f.PriceMin.Decimal.GreaterThan(f.PriceMax.Decimal) {
		return ProductPage{}, fmt.Errorf("%w: priceMin exceeds priceMax", ErrValidation)
	}
	items, total, err := s.Products.List(ctx, f)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{
		Items:       items,
		Total:       total,
		CurrentPage: f.Page,
		TotalPages:  (total + f.Limit - 1) / f.Limit,
		Limit:       f.Limit,
	}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductErr(err)
	}
	return p, nil
}

// SearchProducts is empty when no search index is configured.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, size int) ([]entity.Product, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []entity.Product{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	ids, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, err
	}
	found, err := s.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *CatalogService) apply(ctx context.Context, p *entity.Product, in ProductInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len([]rune(name)) > maxProductName {
			return fmt.Errorf("%w: name must be 1-%d characters", ErrValidation, maxProductName)
		}
		if name != p.Name {
			p.Name = name
			p.Slug = entity.Slugify(name)
		}
	}
	if in.CategoryID != nil {
		c, err := s.GetCategory(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		p.CategoryID = c.ID
		p.CategoryName = c.Name
	}
	if in.Brand != nil {
		p.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.RegularPrice != nil || in.SalePrice != nil {
		regular, sale := p.Price.Regular, p.Price.Sale
		if in.RegularPrice != nil {
			regular = *in.RegularPrice
		}
		if in.SalePrice != nil {
			sale = *in.SalePrice
		}
		if !regular.IsPositive() {
			return fmt.Errorf("%w: regular price must be positive", ErrValidation)
		}
		if sale.Valid && (sale.Decimal.IsNegative() || sale.Decimal.GreaterThan(regular)) {
			return fmt.Errorf("%w: sale price must be between 0 and the regular price", ErrValidation)
		}
		p.SetPrice(regular, sale)
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
		}
		p.SetQuantity(*in.Quantity)
	}
	if in.Specifications != nil {
		p.Specifications = *in.Specifications
	}
	if in.Features != nil {
		p.Features = in.Features
	}
	if in.Flags != nil {
		p.Flags = *in.Flags
	}
	return nil
}

// uploadAll pushes every file concurrently and waits for all of them. On
// failure the uploads that did succeed are deleted again.
func (s *CatalogService) uploadAll(ctx context.Context, productID string, thumb *helpers.TempFile, images []helpers.TempFile) (*entity.Image, []entity.Image, error) {
	if thumb == nil && len(images) == 0 {
		return nil, nil, nil
	}
	if s.Images == nil {
		return nil, nil, fmt.Errorf("%w: image store not configured", ErrImageUpload)
	}

	files := make([]helpers.TempFile, 0, len(images)+1)
	if thumb != nil {
		files = append(files, *thumb)
	}
	files = append(files, images...)
	results := make([]entity.Image, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			object := path.Join("products", productID, uuid.NewString()+f.Ext)
			img, err := s.Images.Upload(gctx, f.Path, object, f.ContentType)
			if err != nil {
				return err
			}
			results[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var done []entity.Image
		for _, img := range results {
			if img.PublicID != "" {
				done = append(done, img)
			}
		}
		s.deleteImagesLater(done)
		return nil, nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}

	var thumbImg *entity.Image
	if thumb != nil {
		thumbImg = &results[0]
		results = results[1:]
	}
	if len(images) == 0 {
		return thumbImg, nil, nil
	}
	return thumbImg, results, nil
}

func (s *CatalogService) deleteImagesLater(images []entity.Image) {
	if len(images) == 0 || s.Images == nil {
		return
	}
	s.Background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, img := range images {
			if err := s.Images.Delete(ctx, img.PublicID); err != nil {
				s.Logger.WithError(err).WithField("public_id", img.PublicID).Warn("remote image delete failed")
			}
		}
	})
}

func (s *CatalogService) index(ctx context.Context, p *entity.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("product index failed")
	}
}

func mapProductErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

func mapCategoryErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}

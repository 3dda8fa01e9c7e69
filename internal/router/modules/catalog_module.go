package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/internal/domain/entity"
	handlers "github.com/oksasatya/shop-admin/internal/interface/http"
	"github.com/oksasatya/shop-admin/internal/interface/middleware"
)

// CatalogModule serves categories and products. Reads are public, writes
// need an admin session.
type CatalogModule struct {
	Categories *handlers.CategoryHandler
	Products   *handlers.ProductHandler
	Sessions   *application.SessionService
	RDB        *redis.Client
}

func NewCatalogModule(categories *handlers.CategoryHandler, products *handlers.ProductHandler, sessions *application.SessionService, rdb *redis.Client) *CatalogModule {
	return &CatalogModule{Categories: categories, Products: products, Sessions: sessions, RDB: rdb}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	admin := []gin.HandlerFunc{
		middleware.Auth(m.Sessions),
		middleware.RequireRoles(m.Sessions, entity.RoleAdmin),
	}
	searchLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	cat := rg.Group("/category")
	cat.GET("/get-category", m.Categories.List)
	cat.GET("/Read-category/:id", m.Categories.Get)
	cat.POST("/create-category", append(admin, m.Categories.Create)...)
	cat.PUT("/update-category/:id", append(admin, m.Categories.Update)...)
	cat.DELETE("/delete-category/:id", append(admin, m.Categories.Delete)...)

	prod := rg.Group("/product")
	prod.GET("/get-product", m.Products.List)
	prod.GET("/get-product/:id", m.Products.Get)
	prod.GET("/search", searchLimiter, m.Products.Search)
	prod.POST("/create-product", append(admin, m.Products.Create)...)
	prod.PUT("/update-product/:id", append(admin, m.Products.Update)...)
	prod.DELETE("/delete-product/:id", append(admin, m.Products.Delete)...)
}

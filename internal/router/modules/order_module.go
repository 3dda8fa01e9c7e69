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

// OrderModule: any signed-in user creates and lists their own orders;
// everything else is admin only.
type OrderModule struct {
	Handler  *handlers.OrderHandler
	Sessions *application.SessionService
	RDB      *redis.Client
}

func NewOrderModule(h *handlers.OrderHandler, sessions *application.SessionService, rdb *redis.Client) *OrderModule {
	return &OrderModule{Handler: h, Sessions: sessions, RDB: rdb}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	orders := rg.Group("/order")
	orders.Use(
		middleware.Auth(m.Sessions),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	orders.POST("/create-order", m.Handler.Create)
	orders.GET("/get-orders", m.Handler.ListMine)

	admin := orders.Group("/")
	admin.Use(middleware.RequireRoles(m.Sessions, entity.RoleAdmin))
	{
		admin.GET("/get-allorders", m.Handler.ListAll)
		admin.GET("/get-order/:orderId", m.Handler.Get)
		admin.PUT("/update-order/:orderId", m.Handler.UpdateStatus)
		admin.DELETE("/delete-order/:orderId", m.Handler.Delete)
	}
}

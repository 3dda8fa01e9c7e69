package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/shop-admin/internal/interface/middleware"
	"github.com/oksasatya/shop-admin/pkg/metrics"
)

// DebugModule exposes expvar and Prometheus metrics. Private-network
// scrapers skip the per-IP limit.
type DebugModule struct {
	Metrics *metrics.Metrics
	RDB     *redis.Client
}

func NewDebugModule(m *metrics.Metrics, rdb *redis.Client) *DebugModule {
	return &DebugModule{Metrics: m, RDB: rdb}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	if m.Metrics != nil {
		rg.GET("/metrics", rl, gin.WrapH(m.Metrics.Handler()))
	}
}

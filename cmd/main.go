package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shop-admin/config"
	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/internal/container"
	"github.com/oksasatya/shop-admin/internal/infrastructure/postgres"
	"github.com/oksasatya/shop-admin/internal/interface/middleware"
	"github.com/oksasatya/shop-admin/internal/jobs"
	"github.com/oksasatya/shop-admin/internal/router"
	"github.com/oksasatya/shop-admin/pkg/helpers"
	"github.com/oksasatya/shop-admin/pkg/mailer"
	"github.com/oksasatya/shop-admin/pkg/metrics"
	"github.com/oksasatya/shop-admin/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), postgres.PoolOptions{
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
		MaxConnIdle: 30 * time.Minute,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable; rate limiting fails open")
	}
	defer func() { _ = rdb.Close() }()

	images, closeImages, err := newImageStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to init image store: %v", err)
	}
	defer closeImages()

	jwtManager := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTExpire)
	appMetrics := metrics.New("shop_admin")

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetImageStore(images)
	container.SetJWT(jwtManager)
	container.SetMailSender(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender))
	container.SetMetrics(appMetrics)

	// Queue and search are optional; the API runs without them.
	if pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue); err != nil {
		logger.WithError(err).Warn("rabbitmq unavailable; order status emails disabled")
	} else {
		defer pub.Close()
		container.SetRabbitPub(pub)
	}
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		if es, err := helpers.NewESClient(ctx, addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass); err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; product search disabled")
		} else {
			container.SetES(es)
		}
	}

	trusted, err := middleware.ParseTrustedProxies(cfg.TrustedProxyList())
	if err != nil {
		logger.WithError(err).Fatal("invalid trusted proxies")
	}
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.WithError(err).Fatal("invalid trusted proxies")
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(trusted))
	r.Use(appMetrics.Middleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.MaxMultipartMemory = 8 << 20

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	if cfg.HousekeepingEnabled {
		hk := jobs.NewHousekeeping(postgres.NewUserRepository(pool), cfg.TempDir, logger)
		if err := hk.Start(ctx); err != nil {
			logger.WithError(err).Error("housekeeping failed to start")
		} else {
			defer hk.Stop()
		}
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

// newImageStore picks the product image host from IMAGE_STORE.
func newImageStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (application.ImageStore, func(), error) {
	switch cfg.ImageStore {
	case "s3":
		s, err := helpers.NewS3ImageStore(ctx, helpers.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, err
		}
		s := helpers.NewGCSImageStore(client, cfg.GCSBucket)
		return s, func() { _ = s.Close() }, nil
	default:
		logger.WithField("image_store", cfg.ImageStore).Warn("no image store configured; product uploads disabled")
		return nil, func() {}, nil
	}
}

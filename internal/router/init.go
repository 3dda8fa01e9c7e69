package router

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shop-admin/config"
	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/internal/container"
	repo "github.com/oksasatya/shop-admin/internal/domain/repository"
	"github.com/oksasatya/shop-admin/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/shop-admin/internal/infrastructure/postgres"
	"github.com/oksasatya/shop-admin/internal/infrastructure/search"
	handlers "github.com/oksasatya/shop-admin/internal/interface/http"
	"github.com/oksasatya/shop-admin/internal/router/modules"
	"github.com/oksasatya/shop-admin/pkg/helpers"
	"github.com/oksasatya/shop-admin/pkg/mailer"
	"github.com/oksasatya/shop-admin/pkg/mailer/templates"
)

// Repos groups the storage ports the services are built on.
type Repos struct {
	Users      repo.UserRepository
	Products   repo.ProductRepository
	Categories repo.CategoryRepository
	Orders     repo.OrderRepository
}

// Services is everything the HTTP modules need.
type Services struct {
	Sessions *application.SessionService
	Auth     *application.AuthService
	Orders   *application.OrderService
	Catalog  *application.CatalogService
}

func postgresRepos() Repos {
	pool := container.GetPGPool()
	return Repos{
		Users:      pginfra.NewUserRepository(pool),
		Products:   pginfra.NewProductRepository(pool),
		Categories: pginfra.NewCategoryRepository(pool),
		Orders:     pginfra.NewOrderRepository(pool),
	}
}

// BrandFrom builds the email branding block from config.
func BrandFrom(cfg *config.Config) templates.Brand {
	return templates.Brand{
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		SupportURL:  cfg.SupportURL,
		FrontendURL: cfg.FrontendURL,
	}
}

// BuildServices wires the application layer from the container singletons.
// Optional collaborators (queue, search, metrics) are left nil when absent.
func BuildServices(r Repos) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	brand := BrandFrom(cfg)

	sessions := application.NewSessionService(r.Users, container.GetJWT())
	accountMailer := mailer.NewAccountMailer(container.GetMailSender(), brand, cfg.MailSendEnabled, logger)
	auth := application.NewAuthService(r.Users, sessions, accountMailer, logger, application.AuthConfig{
		VerifyCodeTTL: cfg.VerifyCodeTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
		FrontendURL:   cfg.FrontendURL,

		VerifyMaxAttempts: cfg.VerifyMaxAttempts,
	})
	if rdb := container.GetRedis(); rdb != nil {
		auth.Attempts = cache.NewAttemptCounter(rdb, "shop:")
	}

	var notifier application.OrderNotifier
	if pub := container.GetRabbitPub(); pub != nil {
		notifier = mailer.NewQueueNotifier(pub, brand)
	}
	var orderMetrics application.OrderMetrics
	if m := container.GetMetrics(); m != nil {
		orderMetrics = m
	}
	orders := application.NewOrderService(r.Orders, r.Products, r.Users, notifier, orderMetrics, logger)

	var index application.ProductIndex
	if es := container.GetES(); es != nil {
		index = search.NewProductIndex(es, cfg.ESProductsIndex)
	}
	catalog := application.NewCatalogService(r.Products, r.Categories, container.GetImageStore(), index, logger)

	return Services{Sessions: sessions, Auth: auth, Orders: orders, Catalog: catalog}
}

// Mount adds every feature module to the registry.
func Mount(r *Registry, svc Services, cfg *config.Config, logger *logrus.Logger) {
	errs := handlers.NewErrorWriter(logger, cfg.IsProduction())
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieExpires)
	rdb := container.GetRedis()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, cookies, errs, logger), svc.Sessions, rdb))
	r.Add(modules.NewOrderModule(handlers.NewOrderHandler(svc.Orders, errs), svc.Sessions, rdb))
	r.Add(modules.NewCatalogModule(
		handlers.NewCategoryHandler(svc.Catalog, errs),
		handlers.NewProductHandler(svc.Catalog, errs, cfg.TempDir),
		svc.Sessions, rdb,
	))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetMetrics(), rdb))
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) Services {
	svc := BuildServices(postgresRepos())
	Mount(r, svc, container.GetConfig(), container.GetLogger())
	return svc
}

// Package bootstrap assembles the storefront from configuration: storage,
// services, handlers and the HTTP engine.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	appcart "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	appcheckout "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/messaging"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// Version is reported by the system info endpoint
var Version = "dev"

// App is an assembled storefront
type App struct {
	Engine      *gin.Engine
	DB          *persistence.Database
	CartStorage cache.CartStorage
	Carts       *appcart.Registry
	EventBus    *event.InMemoryEventBus

	limiter *middleware.RateLimiter
	logger  *zap.Logger
}

type options struct {
	db          *persistence.Database
	cartStorage cache.CartStorage
	meter       metric.Meter
	dispatcher  appcheckout.Dispatcher
}

// Option overrides a collaborator New would otherwise build
type Option func(*options)

// WithDatabase uses an open database instead of connecting
func WithDatabase(db *persistence.Database) Option {
	return func(o *options) { o.db = db }
}

// WithCartStorage uses the given cart storage instead of the factory
func WithCartStorage(s cache.CartStorage) Option {
	return func(o *options) { o.cartStorage = s }
}

// WithMeter records storefront and HTTP metrics on meter
func WithMeter(meter metric.Meter) Option {
	return func(o *options) { o.meter = meter }
}

// WithDispatcher replaces the WhatsApp dispatcher
func WithDispatcher(d appcheckout.Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

// New builds the storefront. The caller must Start it to run the cart
// sweeper and Close it to release resources.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (app *App, err error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.meter == nil {
		o.meter = noop.NewMeterProvider().Meter("storefront")
	}

	app = &App{logger: log}
	defer func() {
		if err != nil {
			_ = app.Close(ctx)
		}
	}()

	app.DB = o.db
	if app.DB == nil {
		app.DB, err = persistence.NewDatabase(&cfg.Database,
			persistence.WithLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
	}
	if err = telemetry.RegisterDBTracing(app.DB.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBSystem:   dbSystem(cfg.Database.Driver),
	}, log); err != nil {
		return nil, fmt.Errorf("register db tracing: %w", err)
	}

	app.CartStorage = o.cartStorage
	if app.CartStorage == nil {
		app.CartStorage, err = cache.NewCartStorageFactory(cfg.Redis, cfg.Cart.TTL, cache.WithLogger(log)).CreateStorage()
		if err != nil {
			return nil, fmt.Errorf("create cart storage: %w", err)
		}
	}

	metrics, err := telemetry.NewStorefrontMetrics(o.meter)
	if err != nil {
		return nil, fmt.Errorf("create storefront metrics: %w", err)
	}

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	app.EventBus = event.NewInMemoryEventBus(log)
	app.EventBus.Subscribe(event.NewAuditLogHandler(serializer, log))
	app.EventBus.Subscribe(appcheckout.NewOrderPlacedHandler(metrics, log))
	if err = app.EventBus.Start(ctx); err != nil {
		return nil, fmt.Errorf("start event bus: %w", err)
	}

	dispatcher := o.dispatcher
	if dispatcher == nil {
		dispatcher, err = messaging.NewWhatsAppDispatcher(messaging.WhatsAppConfig{
			BaseURL: cfg.Messaging.WhatsAppBaseURL,
			Phone:   cfg.Messaging.WhatsAppPhone,
		}, log)
		if err != nil {
			return nil, err
		}
	}

	tokens, err := auth.NewSessionTokenService(cfg.Session)
	if err != nil {
		return nil, err
	}

	money := valueobject.NewLocaleFormatter(cfg.Messaging.Locale, cfg.Messaging.CurrencySymbol, 0)

	catalogService := catalogapp.NewService(
		persistence.NewGormCategoryRepository(app.DB.DB),
		persistence.NewGormProductRepository(app.DB.DB),
		persistence.NewGormFlavorRepository(app.DB.DB),
		catalogapp.Config{FeaturedLimit: cfg.Catalog.FeaturedLimit, QueryTimeout: cfg.Catalog.QueryTimeout},
		log,
	)
	app.Carts = appcart.NewRegistry(app.CartStorage, appcart.RegistryConfig{
		Namespace:     cfg.Cart.Namespace,
		IdleTTL:       cfg.Cart.SessionIdleTTL,
		SweepInterval: cfg.Cart.SweepInterval,
	}, log, metrics)
	cartService := appcart.NewService(app.Carts, catalogService, money, log)
	checkoutService := appcheckout.NewService(app.Carts, order.NewFormatter(money), dispatcher,
		appcheckout.Config{PersistOrders: cfg.Checkout.PersistOrders}, log,
		appcheckout.WithOrderRepository(persistence.NewGormOrderRepository(app.DB.DB)),
		appcheckout.WithEventPublisher(app.EventBus),
		appcheckout.WithMetrics(metrics),
	)

	app.limiter = middleware.NewRateLimiter(cfg.HTTP.CheckoutRateLimit, cfg.HTTP.CheckoutRateWindow)
	app.Engine = newEngine(cfg, log, o.meter)

	system := handler.NewSystemHandler(cfg.App.Name, Version, map[string]handler.Pinger{
		"database":     handler.PingFunc(func(context.Context) error { return app.DB.Ping() }),
		"cart_storage": app.CartStorage,
	})
	app.Engine.GET("/health", system.Health)

	r := router.NewRouter(app.Engine, router.WithAPIVersion("v1"))
	router.RegisterStorefront(r, router.StorefrontHandlers{
		Catalog:  handler.NewCatalogHandler(catalogService),
		Cart:     handler.NewCartHandler(cartService),
		Checkout: handler.NewCheckoutHandler(checkoutService, money),
		System:   system,
	}, router.StorefrontMiddleware{
		Session: middleware.CartSession(middleware.CartSessionConfig{
			Tokens:     tokens,
			HeaderName: cfg.Session.HeaderName,
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.Secure,
			SameSite:   middleware.ParseSameSite(cfg.Session.SameSite),
			Logger:     log,
		}),
		CheckoutLimit: middleware.RateLimit(app.limiter),
	})
	r.Setup()

	log.Info("storefront assembled",
		zap.String("database", cfg.Database.Driver),
		zap.Bool("persist_orders", cfg.Checkout.PersistOrders),
		zap.Int("checkout_rate_limit", cfg.HTTP.CheckoutRateLimit),
	)
	return app, nil
}

func newEngine(cfg *config.Config, log *zap.Logger, meter metric.Meter) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, cfg.Session.HeaderName, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Meter:   meter,
		Enabled: true,
		Logger:  log,
	}))
	return engine
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}

// Start runs the idle cart sweeper
func (a *App) Start() {
	a.Carts.Start()
}

// Close stops background work and releases storage and the database
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Carts != nil {
		errs = append(errs, a.Carts.Stop(ctx))
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.EventBus != nil {
		errs = append(errs, a.EventBus.Stop(ctx))
	}
	if a.CartStorage != nil {
		errs = append(errs, a.CartStorage.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

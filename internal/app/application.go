package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"storefront-cms-backend/internal/config"
	"storefront-cms-backend/internal/handlers"
	"storefront-cms-backend/internal/middleware"
	"storefront-cms-backend/internal/repository"
	"storefront-cms-backend/internal/service"
	"storefront-cms-backend/pkg/cache"
	"storefront-cms-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	client *mongo.Client
	db     *mongo.Database
	cache  *cache.Cache

	rateLimiter *middleware.RateLimitManager

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	Page     repository.PageRepository
	Product  repository.ProductRepository
	Category repository.CategoryRepository
	Coupon   repository.CouponRepository
	Theme    repository.ThemeRepository
	Story    repository.StoryRepository
	Hero     repository.HeroRepository
}

type serviceContainer struct {
	Auth     service.AuthUseCase
	Page     service.ResourceUseCase
	Product  service.ResourceUseCase
	Category service.ResourceUseCase
	Coupon   service.ResourceUseCase
	Theme    service.ResourceUseCase
	Story    service.ResourceUseCase
	Hero     service.HeroUseCase
}

type handlerContainer struct {
	Auth     *handlers.AuthHandler
	Page     *handlers.ResourceHandler
	Product  *handlers.ResourceHandler
	Category *handlers.ResourceHandler
	Coupon   *handlers.ResourceHandler
	Theme    *handlers.ResourceHandler
	Story    *handlers.ResourceHandler
	Hero     *handlers.HeroHandler
	Health   handlers.Pinger
}

// cachedCollections are the key prefixes DELETE /api/cache can clear.
var cachedCollections = []string{
	repository.PagesCollection,
	repository.ProductsCollection,
	repository.CategoriesCollection,
	repository.CouponsCollection,
	repository.ThemesCollection,
	repository.StoriesCollection,
	repository.HeroesCollection,
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.createIndexes(); err != nil {
		app.disconnect()
		return nil, err
	}

	app.initCache()
	app.initRepositories()
	app.initServices()
	app.initHandlers()
	app.rateLimiter = middleware.NewRateLimitManager(context.Background())

	if err := app.initRouter(); err != nil {
		app.disconnect()
		return nil, err
	}

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
		"database":    a.cfg.MongoDatabase,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.rateLimiter != nil {
		_ = a.rateLimiter.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			logger.Error(err, "Failed to disconnect from MongoDB", nil)
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", map[string]interface{}{"database": a.cfg.MongoDatabase})

	clientOpts := options.Client().
		ApplyURI(a.cfg.MongoURI).
		SetConnectTimeout(a.cfg.MongoConnectTimeout).
		SetServerSelectionTimeout(a.cfg.MongoConnectTimeout).
		SetMonitor(logger.NewCommandMonitor(a.cfg.MongoSlowQuery))

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.MongoConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to reach database: %w", err)
	}

	a.client = client
	a.db = client.Database(a.cfg.MongoDatabase)
	return nil
}

func (a *Application) createIndexes() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Creating database indexes", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repository.EnsureIndexes(ctx, a.db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (a *Application) disconnect() {
	if a.client != nil {
		_ = a.client.Disconnect(context.Background())
	}
}

func (a *Application) initCache() {
	cacheService, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableRedis, a.cfg.CacheTTL)
	if err != nil {
		logger.Error(err, "Redis unavailable, continuing without cache", nil)
		cacheService, _ = cache.NewCache("", false, a.cfg.CacheTTL)
	}
	a.cache = cacheService
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		Page:     repository.NewPageRepository(a.db),
		Product:  repository.NewProductRepository(a.db),
		Category: repository.NewCategoryRepository(a.db),
		Coupon:   repository.NewCouponRepository(a.db),
		Theme:    repository.NewThemeRepository(a.db),
		Story:    repository.NewStoryRepository(a.db),
		Hero:     repository.NewHeroRepository(a.db),
	}
}

func (a *Application) initServices() {
	a.services = serviceContainer{
		Auth: service.NewAuthService(
			a.cfg.AdminUsername,
			a.cfg.AdminPasswordHash,
			a.cfg.JWTSecret,
			a.cfg.AccessTokenTTL,
			a.cfg.RefreshTokenTTL,
		),
		Page:     service.NewPageService(a.repositories.Page, a.cache),
		Product:  service.NewProductService(a.repositories.Product, a.cache),
		Category: service.NewCategoryService(a.repositories.Category, a.cache),
		Coupon:   service.NewCouponService(a.repositories.Coupon, a.cache),
		Theme:    service.NewThemeService(a.repositories.Theme, a.cache),
		Story:    service.NewStoryService(a.repositories.Story, a.cache),
		Hero:     service.NewHeroService(a.repositories.Hero, a.cache),
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:     handlers.NewAuthHandler(a.services.Auth),
		Page:     handlers.NewResourceHandler(a.services.Page, "page", handlers.PageDuplicateMessages),
		Product:  handlers.NewResourceHandler(a.services.Product, "product", handlers.DuplicateMessages{}),
		Category: handlers.NewResourceHandler(a.services.Category, "category", handlers.DuplicateMessages{}),
		Coupon:   handlers.NewResourceHandler(a.services.Coupon, "coupon", handlers.DuplicateMessages{}),
		Theme:    handlers.NewResourceHandler(a.services.Theme, "theme", handlers.DuplicateMessages{}),
		Story:    handlers.NewResourceHandler(a.services.Story, "story", handlers.DuplicateMessages{}),
		Hero:     handlers.NewHeroHandler(a.services.Hero),
		Health: handlers.PingFunc(func(ctx context.Context) error {
			return a.client.Ping(ctx, readpref.Primary())
		}),
	}
}

func (a *Application) initRouter() error {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.SecurityHeadersMiddleware())
	if a.rateLimiter != nil {
		router.Use(middleware.WithRateLimitManager(a.rateLimiter))
	}
	router.Use(middleware.RateLimitMiddleware(a.cfg))

	if len(a.cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     a.cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", handlers.Health(a.handlers.Health))

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api")
	{
		api.POST("/token", a.handlers.Auth.ObtainToken)
		api.POST("/token/refresh", a.handlers.Auth.RefreshToken)

		content := api.Group("")
		if a.cfg.RequireAuth {
			content.Use(middleware.WriteAuthMiddleware(a.services.Auth))
		}

		a.handlers.Page.Register(content, "/pages")
		a.handlers.Product.Register(content, "/products")
		a.handlers.Category.Register(content, "/categories")
		a.handlers.Coupon.Register(content, "/coupons")
		a.handlers.Theme.Register(content, "/themes")
		a.handlers.Story.Register(content, "/stories")

		content.GET("/hero", a.handlers.Hero.Get)
		content.PUT("/hero", a.handlers.Hero.Update)

		if a.cache.Enabled() {
			admin := api.Group("")
			if a.cfg.RequireAuth {
				admin.Use(middleware.AuthMiddleware(a.services.Auth))
			}
			admin.DELETE("/cache", handlers.ClearCache(a.cache, cachedCollections))
		}
	}

	router.NoRoute(func(c *gin.Context) {
		body := gin.H{"error": "Route not found"}
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			body["path"] = c.Request.URL.Path
		}
		c.JSON(http.StatusNotFound, body)
	})

	a.router = router
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	blogapp "github.com/apexgym/backend/internal/application/blog"
	cartapp "github.com/apexgym/backend/internal/application/cart"
	catalogapp "github.com/apexgym/backend/internal/application/catalog"
	identityapp "github.com/apexgym/backend/internal/application/identity"
	"github.com/apexgym/backend/internal/domain/blog"
	"github.com/apexgym/backend/internal/domain/cart"
	"github.com/apexgym/backend/internal/domain/catalog"
	"github.com/apexgym/backend/internal/domain/identity"
	"github.com/apexgym/backend/internal/infrastructure/auth"
	"github.com/apexgym/backend/internal/infrastructure/config"
	"github.com/apexgym/backend/internal/infrastructure/logger"
	"github.com/apexgym/backend/internal/infrastructure/migration"
	"github.com/apexgym/backend/internal/infrastructure/persistence"
	"github.com/apexgym/backend/internal/infrastructure/storage"
	"github.com/apexgym/backend/internal/interfaces/http/handler"
	"github.com/apexgym/backend/internal/interfaces/http/middleware"
	"github.com/apexgym/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

// objectStore is what the catalog, blog and cart services collectively
// need from the storage backend
type objectStore interface {
	catalogapp.ObjectStorageService
	blogapp.ObjectStorageService
	cartapp.ImageURLProvider
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ApexGym Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver))

	// Apply schema migrations
	if err := runMigrations(db, log, cfg); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Token blacklist backs logout. Redis keeps revocations shared across
	// instances; the in-memory fallback only suits a single process.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		blacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		log.Info("Redis token blacklist enabled",
			zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled, using in-memory token blacklist")
	}

	// Object storage for product and post images
	objectStorage, err := newObjectStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	productService := catalogapp.NewProductService(productRepo, objectStorage)
	cartService := cartapp.NewCartService(cartRepo, productRepo, objectStorage)
	postService := blogapp.NewPostService(postRepo, objectStorage)

	// Ensure the bootstrap administrator account exists
	if cfg.Admin.Email != "" {
		if err := authService.EnsureAdminAccount(context.Background(), cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal("Failed to ensure admin account", zap.Error(err))
		}
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	blogHandler := handler.NewBlogHandler(postService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// API routes behind JWT auth; public paths are skipped inside the
	// middleware config
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	r.Register(systemHandler, authHandler, productHandler, cartHandler, blogHandler)
	api := r.Setup()

	// Admin management routes
	admin := api.Group("/admin")
	admin.Use(middleware.AdminOnly())
	productHandler.RegisterAdminRoutes(admin)
	blogHandler.RegisterAdminRoutes(admin)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies versioned SQL migrations on Postgres. SQLite is
// a development convenience and uses the GORM schema directly.
func runMigrations(db *persistence.Database, log *zap.Logger, cfg *config.Config) error {
	if cfg.Database.IsSQLite() {
		log.Info("SQLite driver detected, using auto migration")
		return db.DB.AutoMigrate(
			&identity.User{},
			&catalog.Product{},
			&cart.CartLine{},
			&blog.Post{},
		)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	migrator, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	return migrator.Up()
}

// newObjectStorage picks S3 when a bucket is configured, otherwise a
// stub that keeps uploads in memory
func newObjectStorage(cfg *config.Config, log *zap.Logger) (objectStore, error) {
	if cfg.Storage.Bucket == "" {
		log.Warn("No storage bucket configured, using in-memory stub storage")
		return storage.NewStubObjectStorage(), nil
	}

	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		log.Warn("Could not verify storage bucket", zap.Error(err))
	}

	log.Info("S3 object storage initialized",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("region", cfg.Storage.Region))
	return s3Storage, nil
}

// Package app wires configuration, storage and services into a runnable application.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"libraryhub/database"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/http-api/handler"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/http-api/service"
	"libraryhub/internal/ingestion/frappe"
	"libraryhub/web"
)

// App holds the long-lived dependencies of one process.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	Cache  *cache.RedisCache

	Services handler.Services
}

// New connects to PostgreSQL, applies migrations when MIGRATE_ON_START is set,
// and builds every service. Redis is optional: when it cannot be reached the
// app runs without a cache.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.MigrateOnStart {
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}
	}

	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, DB: db}

	if cfg.CacheTTL > 0 {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		rc, err := cache.NewRedisCache(pingCtx, cfg.RedisURL, cfg.RedisPassword)
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable, running without report cache", zap.Error(err))
		} else {
			a.Cache = rc
		}
	}

	a.Services = a.buildServices()
	return a, nil
}

func (a *App) buildServices() handler.Services {
	store := repository.NewStore(a.DB)
	repos := store.Repos()

	// Services treat a nil Cache as disabled.
	var c service.Cache
	if a.Cache != nil {
		c = a.Cache
	}

	source := frappe.NewClient(a.Config.FrappeAPIURL, a.Config.ImportRateLimit, a.Logger)

	return handler.Services{
		Books:   service.NewBookService(repos.Books, c, a.Logger),
		Members: service.NewMemberService(store, repos.Members, c, time.Now, a.Logger),
		Rentals: service.NewRentalService(store, repos.Rentals, c, service.RentalOptions{
			DebtLimit: a.Config.DebtLimit,
			Location:  a.Config.Location(),
			Now:       time.Now,
		}, a.Logger),
		Imports: service.NewImportService(source, repos.Books, c, a.Config.ImportMaxPages, a.Logger),
		Reports: service.NewReportService(repos, c, a.Config.CacheTTLDuration(), a.Logger),
	}
}

// Router builds the HTTP handler for the web UI, JSON API and health probe.
func (a *App) Router() (*gin.Engine, error) {
	if !a.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	views, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.Cache != nil {
		checks["redis"] = a.Cache.Ping
	}

	opts := handler.Options{
		NoticeTTL:     a.Config.NoticeTTL,
		ImportTimeout: a.Config.ImportTimeout,
	}
	return handler.NewRouter(a.Services, views, checks, opts, a.Logger), nil
}

// Close releases the database pool and the Redis client.
func (a *App) Close() {
	if err := a.Cache.Close(); err != nil {
		a.Logger.Warn("Failed to close redis", zap.Error(err))
	}
	if err := database.Close(a.DB); err != nil {
		a.Logger.Warn("Failed to close database", zap.Error(err))
	}
}

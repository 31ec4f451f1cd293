package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	"invoicedash/internal/config"
	"invoicedash/internal/handlers"
	"invoicedash/internal/jobs"
	"invoicedash/internal/logger"
	"invoicedash/internal/middleware"
	"invoicedash/internal/repositories"
	"invoicedash/internal/services"
	"invoicedash/internal/validation"
	"invoicedash/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

const version = "1.0.0"

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns, log)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	cacheSvc, err := newCacheService(cfg, log)
	if err != nil {
		log.Fatalw("failed to create cache service", "driver", cfg.Cache.Driver, "error", err)
	}

	scheduler, err := jobs.NewJobScheduler(cacheSvc, cfg.Cache.RefreshInterval, log)
	if err != nil {
		log.Fatalw("failed to create job scheduler", "error", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Errorw("failed to stop job scheduler", "error", err)
		}
	}()

	// Create repositories
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Create services
	invoiceSvc := services.NewInvoiceService(invoiceRepo, cacheSvc, validation.NewInvoiceSchema(), log)
	credentials := services.NewCredentialsProvider(userRepo, cacheSvc, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	authSvc := services.NewAuthService(credentials, log)

	// Create handlers
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, cacheSvc, cfg.Cache.PageTTL, log)
	authHandlers := handlers.NewAuthHandlers(authSvc, cfg.Auth.CookieSecure, log)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version, log)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler(log)

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.POST("/login", authHandlers.Login)

	sessionAuth := middleware.SessionAuth(cfg.Auth.JWTSecret, cacheSvc, log)
	e.POST("/logout", authHandlers.Logout, sessionAuth)

	dashboard := e.Group("/dashboard", sessionAuth, middleware.AuditActions(log))
	dashboard.GET("/invoices", invoiceHandlers.ListInvoices)
	dashboard.POST("/invoices", invoiceHandlers.CreateInvoice)
	dashboard.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	dashboard.POST("/invoices/:id", invoiceHandlers.UpdateInvoice)
	dashboard.PUT("/invoices/:id", invoiceHandlers.UpdateInvoice)
	dashboard.POST("/invoices/:id/delete", invoiceHandlers.DeleteInvoice)
	dashboard.DELETE("/invoices/:id", invoiceHandlers.DeleteInvoice)

	go func() {
		log.Infow("invoicedash server starting", "version", version, "port", cfg.Server.Port, "cache_driver", cfg.Cache.Driver)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}

func newCacheService(cfg *config.Configuration, log *logger.Logger) (caching.CacheService, error) {
	switch cfg.Cache.Driver {
	case "memory":
		return caching.NewMemoryCacheService(), nil
	default:
		return caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/api"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/config"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/n8n"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/store"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/workflow"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("starting chat backend",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("database_driver", cfg.DatabaseDriver),
		zap.Bool("n8n_configured", cfg.WebhookURL != ""))

	// Initialize store
	var db store.Store
	switch cfg.DatabaseDriver {
	case "postgres":
		logger.Info("using PostgreSQL storage")
		db, err = store.NewPostgresStore(store.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
		})
	default:
		logger.Info("using SQLite storage", zap.String("dsn", cfg.DatabaseURL))
		db, err = store.NewSQLiteStore(cfg.DatabaseURL)
	}
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer db.Close()

	// Initialize workflow router and webhook client
	router := workflow.NewRouter(cfg)
	webhook := n8n.NewClient(cfg.WebhookTimeout, logger)

	// Initialize handler
	h := api.NewHandler(db, router, webhook, cfg, logger)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	logger.Info("chat backend started", zap.Int("port", cfg.HTTPPort))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server gracefully", zap.Error(err))
	}

	logger.Info("chat backend stopped")
}

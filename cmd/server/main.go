package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pressline/counter-api/internal/backend"
	"github.com/pressline/counter-api/internal/catalogcache"
	"github.com/pressline/counter-api/internal/config"
	"github.com/pressline/counter-api/internal/draft"
	"github.com/pressline/counter-api/internal/gateway"
	"github.com/pressline/counter-api/internal/handler"
	"github.com/pressline/counter-api/internal/router"
	"github.com/pressline/counter-api/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rpc := backend.New(cfg.BackendURL, cfg.BackendTimeout)

	customers := gateway.NewCustomerGateway(rpc)
	orders := gateway.NewOrderGateway(rpc)
	garments := gateway.NewGarmentGateway(rpc)
	transactions := gateway.NewTransactionGateway(rpc)
	reports := gateway.NewReportGateway(rpc)
	authn := gateway.NewAuthGateway(rpc)

	var cache catalogcache.Cache
	if cfg.RedisAddr != "" {
		cache = catalogcache.NewRedisCache(cfg.RedisAddr)
		logger.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogTTL)
	}
	catalog := catalogcache.New(gateway.NewCatalogGateway(rpc), cache, cfg.CatalogTTL)

	drafts := draft.NewStore(cfg.DraftTTL)
	go drafts.Run(ctx)

	hub := ws.NewHub()
	go hub.Run()

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authn),
		Wizard:       handler.NewWizardHandler(drafts, customers, catalog, orders, hub),
		Orders:       handler.NewOrderHandler(orders, hub),
		Customers:    handler.NewCustomerHandler(customers, orders, transactions),
		Garments:     handler.NewGarmentHandler(garments),
		Transactions: handler.NewTransactionHandler(transactions, hub),
		Reports:      handler.NewReportHandler(reports),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(cfg, logger, hub, handlers),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("counter service listening", "port", cfg.Port, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

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

	"bank-assist/internal/bank"
	"bank-assist/internal/cache"
	"bank-assist/internal/config"
	"bank-assist/internal/convo"
	"bank-assist/internal/handlers"
	"bank-assist/internal/intent"
	"bank-assist/internal/metrics"
	"bank-assist/internal/repo"
	"bank-assist/internal/wa"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed loading config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting bank-assist", "env", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(cfg.MetricsNamespace)

	var redis *cache.Redis
	if cfg.RedisAddr != "" {
		redis, err = cache.New(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			UseTLS:   cfg.RedisTLS,
		})
		if err != nil {
			logger.Error("failed connecting redis", "error", err)
			os.Exit(1)
		}
		defer redis.Close()
	}

	var store repo.Store
	if cfg.DatabaseURL != "" {
		store, err = repo.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseSchema)
	} else {
		logger.Info("no DATABASE_URL set, using local sqlite history", "path", cfg.SQLitePath)
		store, err = repo.OpenSQLite(ctx, cfg.SQLitePath)
	}
	if err != nil {
		logger.Error("failed opening history store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var api convo.BankAPI
	if cfg.BankAPIBaseURL != "" {
		api = bank.New(bank.Config{
			BaseURL:     cfg.BankAPIBaseURL,
			APIKey:      cfg.BankAPIKey,
			Timeout:     cfg.BankAPITimeout,
			FeeCacheTTL: cfg.FeeCacheTTL,
		}, logger, m, redis)
	} else {
		logger.Info("no BANK_API_BASE_URL set, serving fixture data")
		mock, mockErr := bank.NewMock()
		if mockErr != nil {
			logger.Error("failed loading fixtures", "error", mockErr)
			os.Exit(1)
		}
		api = mock
	}

	classifier := intent.New(intent.Config{})

	var gateway *wa.Gateway
	var engineGateway convo.Gateway
	if cfg.WhatsAppEnabled {
		gateway, err = wa.NewGateway(ctx, wa.Config{
			StorePath: cfg.WhatsAppStorePath,
			LogLevel:  cfg.WhatsAppLogLevel,
		}, logger)
		if err != nil {
			logger.Error("failed creating whatsapp gateway", "error", err)
			os.Exit(1)
		}
		engineGateway = gateway
	}

	engine := convo.New(classifier, api, store, engineGateway, m, logger, convo.Config{
		FromCurrency:    cfg.TransferFromCurrency,
		ToCurrency:      cfg.TransferToCurrency,
		ProviderTimeout: cfg.BankAPITimeout,
		ReplyGap:        cfg.ReplyGap,
	})

	if gateway != nil {
		waHandler := handlers.NewWhatsAppHandler(engine, gateway, logger)
		gateway.OnMessage(waHandler.HandleEvent)
		if err := gateway.Connect(ctx); err != nil {
			logger.Error("failed connecting whatsapp", "error", err)
			os.Exit(1)
		}
		defer gateway.Disconnect()
	}

	mux := http.NewServeMux()
	handlers.NewChatServer(engine, store, logger).Register(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

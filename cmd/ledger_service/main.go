package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/wapanel/golang_services/internal/ledger_service/adapters/events"
	httpadapter "github.com/wapanel/golang_services/internal/ledger_service/adapters/http"
	"github.com/wapanel/golang_services/internal/ledger_service/app"
	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/middleware"
	"github.com/wapanel/golang_services/internal/ledger_service/repository/postgres"
	"github.com/wapanel/golang_services/internal/platform/config"
	"github.com/wapanel/golang_services/internal/platform/database"
	"github.com/wapanel/golang_services/internal/platform/logger"
	"github.com/wapanel/golang_services/internal/platform/messagebroker"
)

const (
	serviceName     = "ledger-service"
	shutdownTimeout = 15 * time.Second
)

// httpLogger is a middleware that logs HTTP requests using slog.
func httpLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			requestID := chiMiddleware.GetReqID(r.Context())

			next.ServeHTTP(ww, r)

			duration := time.Since(start)

			logger.LogAttrs(r.Context(), slog.LevelInfo, "HTTP request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", ww.Status()),
				slog.Int64("duration_ms", duration.Milliseconds()),
				slog.String("request_id", requestID),
				slog.String("remote_ip", r.RemoteAddr),
			)
		}
		return http.HandlerFunc(fn)
	}
}

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName)

	appLogger.Info("Ledger service starting...",
		"http_port", cfg.LedgerServiceHTTPPort,
		"metrics_port", cfg.LedgerServiceMetricsPort,
		"log_level", cfg.LogLevel,
	)

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Successfully connected to PostgreSQL")

	natsClient, err := messagebroker.NewNatsClient(cfg.NATSUrl, serviceName, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	appLogger.Info("Successfully connected to NATS")

	pricing, err := domain.NewPricing(cfg.UnitMessagePrice)
	if err != nil {
		appLogger.Error("Invalid unit message price", "price", cfg.UnitMessagePrice, "error", err)
		os.Exit(1)
	}

	resellerRepo := postgres.NewPgResellerRepository(appLogger)
	businessUserRepo := postgres.NewPgBusinessUserRepository(appLogger)
	creditTxRepo := postgres.NewPgCreditTransactionRepository(appLogger)
	usageLogRepo := postgres.NewPgUsageLogRepository(appLogger)
	messageRepo := postgres.NewPgMessageRepository(appLogger)

	eventPublisher := events.NewPublisher(natsClient, appLogger)

	ledgerService := app.NewLedgerService(
		dbPool,
		resellerRepo,
		businessUserRepo,
		creditTxRepo,
		usageLogRepo,
		messageRepo,
		pricing,
		eventPublisher,
		appLogger,
	)
	accountService := app.NewAccountService(dbPool, resellerRepo, businessUserRepo, appLogger)
	queryService := app.NewQueryService(dbPool, resellerRepo, businessUserRepo, creditTxRepo, usageLogRepo, messageRepo, appLogger)
	appLogger.Info("Application services initialized")

	validate := validator.New()
	accountHandler := httpadapter.NewAccountHandler(accountService, queryService, appLogger, validate)
	creditHandler := httpadapter.NewCreditHandler(ledgerService, queryService, appLogger, validate)
	messageHandler := httpadapter.NewMessageHandler(ledgerService, queryService, appLogger, validate)

	httpRouter := chi.NewRouter()
	httpRouter.Use(chiMiddleware.RequestID)
	httpRouter.Use(chiMiddleware.RealIP)
	httpRouter.Use(chiMiddleware.Recoverer)
	httpRouter.Use(httpLogger(appLogger))

	httpRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Reseller registration stays open; everything else requires a token.
	httpRouter.Post("/resellers", accountHandler.CreateReseller)
	httpRouter.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTAccessSecret, appLogger))
		r.Get("/resellers", accountHandler.ListResellers)
		r.Get("/resellers/{resellerID}", accountHandler.GetReseller)
		r.Post("/business-users", accountHandler.CreateBusinessUser)
		r.Get("/business-users", accountHandler.ListBusinessUsers)
		r.Get("/business-users/{businessUserID}", accountHandler.GetBusinessUser)
		r.Get("/business-users/{businessUserID}/usage", accountHandler.GetUsageHistory)
		creditHandler.RegisterRoutes(r)
		messageHandler.RegisterRoutes(r)
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.LedgerServiceHTTPPort),
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.LedgerServiceMetricsPort),
		Handler: metricsMux,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server ListenAndServe error", "error", err)
			return err
		}
		appLogger.Info("HTTP server shut down gracefully.")
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Metrics HTTP server starting", "address", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Metrics HTTP server ListenAndServe error", "error", err)
			return err
		}
		appLogger.Info("Metrics HTTP server shut down gracefully.")
		return nil
	})

	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)

	g.Go(func() error {
		select {
		case sig := <-stopSignal:
			appLogger.Info("Received termination signal", "signal", sig.String())
			mainCancel()
			return nil
		case <-groupCtx.Done():
			return nil
		}
	})

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Initiating graceful shutdown of servers...")

		shutdownCtx, cancelShutdownTimeout := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdownTimeout()

		var shutdownErrors error

		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics HTTP server graceful shutdown failed", "error", err)
			shutdownErrors = errors.Join(shutdownErrors, fmt.Errorf("metrics http shutdown: %w", err))
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server graceful shutdown failed", "error", err)
			shutdownErrors = errors.Join(shutdownErrors, fmt.Errorf("http shutdown: %w", err))
		}

		return shutdownErrors
	})

	appLogger.Info("Ledger service is ready and running.")
	if err := g.Wait(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Service group encountered an error during run/shutdown", "error", err)
		}
	}

	appLogger.Info("Ledger service shut down successfully.")
}

package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/payhub-br/payhub-backend/api/routes"
	"github.com/payhub-br/payhub-backend/internal/fees"
	"github.com/payhub-br/payhub-backend/internal/ledger"
	"github.com/payhub-br/payhub-backend/internal/lending"
	"github.com/payhub-br/payhub-backend/internal/payments"
	"github.com/payhub-br/payhub-backend/internal/settlement"
	"github.com/payhub-br/payhub-backend/pkg/config"
	"github.com/payhub-br/payhub-backend/pkg/logger"
	"github.com/payhub-br/payhub-backend/pkg/metrics"
	pkgredis "github.com/payhub-br/payhub-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gatewayMetrics := metrics.NewGatewayMetrics(registry)

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	ledgerClient := ledger.NewJSONRPCClient(cfg.XRPL)
	operator := ledger.NewOperatorSource(cfg.XRPL, ledgerClient)

	settlementService, err := settlement.NewService(settlement.ServiceParams{
		Client:   ledgerClient,
		Operator: operator,
		XRPL:     cfg.XRPL,
		Metrics:  gatewayMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}

	feesService := fees.NewService(gatewayMetrics)

	lendingService, err := lending.NewService(lending.NewStore(), settlementService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create lending service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(settlementService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"xrpl": cfg.XRPL.ServerURL,
	})
	logg.Info(ctx, "starting api server")

	var idempotencyStore pkgredis.IdempotencyStore
	var redisPinger pkgredis.Pinger
	if redisClient != nil {
		idempotencyStore = redisClient
		redisPinger = redisClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			Registry:    registry,
			Redis:       idempotencyStore,
			RedisPinger: redisPinger,
			Ledger:      ledgerClient,
			Settlement:  settlementService,
			Fees:        feesService,
			Lending:     lendingService,
			Payments:    paymentsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

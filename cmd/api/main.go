package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/asifmahmud/banglahat-backend/api/routes"
	"github.com/asifmahmud/banglahat-backend/internal/admin"
	"github.com/asifmahmud/banglahat-backend/internal/cart"
	"github.com/asifmahmud/banglahat-backend/internal/catalog"
	"github.com/asifmahmud/banglahat-backend/internal/checkout"
	"github.com/asifmahmud/banglahat-backend/internal/geo"
	"github.com/asifmahmud/banglahat-backend/internal/orders"
	"github.com/asifmahmud/banglahat-backend/internal/promos"
	"github.com/asifmahmud/banglahat-backend/pkg/auth/session"
	"github.com/asifmahmud/banglahat-backend/pkg/config"
	"github.com/asifmahmud/banglahat-backend/pkg/db"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
	"github.com/asifmahmud/banglahat-backend/pkg/metrics"
	"github.com/asifmahmud/banglahat-backend/pkg/migrate"
	"github.com/asifmahmud/banglahat-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	geoService := geo.NewService(cfg.Delivery)
	cartService := cart.NewService(redisClient, cfg.Checkout.CartTTL)
	ordersService := orders.NewService(orders.NewRepository(dbClient.DB()), logg, checkoutMetrics)
	checkoutService := checkout.NewService(
		redisClient,
		cartService,
		geoService,
		ordersService,
		cfg.Checkout,
		logg,
		checkoutMetrics,
	)
	adminService := admin.NewService(
		admin.NewRepository(dbClient.DB()),
		sessionManager,
		redisClient,
		cfg.JWT,
		cfg.Password,
		cfg.AuthRateLimit,
		logg,
	)
	catalogService := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	promosService := promos.NewService(dbClient.DB())

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		Database:       dbClient,
		Redis:          redisClient,
		SessionChecker: sessionManager,
		Registry:       registry,
		Geo:            geoService,
		Cart:           cartService,
		Checkout:       checkoutService,
		Orders:         ordersService,
		Admin:          adminService,
		Catalog:        catalogService,
		Promos:         promosService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		shutdownErr := server.Shutdown(shutdownCtx)
		shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
		shutdownErr = multierr.Append(shutdownErr, dbClient.Close())
		if shutdownErr != nil {
			logg.Error(ctx, "shutdown finished with errors", shutdownErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}

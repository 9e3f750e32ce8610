package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/gateway"
	"github.com/example/storefront/pkg/checkout"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/discovery"
	"github.com/example/storefront/pkg/events"
	grpcserver "github.com/example/storefront/pkg/grpc"
	"github.com/example/storefront/pkg/logger"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/notify"
	"github.com/example/storefront/pkg/payment"
	"github.com/example/storefront/pkg/repository"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 5 * time.Second
	healthInterval  = 15 * time.Second
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Sprintf("Failed to load .env: %v", err))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront",
		zap.String("name", cfg.Server.Name),
		zap.String("http", cfg.Gateway.Addr()),
		zap.String("grpc", cfg.Server.Addr()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoRepo.Close(closeCtx); err != nil {
			log.Error("Failed to close MongoDB", zap.Error(err))
		}
	}()

	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	if err := redisRepo.Ping(ctx); err != nil {
		log.Warn("Redis connection failed", zap.Error(err))
	} else {
		log.Info("Redis connected successfully")
	}

	settings := repository.NewSettingsStore(mongoRepo, redisRepo, models.StoreSettings{
		FreeShippingThreshold: cfg.Checkout.FreeShippingThreshold,
		ShippingCost:          cfg.Checkout.ShippingCost,
		GSTRate:               cfg.Checkout.GSTRate,
	}, cfg.Redis.SettingsTTL, log.Named("settings"))
	guard := repository.NewSettlementLock(redisRepo, cfg.Redis.LockTTL, log.Named("lock"))
	razorpay := payment.NewRazorpayClient(&cfg.Razorpay, log.Named("razorpay"))

	notifier, err := notify.NewNotifier(mongoRepo, log.Named("notify"))
	if err != nil {
		log.Fatal("Failed to start notification actor", zap.Error(err))
	}
	defer notifier.Stop()

	deps := checkout.Deps{
		Catalog:  mongoRepo,
		Settings: settings,
		Orders:   mongoRepo,
		Gateway:  razorpay,
		Guard:    guard,
		Notifier: notifier,
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewKafkaProducer(&cfg.Kafka, log.Named("events"))
		defer producer.Close()
		deps.Events = producer
	} else {
		log.Info("Kafka brokers not configured, order events disabled")
	}

	svc := checkout.NewService(deps, checkout.Options{
		Currency:       cfg.Razorpay.Currency,
		CatalogTimeout: cfg.Checkout.CatalogTimeout,
		GatewayTimeout: cfg.Checkout.GatewayTimeout,
	}, log.Named("checkout"))

	gw := gateway.NewGateway(cfg, svc, log.Named("gateway"))
	httpServer := &http.Server{
		Addr:              cfg.Gateway.Addr(),
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	health := grpcserver.NewHealthServer(&cfg.Server, log.Named("health"))
	go health.Watch(ctx, healthInterval, map[string]grpcserver.Pinger{
		"mongodb": mongoRepo,
		"redis":   redisRepo,
	})

	serverErr := make(chan error, 2)
	go func() {
		log.Info("Gateway starting", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		if err := health.Start(); err != nil {
			serverErr <- fmt.Errorf("grpc: %w", err)
		}
	}()

	var sd *discovery.ServiceDiscovery
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Gateway.Host,
		Port: cfg.Gateway.Port,
	}
	if len(cfg.Etcd.Endpoints) > 0 {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd, log.Named("discovery"))
		if err != nil {
			log.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else {
			register(ctx, sd, instance, log)
		}
	}

	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	case err := <-serverErr:
		log.Error("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sd != nil {
		if err := sd.Deregister(shutdownCtx, instance); err != nil {
			log.Error("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := svc.Drain(shutdownCtx); err != nil {
		log.Warn("Side effects still running at shutdown", zap.Error(err))
	}
	health.Stop()

	log.Info("Storefront stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcAdapter "github.com/Abdurahmanit/estate-marketplace/internal/adapter/grpc"
	"github.com/Abdurahmanit/estate-marketplace/internal/adapter/http/handler"
	"github.com/Abdurahmanit/estate-marketplace/internal/adapter/http/router"
	"github.com/Abdurahmanit/estate-marketplace/internal/adapter/mailer"
	natsAdapter "github.com/Abdurahmanit/estate-marketplace/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/estate-marketplace/internal/adapter/repository/cache"
	"github.com/Abdurahmanit/estate-marketplace/internal/adapter/repository/memory"
	mongoRepo "github.com/Abdurahmanit/estate-marketplace/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/estate-marketplace/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/estate-marketplace/internal/config"
	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/estate-marketplace/internal/listing/usecase"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/metrics"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Application starting...",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("store_driver", cfg.StoreDriver),
	)

	ctx := context.Background()

	if cfg.OTExporterOTLPEndpoint != "" {
		tp, err := tracer.InitTracer(ctx, cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	var (
		listingRepo domain.ListingRepository
		userRepo    domain.UserRepository
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := mongoRepo.Connect(ctx, mongoRepo.ConnectOptions{
			URI:            cfg.MongoURI,
			ConnectTimeout: cfg.MongoConnectTimeout,
			MaxPoolSize:    cfg.MongoMaxPoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			appLogger.Info("Disconnecting from MongoDB...")
			if err := client.Disconnect(context.Background()); err != nil {
				appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
			}
		}()
		appLogger.Info("Successfully connected and pinged MongoDB.")

		db := client.Database(cfg.MongoDatabase)
		repo := mongoRepo.NewListingRepository(db, appLogger)
		indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			appLogger.Warn("Continuing without ensured indexes", zap.Error(err))
		}
		cancel()
		listingRepo = repo
		userRepo = mongoRepo.NewUserRepository(db, appLogger)
	case config.StoreDriverMemory:
		appLogger.Warn("Using in-memory listing store; data is lost on restart")
		listingRepo = memory.NewListingRepository()
		userRepo = memory.NewUserRepository()
	}

	metricsManager := metrics.NewMetricsManager("estate_listing")
	opts := []usecase.Option{
		usecase.WithUserRepository(userRepo),
		usecase.WithMetrics(metricsManager),
	}

	if cfg.RedisAddress != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.Options{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		opts = append(opts, usecase.WithCache(cache.NewListingCache(rdb, cfg.CacheTTL, appLogger)))
	} else {
		appLogger.Info("Listing cache disabled (REDIS_ADDRESS not set).")
	}

	if cfg.NATSURL != "" {
		publisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
		}
		defer publisher.Close()
		opts = append(opts, usecase.WithPublisher(publisher))
	} else {
		appLogger.Info("Event publishing disabled (NATS_URL not set).")
	}

	if cfg.SMTPHost != "" {
		opts = append(opts, usecase.WithMailer(mailer.NewSMTPMailer(mailer.Options{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, appLogger)))
	} else {
		appLogger.Info("Owner emails disabled (SMTP_HOST not set).")
	}

	var storage domain.Storage
	if cfg.MinIOEndpoint != "" {
		s, err := s3.NewStorage(ctx, s3.Options{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		}, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		storage = s
	} else {
		appLogger.Info("Image uploads disabled (MINIO_ENDPOINT not set).")
	}

	listingUsecase := usecase.NewListingUsecase(listingRepo, appLogger, opts...)
	listingHandler := handler.NewListingHandler(listingUsecase, storage, appLogger)

	routerOpts := router.Options{
		JWTSecret:      cfg.JWTSecret,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}
	var metricsServer *http.Server
	if cfg.PrometheusMetricsPort != "" {
		routerOpts.Metrics = metricsManager
		metricsServer = metrics.NewMetricsServer(cfg.PrometheusMetricsPort, metricsManager.Registry, appLogger)
		go func() {
			appLogger.Info("Starting Prometheus metrics server", zap.String("port", cfg.PrometheusMetricsPort))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router.New(listingHandler, routerOpts, appLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	grpcSrv := grpcAdapter.NewServer(cfg.ServiceName, appLogger)
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Fatal("gRPC server Serve error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	grpcSrv.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown failed", zap.Error(err))
		}
	}
	appLogger.Info("Application shutting down...")
}

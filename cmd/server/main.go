package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	eventHandler "github.com/coursehub/payment-service/internal/adapter/handler/event"
	handlers "github.com/coursehub/payment-service/internal/adapter/handler/http"
	"github.com/coursehub/payment-service/internal/config"
	"github.com/coursehub/payment-service/internal/infrastructure/database"
	grpcServer "github.com/coursehub/payment-service/internal/infrastructure/grpc"
	httpServer "github.com/coursehub/payment-service/internal/infrastructure/http"
	"github.com/coursehub/payment-service/internal/infrastructure/messaging"
	"github.com/coursehub/payment-service/internal/infrastructure/provider"
	"github.com/coursehub/payment-service/internal/usecase"
	"github.com/coursehub/payment-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Analytics cache is optional
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedisClient(cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	// Initialize repositories
	repos := database.NewRepositories(db, redisClient, zapLogger)

	// The gateway client is built on first use and shared by every request
	gateway := provider.NewHolder(provider.NewFactory(cfg.Gateway, zapLogger), zapLogger)

	// Initialize usecases
	orderService := usecase.NewOrderService(repos.Course, repos.Payment, gateway, zapLogger)
	analyticsService := usecase.NewAnalyticsService(repos.Analytics, repos.Course, repos.User, repos.Cache, cfg.Redis.AnalyticsTTL, zapLogger)
	replicaService := usecase.NewReplicaService(repos.Course, repos.User, repos.Cache, zapLogger)

	// Connect to the broker and start the replica listeners
	broker, err := messaging.Connect(cfg.Broker, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to message broker", zap.Error(err))
	}

	listenCtx, stopListening := context.WithCancel(context.Background())
	defer stopListening()

	replicaHandler := eventHandler.NewReplicaHandler(replicaService)
	runtime := messaging.NewRuntime(broker, cfg.Broker, zapLogger, replicaHandler.Bindings(cfg.Broker.QueueName)...)
	if err := runtime.Start(listenCtx); err != nil {
		zapLogger.Fatal("Failed to start event listeners", zap.Error(err))
	}

	runtimeDone := make(chan error, 1)
	go func() {
		runtimeDone <- runtime.Wait()
	}()

	// Initialize servers
	healthChecks := []handlers.HealthCheck{
		{
			Name: "database",
			Check: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
		{
			Name: "broker",
			Check: func(context.Context) error {
				if !broker.IsOpen() {
					return errors.New("connection closed")
				}
				return nil
			},
		},
	}

	grpcSrv := grpcServer.NewServer(cfg, zapLogger)
	httpSrv := httpServer.NewServer(cfg, zapLogger, httpServer.Services{
		Order:     orderService,
		Analytics: analyticsService,
	}, healthChecks...)

	// Start servers
	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal or a listener failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	runtimeStopped := false
	select {
	case sig := <-sigChan:
		zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-runtimeDone:
		runtimeStopped = true
		zapLogger.Error("Event listeners stopped unexpectedly", zap.Error(err))
	}

	zapLogger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown servers
	if err := grpcSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	// Stop intake and let in-flight deliveries settle before the broker goes away
	stopListening()
	if !runtimeStopped {
		select {
		case err := <-runtimeDone:
			if err != nil {
				zapLogger.Error("Event listeners exited with error", zap.Error(err))
			}
		case <-ctx.Done():
			zapLogger.Warn("Timed out draining event listeners")
		}
	}

	if err := broker.Close(); err != nil {
		zapLogger.Error("Failed to close broker connection", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}

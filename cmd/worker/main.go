package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fairwaygolf/tour-messaging-backend/internal/config"
	"github.com/fairwaygolf/tour-messaging-backend/internal/db"
	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/provider"
	"github.com/fairwaygolf/tour-messaging-backend/internal/queue"
	"github.com/fairwaygolf/tour-messaging-backend/internal/repository"
	"github.com/fairwaygolf/tour-messaging-backend/internal/service"
	"github.com/fairwaygolf/tour-messaging-backend/internal/template"
	"github.com/fairwaygolf/tour-messaging-backend/internal/worker"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting tour messaging worker")

	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to database
	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	// Connect to Redis queue
	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	logger.Info("connected to Redis queue")

	// Initialize repositories
	templateRepo := repository.NewTemplateRepository(database.DB)
	customerRepo := repository.NewCustomerRepository(database.DB)
	logRepo := repository.NewMessageLogRepository(database.DB)

	// Initialize provider adapters
	aligo := provider.NewAligo(provider.AligoConfig{
		BaseURL: cfg.Aligo.BaseURL,
		APIKey:  cfg.Aligo.APIKey,
		UserID:  cfg.Aligo.UserID,
		Sender:  cfg.Aligo.Sender,
	}, nil)

	solapi := provider.NewSolapi(provider.SolapiConfig{
		BaseURL:   cfg.Solapi.BaseURL,
		APIKey:    cfg.Solapi.APIKey,
		APISecret: cfg.Solapi.APISecret,
		Sender:    cfg.Solapi.Sender,
		PfID:      cfg.Solapi.PfID,
	}, nil)

	var smsProvider provider.Provider = aligo
	if cfg.Dispatch.DefaultProvider == "solapi" {
		smsProvider = solapi
	}

	// Initialize dispatch service and processor
	dispatchSvc := service.NewDispatchService(
		templateRepo,
		customerRepo,
		logRepo,
		template.NewRenderer(),
		smsProvider,
		solapi,
		queueClient,
		service.DispatchConfig{
			MaxAttempts:    cfg.Dispatch.MaxAttempts,
			RetryBaseDelay: cfg.Dispatch.RetryBaseDelay,
			BulkChunkSize:  cfg.Dispatch.BulkChunkSize,
		},
		logger,
	)

	processor := worker.NewJobProcessor(dispatchSvc, logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming jobs
	consumerErrors := make(chan error, 1)
	go func() {
		logger.Info("starting job consumer",
			slog.Int("concurrency", cfg.Worker.Concurrency),
		)

		handler := func(ctx context.Context, job *models.BulkSendJob) error {
			return processor.Process(ctx, job)
		}

		consumerErrors <- queueClient.Consume(ctx, handler, cfg.Worker.Concurrency)
	}()

	// Wait for interrupt signal or consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && err != context.Canceled {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))

		// Cancel context to stop consumer
		cancel()

		// Give the consumer time to finish in-flight jobs
		time.Sleep(5 * time.Second)

		logger.Info("worker stopped gracefully")
	}
}

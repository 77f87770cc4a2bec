package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/fairwaygolf/tour-messaging-backend/internal/config"
	"github.com/fairwaygolf/tour-messaging-backend/internal/db"
	"github.com/fairwaygolf/tour-messaging-backend/internal/handler"
	"github.com/fairwaygolf/tour-messaging-backend/internal/provider"
	"github.com/fairwaygolf/tour-messaging-backend/internal/queue"
	"github.com/fairwaygolf/tour-messaging-backend/internal/repository"
	"github.com/fairwaygolf/tour-messaging-backend/internal/service"
	"github.com/fairwaygolf/tour-messaging-backend/internal/template"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting tour messaging API server")

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

	logger.Info("providers configured",
		slog.String("sms", smsProvider.Name()),
		slog.String("alimtalk", solapi.Name()),
	)

	// Initialize services
	renderer := template.NewRenderer()
	templateSvc := service.NewTemplateService(templateRepo, renderer, logger)
	dispatchSvc := service.NewDispatchService(
		templateRepo,
		customerRepo,
		logRepo,
		renderer,
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

	// Initialize handlers
	messageHandler := handler.NewMessageHandler(dispatchSvc, logger)
	templateHandler := handler.NewTemplateHandler(templateSvc, logger)
	healthHandler := handler.NewHealthHandler(database.DB, queueClient, logger)

	// Setup router
	r := chi.NewRouter()

	r.Use(handler.RecoveryMiddleware(logger))
	r.Use(handler.LoggingMiddleware(logger))
	r.Use(handler.CORSMiddleware)

	r.Get("/health", healthHandler.Health)

	r.Route("/messages", func(r chi.Router) {
		r.Post("/send", messageHandler.Send)
		r.Post("/preview", messageHandler.Preview)
		r.Post("/bulk-send", messageHandler.BulkSend)
		r.Get("/logs", messageHandler.ListLogs)
	})

	r.Route("/templates", func(r chi.Router) {
		r.Post("/", templateHandler.Create)
		r.Get("/", templateHandler.List)
		r.Get("/{id}", templateHandler.Get)
		r.Put("/{id}", templateHandler.Update)
		r.Delete("/{id}", templateHandler.Delete)
	})

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}

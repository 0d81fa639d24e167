package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandvault/docs/swagger"
	"brandvault/internal/api"
	"brandvault/internal/config"
	"brandvault/internal/db"
	"brandvault/internal/events"
	"brandvault/internal/handlers"
	"brandvault/internal/models"
	"brandvault/internal/services"
	"brandvault/internal/tasks"
	"brandvault/internal/utils/crypto"
	"brandvault/internal/utils/logger"

	"github.com/joho/godotenv"
)

// 🚀 Main function
// @title BrandVault API
// @version 1.0
// @description API documentation for the BrandVault marketing asset backend
// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {

	logger := logger.New("brandvault")

	// check if .env file exists
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the shared-link signing keys
	if err := crypto.InitializeKeys(cfg.Crypto.PrivateKey); err != nil {
		log.Fatalf("Failed to initialize keys: %v", err)
	}

	// Connect to database
	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("Failed to close database connection: %v", err)
		}
	}()

	dbInstance := db.GetDB()

	// TODO: deliver the code by email once the SMTP account is provisioned
	events.On("password.reset", func(data interface{}) {
		reset, ok := data.(*models.PasswordReset)
		if !ok || reset.User == nil {
			return
		}
		logger.Info("Password reset code issued for %s", reset.User.Email)
	})

	// Initialize object storage
	storageService, err := services.NewStorageService(cfg.Storage.S3)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}
	models.RegisterSignedURLResolver(storageService)
	handlers.RegisterObjectStore(storageService)

	// Asset deletes remove the backing storage objects as well
	handlers.RegisterAssetCleanup(dbInstance)

	// Initialize task client (shared Redis connection)
	taskClient := tasks.NewTaskClient(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Warn("Failed to close task client: %v", err)
		}
	}()

	// Initialize task handlers and server
	taskHandler := tasks.NewTaskHandler(dbInstance, cfg)
	taskServer := tasks.NewServer(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		taskHandler,
		logger,
	)

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	go func() {
		if err := taskServer.Start(serverCtx); err != nil {
			logger.Error("Task server error", err)
		}
	}()

	// Initialize task scheduler (hourly temp-upload sweep)
	taskScheduler := tasks.NewScheduler(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		logger,
	)

	go func() {
		if err := taskScheduler.Start(); err != nil {
			logger.Error("Task scheduler error", err)
		}
	}()

	// Initialize API server
	apiServer := api.NewServer(cfg, dbInstance, taskClient)
	go func() {
		logger.Success("API server starting")

		// Swagger documentation
		swagger.SwaggerInfo.Title = "BrandVault API Documentation"
		swagger.SwaggerInfo.Description = "API documentation for the BrandVault marketing asset backend"
		swagger.SwaggerInfo.Version = "1.0"
		swagger.SwaggerInfo.Host = cfg.Server.PublicURL
		swagger.SwaggerInfo.Schemes = []string{"https", "http"}

		if err := apiServer.Start(); err != nil {
			logger.Error("API server error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the servers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taskScheduler.Stop()
	serverCancel()
	taskServer.Shutdown()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown API server", err)
	}

	logger.Info("Servers shutdown gracefully")
}

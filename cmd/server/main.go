package main

// @title           LearnStack API
// @version         1.0
// @description     Student Q&A platform with voting, reputation, badges and an AI learning assistant
// @host            localhost:8000
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnstack-service/internal/adapters/assistant"
	"learnstack-service/internal/adapters/events"
	"learnstack-service/internal/adapters/mailer"
	"learnstack-service/internal/adapters/oauth"
	"learnstack-service/internal/adapters/storage"
	"learnstack-service/internal/api/routes"
	"learnstack-service/internal/config"
	"learnstack-service/internal/database"
	"learnstack-service/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting LearnStack server")

	// Initialize MySQL connection
	db, err := database.NewMySQLConnection(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}

	// Initialize Redis connection
	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize MinIO connection
	minioClient, err := storage.NewMinIOClient(&cfg.MinIO)
	if err != nil {
		slog.Error("Failed to connect to MinIO", "error", err)
		os.Exit(1)
	}

	// Initialize outbound adapters
	publisher := events.NewKafkaPublisher(&cfg.Kafka)
	defer publisher.Close()
	completer := assistant.NewClient(&cfg.Assistant)
	mail := mailer.NewSMTPMailer(&cfg.SMTP)
	google := oauth.NewGoogleVerifier(&cfg.Google)

	redisService := services.NewRedisService(redisClient)

	// Initialize router with all dependencies
	router := routes.NewRouter(
		cfg,
		db,
		redisService,
		minioClient,
		publisher,
		completer,
		mail,
		google,
	)
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}

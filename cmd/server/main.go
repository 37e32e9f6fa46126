package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Lillian1228/hsa-ai-assistant/internal/agent"
	"github.com/Lillian1228/hsa-ai-assistant/internal/config"
	"github.com/Lillian1228/hsa-ai-assistant/internal/database"
	"github.com/Lillian1228/hsa-ai-assistant/internal/handler"
	"github.com/Lillian1228/hsa-ai-assistant/internal/repository"
	"github.com/Lillian1228/hsa-ai-assistant/internal/review"
	"github.com/Lillian1228/hsa-ai-assistant/internal/server"
	"github.com/Lillian1228/hsa-ai-assistant/internal/service"
	"github.com/Lillian1228/hsa-ai-assistant/internal/storage"
)

func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the database
	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg.PostgresDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Ensure schema exists
	repo := repository.NewPostgresApprovedItemRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	// Initialize object storage for receipt images
	log.Println("Initializing image storage...")
	uploader, err := storage.NewS3Uploader(&storage.Config{
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		AccessKeySecret: cfg.S3AccessKeySecret,
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
	})
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	// Initialize the agent client
	agentClient := agent.NewClient(&agent.Config{
		APIKey:  cfg.AgentAPIKey,
		ModelID: cfg.AgentModelID,
		BaseURL: cfg.AgentBaseURL,
		Timeout: cfg.AgentTimeout,
	})

	// Shared in-memory stores
	urlStore := storage.NewImageURLStore(storage.DefaultURLStoreCapacity)
	pending := review.NewPendingStore(cfg.PendingReviewTTL)

	// Create services
	log.Println("Creating services...")
	expenseService := service.NewExpenseService(agentClient, uploader, urlStore, pending, cfg.MaxWorkers)
	reviewService := service.NewReviewService(repo, uploader, urlStore, pending)

	// Create handlers
	chatHandler := handler.NewChatHandler(expenseService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)
	appServer.SetExpenseService(expenseService)

	chatHandler.RegisterRoutes(appServer.GetRouter())
	reviewHandler.RegisterRoutes(appServer.GetRouter())

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}

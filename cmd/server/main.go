package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"propagent/internal/config"
	"propagent/internal/handler"
	"propagent/internal/model"
	"propagent/internal/repository"
	"propagent/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Property Search Agent")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection (retries with backoff internally)
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v\nMake sure the database is running: docker-compose up -d", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL/PostGIS database")

	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	if cfg.Demo.Seed {
		if err := repo.SeedDemoData(context.Background()); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		log.Println("✅ Demo data loaded (Kathmandu/Jawalkhel area)")
	}

	// Initialize the reasoning-engine client
	aiClient, err := service.NewAIClient(&cfg.Agent)
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}
	log.Printf("✅ AI client initialized")
	log.Printf("   - Provider: %s", cfg.Agent.Provider)
	log.Printf("   - Model: %s", cfg.Agent.Model)
	log.Printf("   - Base URL: %s", cfg.Agent.BaseURL)

	// Tool events are traced through the standard logger
	recordEvent := func(ev model.ToolEvent) {
		if ev.Err != "" {
			log.Printf("tool=%s outcome=%s took=%s error=%q", ev.Tool, ev.Outcome, ev.Took, ev.Err)
			return
		}
		log.Printf("tool=%s outcome=%s took=%s", ev.Tool, ev.Outcome, ev.Took)
	}

	// Initialize services and handlers
	dispatcher := service.NewDispatcher(repo, recordEvent)
	sessions := handler.NewSessionManager(repo, aiClient, recordEvent)

	searchHandler := handler.NewSearchHandler(dispatcher, repo)
	chatHandler := handler.NewChatHandler(sessions)

	log.Println("✅ Services initialized")

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = strings.Split(cfg.Server.AllowedMethods, ",")
	corsConfig.AllowHeaders = strings.Split(cfg.Server.AllowedHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "property-search-agent",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.POST("/sessions", chatHandler.Create)
		apiV1.POST("/sessions/:id/reset", chatHandler.Reset)
		apiV1.DELETE("/sessions/:id", chatHandler.Delete)

		apiV1.POST("/search", searchHandler.Search)
		apiV1.GET("/locations", searchHandler.ListLocations)
		apiV1.GET("/geocode", searchHandler.Geocode)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}

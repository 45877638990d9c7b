package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/cv-leaderboard/internal/config"
	"alfredoptarigan/cv-leaderboard/internal/handlers"
	"alfredoptarigan/cv-leaderboard/internal/metrics"
	"alfredoptarigan/cv-leaderboard/internal/repositories"
	"alfredoptarigan/cv-leaderboard/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	metricsManager := metrics.NewManager()

	// Initialize state store
	kvRepo, err := newKVRepository(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize %s store: %v", cfg.Store.Backend, err)
	}
	store := services.NewStateStore(kvRepo)
	log.Printf("✅ State store initialized (%s)", cfg.Store.Backend)

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	completion, err := services.NewCompletionClient(cfg.Completion, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize %s completion client: %v", cfg.Completion.Provider, err)
	}
	log.Printf("✅ Completion client initialized (%s, %s)", cfg.Completion.Provider, cfg.Completion.Model)

	analyzer := services.NewAnalyzerService(
		services.NewDocumentExtractor(),
		completion,
		metricsManager,
		cfg.Completion.Timeout,
		cfg.Completion.Structured,
	)
	log.Println("✅ Services initialized successfully")

	// Candidate index is optional
	var (
		worker         services.Worker
		candidateIndex services.CandidateIndex
	)
	if cfg.IndexEnabled() {
		candidateIndex, err = newCandidateIndex(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize candidate index: %v", err)
		}

		worker = services.NewWorker(
			candidateIndex,
			metricsManager,
			cfg.Worker.Concurrency,
			cfg.Worker.QueueSize,
		)
		worker.Start(context.Background())
		log.Println("✅ Candidate index worker started")
	} else {
		log.Println("ℹ️ QDRANT_URL not set, candidate search disabled")
	}

	// Initialize Handlers
	jobHandler := handlers.NewJobHandler(
		store,
		analyzer,
		storageService,
		metricsManager,
		worker,
		candidateIndex,
		cfg.Storage.MaxFileSize,
	)
	routes := handlers.Routes{
		Analyze: handlers.NewAnalyzeHandler(analyzer, storageService, cfg.Storage.MaxFileSize),
		Jobs:    jobHandler,
		Pages:   handlers.NewPageHandler(jobHandler),
		Metrics: metricsManager,
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CV Leaderboard",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Completion.Timeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, routes)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if worker != nil {
			worker.Stop()
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 Open http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newKVRepository(cfg *config.Config) (repositories.KeyValueRepository, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := config.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewGormKVRepository(db), nil
	case config.StoreRedis:
		client, err := config.InitRedis(cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewRedisKVRepository(client), nil
	default:
		return repositories.NewMemoryKVRepository(), nil
	}
}

func newCandidateIndex(cfg *config.Config) (services.CandidateIndex, error) {
	embedder, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		defaultGeminiModel(cfg),
		cfg.Gemini.EmbedModel,
		false,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini embeddings: %w", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		return nil, err
	}

	if err := qdrantService.InitCollection(); err != nil {
		return nil, fmt.Errorf("failed to initialize Qdrant collection: %w", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	return services.NewCandidateIndex(embedder, qdrantService, services.NewTextChunker()), nil
}

// defaultGeminiModel picks the chat model for the embedding client. It is
// never used for completions there but the client requires one.
func defaultGeminiModel(cfg *config.Config) string {
	if cfg.Completion.Provider == config.ProviderGemini {
		return cfg.Completion.Model
	}
	return "gemini-2.5-flash"
}

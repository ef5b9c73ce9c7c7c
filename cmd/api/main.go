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

	"alfredoptarigan/ats-resume-expert/internal/config"
	"alfredoptarigan/ats-resume-expert/internal/handlers"
	"alfredoptarigan/ats-resume-expert/internal/repositories"
	"alfredoptarigan/ats-resume-expert/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("✅ Config loaded successfully (API key from %s)\n", cfg.Gemini.KeySource)

	if !services.RasterizerAvailable() {
		log.Println("⚠️ pdftoppm not found on PATH, analyses will fail until poppler-utils is installed")
	}

	// Initialize repositories
	sessionRepo := repositories.NewSessionRepository()
	log.Println("✅ Session store initialized")

	// Initialize services
	catalog, err := services.LoadPromptCatalog()
	if err != nil {
		log.Fatalf("❌ Failed to load prompt catalog: %v", err)
	}

	storageService := services.NewStorageService(cfg.Storage.MaxFileSize)
	preprocessor := services.NewPreprocessorService(
		services.NewPDFParserService(),
		services.NewPdftoppmRasterizer(cfg.Document.RenderDPI),
		cfg.Document.MaxPages,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	ctx := context.Background()
	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		APIVersion:        cfg.Gemini.APIVersion,
		MaxAttempts:       cfg.Inference.RetryMaxAttempts,
		RetryDelay:        cfg.Inference.RetryDelay,
		RequestsPerMinute: cfg.Inference.RequestsPerMinute,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}

	inference, err := services.NewCachedInferenceClient(geminiService, cfg.Inference.CacheSize)
	if err != nil {
		log.Fatalf("❌ Failed to initialize response cache: %v", err)
	}
	log.Printf("✅ Gemini AI initialized successfully (model %s)\n", cfg.Gemini.Model)

	analyzer := services.NewAnalyzerService(preprocessor, inference, catalog)
	log.Println("✅ Analyzer service initialized")

	// Initialize worker
	worker := services.NewWorker(sessionRepo, cfg.Session.TTL, cfg.Session.SweepInterval)
	worker.Start(ctx)

	// Initialize Handlers
	h := handlers.Handlers{
		Analyze: handlers.NewAnalyzeHandler(sessionRepo, storageService, analyzer, cfg.Session.HistoryTruncate),
		Session: handlers.NewSessionHandler(sessionRepo),
		Result:  handlers.NewResultHandler(sessionRepo, cfg.Session.HistoryLimit),
		Modes:   handlers.NewModesHandler(catalog),
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ATS Resume Expert API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.IsDevelopment(),
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

package main

import (
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

	"recruitflow/cv-extractor/internal/config"
	"recruitflow/cv-extractor/internal/handlers"
	"recruitflow/cv-extractor/internal/repositories"
	"recruitflow/cv-extractor/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	if _, err := config.SeedDefaultCompany(db, cfg); err != nil {
		log.Fatalf("❌ Failed to seed default company: %v", err)
	}

	store := repositories.NewStore(db)
	log.Println("✅ Store initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	inspector := services.NewCVInspector()
	attachmentSource := services.NewAttachmentSource(storageService)
	provider := services.NewGeminiProvider()
	notifier := services.NewLogNotifier()

	extractor := services.NewExtractor(store, provider, attachmentSource, cfg.Features.SkillsEnabled)
	dispatcher := services.NewDispatcher(store, extractor, notifier)
	bulkIntake := services.NewBulkIntake(store, provider, attachmentSource, notifier)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	applicantHandler := handlers.NewApplicantHandler(store)
	uploadHandler := handlers.NewUploadHandler(store, storageService, inspector, cfg.Storage.MaxFileSize)
	extractionHandler := handlers.NewExtractionHandler(dispatcher)
	jobHandler := handlers.NewJobHandler(store, storageService, inspector, bulkIntake, cfg.Storage.MaxFileSize)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CV Extractor API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/applicants", applicantHandler.HandleCreate)
	api.Get("/applicants/:id", applicantHandler.HandleGet)
	api.Post("/applicants/:id/cv", uploadHandler.HandleUploadCV)
	api.Post("/extractions", extractionHandler.HandleSubmit)
	api.Post("/jobs", jobHandler.HandleCreate)
	api.Post("/jobs/:id/tags", jobHandler.HandleAddTag)
	api.Post("/jobs/:id/candidates", jobHandler.HandleBulkCandidates)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Extractor API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/applicants",
				"GET /api/v1/applicants/:id",
				"POST /api/v1/applicants/:id/cv",
				"POST /api/v1/extractions",
				"POST /api/v1/jobs",
				"POST /api/v1/jobs/:id/tags",
				"POST /api/v1/jobs/:id/candidates",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		// Let in-flight extraction batches run to their done/error outcome.
		dispatcher.Wait()
		bulkIntake.Wait()
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

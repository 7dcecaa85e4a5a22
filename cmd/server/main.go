package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/klearport/customs-console/internal/config"
	"github.com/klearport/customs-console/internal/database"
	"github.com/klearport/customs-console/internal/handlers"
	"github.com/klearport/customs-console/internal/middleware"
	"github.com/klearport/customs-console/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create admin user if it doesn't exist
	if err := database.EnsureAdminUser(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure admin user: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    25 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg)

	// Document storage
	storageService, err := services.NewStorageService(
		cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}
	if err := storageService.EnsureBucket(context.Background()); err != nil {
		log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
	}

	// Extraction backend client and poller
	extractor := services.NewExtractionClient(cfg.ExtractionBaseURL, cfg.ExtractionAPIKey)
	if !extractor.Enabled() {
		log.Println("EXTRACTION_BASE_URL not set, remote extraction disabled")
	}
	poller := services.NewPoller(db, extractor)
	defer poller.Shutdown()

	// Re-watch sessions left in processing by a previous run
	if extractor.Enabled() {
		if err := poller.Resume(context.Background()); err != nil {
			log.Printf("Warning: Failed to resume pending extractions: %v", err)
		}
	}

	// Local OCR is best effort; scanned-image fallback only works when
	// tesseract is available on the host.
	ocrService, err := services.NewOCRService()
	if err != nil {
		log.Printf("Warning: Failed to initialize OCR service: %v", err)
		ocrService = nil
	}

	sessionHandler := handlers.NewSessionHandler(db, cfg, storageService, extractor, poller, ocrService)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)
	auth.Post("/refresh", middleware.AuthRequired(cfg), h.RefreshToken)
	auth.Post("/change-password", middleware.AuthRequired(cfg), h.ChangePassword)

	// Form layout registry (authenticated read)
	api.Get("/form-types", middleware.AuthRequired(cfg), sessionHandler.ListFormTypes)

	// Session routes. Reads are open to every authenticated role within the
	// caller's company; edits and saves need officer or admin.
	sessions := api.Group("/sessions", middleware.AuthRequired(cfg))
	sessions.Post("/upload", middleware.OfficerRequired(), sessionHandler.UploadDocument)
	sessions.Get("/", sessionHandler.ListSessions)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Get("/:id/document", sessionHandler.GetSessionDocument)
	sessions.Get("/:id/preview", sessionHandler.Preview)
	sessions.Get("/:id/export", sessionHandler.ExportSession)
	sessions.Put("/:id/items/:index", middleware.OfficerRequired(), sessionHandler.UpdateItem)
	sessions.Put("/:id/general", middleware.OfficerRequired(), sessionHandler.UpdateGeneral)
	sessions.Post("/:id/save", middleware.OfficerRequired(), sessionHandler.SaveSession)
	sessions.Delete("/:id", middleware.OfficerRequired(), sessionHandler.DeleteSession)

	// Admin routes (admin only)
	admin := api.Group("/admin", middleware.AuthRequired(cfg), middleware.AdminRequired())
	admin.Post("/users", h.AdminCreateUser)
	admin.Get("/users", h.AdminListUsers)
	admin.Get("/users/:id", h.AdminGetUser)
	admin.Put("/users/:id", h.AdminUpdateUser)
	admin.Delete("/users/:id", h.AdminDeleteUser)
	admin.Get("/stats", h.AdminGetStats)

	// Admin company routes
	admin.Post("/companies", h.CreateCompany)
	admin.Get("/companies", h.ListCompanies)
	admin.Get("/companies/:id", h.GetCompany)
	admin.Put("/companies/:id", h.UpdateCompany)
	admin.Delete("/companies/:id", h.DeleteCompany)

	// Admin transformation rule routes
	admin.Post("/companies/:id/rules", h.CreateRule)
	admin.Get("/companies/:id/rules", h.ListRules)
	admin.Put("/rules/:id", h.UpdateRule)
	admin.Delete("/rules/:id", h.DeleteRule)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

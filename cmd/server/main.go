package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ballot-backend/internal/auth"
	"ballot-backend/internal/config"
	"ballot-backend/internal/importer"
	"ballot-backend/internal/media"
	"ballot-backend/internal/metadata"
	"ballot-backend/internal/storage"
	"ballot-backend/internal/store"
)

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, db driver: %s)", cfg.Server.Port, cfg.Database.Driver)

	// 2. Connect to database
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	// 3. Bootstrap system tables and builtin content types
	if err := db.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to bootstrap system tables: %v", err)
	}

	// 4. Create registry and load content type metadata
	reg := metadata.NewRegistry()
	if err := metadata.LoadAll(ctx, db.DB, reg); err != nil {
		log.Fatalf("Failed to load metadata: %v", err)
	}

	// 5. Ensure content type tables exist
	migrator := store.NewMigrator(db)
	if err := migrator.MigrateAll(ctx, reg); err != nil {
		log.Fatalf("Failed to migrate content type tables: %v", err)
	}
	log.Println("Content type tables ready")

	// 6. Build the importer
	files := storage.NewLocalStorage(cfg.Storage.LocalPath)
	library := media.NewLibrary(db.Dialect, files)
	imp := importer.New(db, reg, library, cfg.Import)

	// 7. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 8. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 9. Auth routes (no auth required)
	authHandler := auth.NewHandler(db, cfg.JWTSecret)
	auth.RegisterRoutes(app, authHandler)

	// 10. Import route (auth required)
	authMW := auth.Middleware(cfg.JWTSecret)
	importHandler := importer.NewHandler(imp)
	importer.RegisterRoutes(app, importHandler, authMW)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *importer.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(importer.ErrorResponse{Error: appErr})
	}
	log.Printf("ERROR: %v", err)
	return c.Status(500).JSON(importer.ErrorResponse{
		Error: &importer.AppError{Code: "INTERNAL_ERROR", Message: "Internal server error"},
	})
}

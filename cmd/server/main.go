package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"go.uber.org/zap"

	"github.com/NurettinDemirhan/ecopacknav/internal/config"
	"github.com/NurettinDemirhan/ecopacknav/internal/database"
	"github.com/NurettinDemirhan/ecopacknav/internal/handlers"
	"github.com/NurettinDemirhan/ecopacknav/internal/logging"
	"github.com/NurettinDemirhan/ecopacknav/internal/middleware"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/types"

	_ "github.com/NurettinDemirhan/ecopacknav/docs/api" // Swagger docs
)

// @title EcoPackNav API
// @version 1.0.0
// @description Packaging lifecycle service: products, tiered packagings, partners, sales and recyclability reporting
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/NurettinDemirhan/ecopacknav

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name ecopack_session

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("ecopacknav")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	secret := []byte(cfg.SessionSecret)
	linker := services.NewLinker(db, zlog)
	activity := services.NewActivityLogger(db, zlog)

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	productHandler := &handlers.ProductHandler{DB: db, Linker: linker, Activity: activity}
	packagingHandler := &handlers.PackagingHandler{DB: db, Linker: linker, Activity: activity}
	partnerHandler := &handlers.PartnerHandler{DB: db, Linker: linker, Activity: activity}
	salesHandler := &handlers.SalesHandler{DB: db, Activity: activity}
	connectionHandler := &handlers.ConnectionHandler{DB: db, Linker: linker, Activity: activity}
	dashboardHandler := &handlers.DashboardHandler{DB: db}
	lookupHandler := &handlers.LookupHandler{DB: db}
	activityHandler := &handlers.ActivityHandler{Activity: activity}

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	// Authentication (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	// Everything below requires a session
	api.Use(middleware.AuthUser(secret))

	// Products. Fixed paths are registered before the :id routes so the
	// router does not swallow them as ids.
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/codes", productHandler.Codes)
	products.Get("/status", productHandler.Status)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Sales records of a product
	products.Get("/:id/sales", salesHandler.List)
	products.Post("/:id/sales", salesHandler.Add)
	products.Put("/:id/sales/:index", salesHandler.Update)
	products.Delete("/:id/sales/:index", salesHandler.Delete)

	// Product-side relinking
	products.Put("/:id/connections/packagings", connectionHandler.UpdateProductPackagings)
	products.Put("/:id/connections/customer", connectionHandler.UpdateProductCustomer)

	// Packagings
	packagings := api.Group("/packagings")
	packagings.Get("/", packagingHandler.List)
	packagings.Get("/codes", packagingHandler.Codes)
	packagings.Get("/missing-recyclability", packagingHandler.MissingRecyclability)
	packagings.Post("/", packagingHandler.Create)
	packagings.Get("/:id", packagingHandler.Get)
	packagings.Put("/:id", packagingHandler.Update)
	packagings.Delete("/:id", packagingHandler.Delete)
	packagings.Put("/:id/recyclability", packagingHandler.UpdateRecyclability)
	packagings.Put("/:id/connections/products", connectionHandler.UpdatePackagingProducts)
	packagings.Put("/:id/connections/supplier", connectionHandler.UpdatePackagingSupplier)

	// Partners
	partners := api.Group("/partners")
	partners.Get("/", partnerHandler.List)
	partners.Post("/", partnerHandler.Create)
	partners.Get("/:id", partnerHandler.Get)
	partners.Put("/:id", partnerHandler.Update)
	partners.Delete("/:id", partnerHandler.Delete)
	partners.Put("/:id/connections", connectionHandler.UpdatePartnerConnections)

	// Dashboard aggregation
	api.Get("/dashboard", dashboardHandler.Get)

	// Reference lists
	api.Get("/data-setup", lookupHandler.List)
	api.Post("/data-setup/items", lookupHandler.Create)
	api.Put("/data-setup/items/:id", lookupHandler.Update)
	api.Delete("/data-setup/items/:id", lookupHandler.Delete)

	// Activity feed
	api.Get("/activities", activityHandler.List)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	zlog.Info("Starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}

	zlog.Info("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

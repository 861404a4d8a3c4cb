package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowup-backend/config"
	"glowup-backend/database"
	"glowup-backend/firebase"
	"glowup-backend/geocoding"
	"glowup-backend/middleware"
	"glowup-backend/routes"
	"glowup-backend/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/juju/loggo"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal("Environment validation failed: ", err)
	}

	cfg := config.Load()
	if err := loggo.ConfigureLoggers("<root>=" + cfg.LogLevel); err != nil {
		log.Fatal("Invalid LOG_LEVEL: ", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if namespaces, err := database.Namespaces(context.Background(), db); err != nil {
		log.Printf("Warning: Could not list stored devices: %v", err)
	} else {
		log.Printf("%d device(s) have saved state", len(namespaces))
	}

	geocoder := geocoding.NewClient(geocoding.Config{
		BaseURL:   cfg.GeocoderURL,
		UserAgent: cfg.GeocoderUserAgent,
		Attempts:  cfg.GeocoderAttempts,
	})
	registry := store.NewRegistry(database.StorageFactory(db),
		store.WithLocation(loc),
		store.WithGeocoder(geocoder),
		store.WithGeocodeTimeout(cfg.GeocoderTimeout),
	)

	// Firebase is optional; without it images stay inline
	var storageClient firebase.StorageClient
	if cfg.FirebaseBucket != "" {
		if err := firebase.Init(context.Background()); err != nil {
			log.Printf("Warning: %v - images will be kept inline", err)
		} else {
			storageClient = firebase.NewStorageClient(cfg.FirebaseBucket)
		}
	}

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute, nil)
	defer authLimiter.Stop()

	// Setup Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.DeviceHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:          db,
		Registry:    registry,
		Storage:     storageClient,
		AuthLimiter: authLimiter,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Event streams hold their connections open; cut them off after 30 seconds.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed")
		}
	}

	log.Println("Server exited gracefully")
}

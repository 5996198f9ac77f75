package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/familyalbum/server/internal/config"
	"github.com/familyalbum/server/internal/handlers"
	custommw "github.com/familyalbum/server/internal/middleware"
	"github.com/familyalbum/server/internal/observability"
	"github.com/familyalbum/server/internal/repository"
	"github.com/familyalbum/server/internal/services"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize telemetry
	ctx := context.Background()
	telemetry, err := observability.Initialize(ctx, observability.NewConfig("familyalbum-server", serviceVersion))
	if err != nil {
		log.Printf("Warning: telemetry initialization failed: %v", err)
	}

	// Initialize database
	var db *sql.DB
	var dialect repository.Dialect
	var dbSystem string
	if cfg.UsePostgres() {
		log.Println("Using PostgreSQL database")
		db, err = repository.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
		}
		dialect = repository.DialectPostgres
		dbSystem = "postgresql"
	} else {
		log.Println("Using SQLite database")
		db, err = repository.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite database: %v", err)
		}
		dialect = repository.DialectSQLite
		dbSystem = "sqlite"
	}
	defer db.Close()

	var storeDB repository.DB = db
	if traced, err := observability.NewTraceDB(db, dbSystem); err == nil {
		storeDB = traced
	} else {
		log.Printf("Warning: database tracing unavailable: %v", err)
	}

	// Repositories. Comments and the guestbook fall back to a process-local
	// store when the SQL store errors, so the family never loses a message.
	photoRepo := repository.NewPhotoStore(storeDB, dialect, cfg.MediaBaseURL)
	commentStore := repository.NewFallbackCommentStore(repository.NewCommentRepository(storeDB, dialect))
	guestbookStore := repository.NewFallbackGuestbookStore(repository.NewGuestbookRepository(storeDB, dialect))
	subscriptionRepo := repository.NewSubscriptionRepository(storeDB, dialect)
	brandingRepo := repository.NewSettingsRepository(storeDB, dialect)

	// Services
	metrics, err := observability.NewAlbumMetrics()
	if err != nil {
		log.Printf("Warning: album metrics unavailable: %v", err)
	}

	storageService, err := services.NewMediaStorageService(
		cfg.MediaStorage.BasePath,
		cfg.MediaStorage.AllowedExtensions,
		cfg.MediaStorage.MaxFileSizeMB,
	)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}

	variantService := services.NewVariantService(cfg.MediaStorage.BasePath)
	exifService := services.NewEXIFService()
	sessionService := services.NewSessionService(cfg.Admin.SessionSecret, cfg.Admin.Password, cfg.Admin.PasswordHash)
	pushService := services.NewPushService(
		subscriptionRepo,
		cfg.Push.VAPIDPublicKey,
		cfg.Push.VAPIDPrivateKey,
		cfg.Push.SubscriberEmail,
		metrics,
	)

	// Handlers
	galleryHandler := handlers.NewGalleryHandler(photoRepo)
	commentHandler := handlers.NewCommentHandler(photoRepo, commentStore, metrics)
	guestbookHandler := handlers.NewGuestbookHandler(guestbookStore, metrics)
	notificationHandler := handlers.NewNotificationHandler(subscriptionRepo, pushService)
	adminHandler := handlers.NewAdminHandler(
		photoRepo,
		brandingRepo,
		sessionService,
		storageService,
		variantService,
		exifService,
		pushService,
		metrics,
		cfg.MediaBaseURL,
	)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.TracingMiddleware("familyalbum-server"))
	if httpMetrics, err := observability.NewHTTPMetrics(); err == nil {
		r.Use(observability.MetricsMiddleware(httpMetrics))
	} else {
		log.Printf("Warning: HTTP metrics unavailable: %v", err)
	}

	// Routes
	r.Get("/health", healthHandler.Health)
	r.Get("/api/health", healthHandler.Health)

	r.Route("/api/photos", func(r chi.Router) {
		r.Get("/", galleryHandler.List)
		r.Get("/month", galleryHandler.ListMonth)
		r.Get("/highlights", galleryHandler.Highlights)
		r.Get("/summary", galleryHandler.Summary)
		r.Get("/{photoId}/comments", commentHandler.List)
		r.Post("/{photoId}/comments", commentHandler.Create)
	})

	r.Route("/api/guestbook", func(r chi.Router) {
		r.Get("/", guestbookHandler.List)
		r.Post("/", guestbookHandler.Create)
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/vapid-key", notificationHandler.VapidKey)
		r.Post("/subscribe", notificationHandler.Subscribe)
		r.Delete("/subscribe", notificationHandler.Unsubscribe)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/auth", adminHandler.Auth)
		r.Post("/logout", adminHandler.Logout)
		r.Get("/session", adminHandler.Session)

		r.Group(func(r chi.Router) {
			r.Use(custommw.AdminAuth(sessionService))
			r.Get("/photos", adminHandler.ListPhotos)
			r.Patch("/photos/{id}", adminHandler.UpdatePhoto)
			r.Delete("/photos/{id}", adminHandler.DeletePhoto)
			r.Post("/upload", adminHandler.Upload)
			r.Get("/pwa-branding", adminHandler.GetBranding)
			r.Post("/pwa-branding", adminHandler.SaveBranding)
			r.Delete("/pwa-branding", adminHandler.DeleteBranding)
		})
	})

	// Stored media is served directly from disk
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaStorage.BasePath))))

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Longer for uploads
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Family Album server starting on %s", cfg.ServerAddress)
		log.Printf("Media storage path: %s", cfg.MediaStorage.BasePath)
		log.Printf("Max file size: %dMB", cfg.MediaStorage.MaxFileSizeMB)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Printf("Telemetry shutdown error: %v", err)
		}
	}

	log.Println("Server stopped")
}

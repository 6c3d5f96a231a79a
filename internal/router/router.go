package router

import (
	"log"
	"net/http"

	"github.com/artfolio/backend/internal/handlers"
	"github.com/artfolio/backend/internal/middleware"
	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/artfolio/backend/pkg/config"
	"github.com/artfolio/backend/pkg/mailer"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))
	e.Use(eMiddleware.BodyLimit("100M"))
	e.HTTPErrorHandler = httpErrorHandler
	log.Println("Global middleware configured.")
}

// httpErrorHandler normalizes all errors to a {"message": ...} body so
// repository errors never leak raw driver messages for common cases.
func httpErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case err == mongo.ErrNoDocuments:
		code = http.StatusNotFound
		message = "Resource not found"
	case mongo.IsDuplicateKeyError(err):
		code = http.StatusBadRequest
		message = "Resource already exists"
	default:
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("request error: %v", err)
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, echo.Map{"message": message})
		}
		if err != nil {
			log.Printf("error handler failed: %v", err)
		}
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config) {
	// AutoMigrate the PostgreSQL view ledger
	if err := db.Postgres.AutoMigrate(&models.ArtworkView{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.Static("/uploads", cfg.UploadDir)

	authRequired := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTSecret)

	// --- Initialize Repositories ---
	mgdb := db.Mongo.Database(cfg.MongoDatabase)
	userRepo := repositories.NewMongoUserRepository(mgdb)
	artworkRepo := repositories.NewMongoArtworkRepository(mgdb)
	notificationRepo := repositories.NewMongoNotificationRepository(mgdb)
	viewRepo := repositories.NewGormViewRepository(db.Postgres)

	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword)

	// --- Auth routes ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo, mail, cfg.JWTSecret, cfg.ClientURL, cfg.GoogleClientID)
	authHandler.RegisterAuthRoutes(authGroup, authRequired)
	log.Println("Auth routes configured.")

	// --- User routes ---
	userGroup := e.Group("/api/users")
	userHandler := handlers.NewUserHandler(userRepo, cfg.UploadDir)
	userHandler.RegisterUserRoutes(userGroup, authRequired)

	followHandler := handlers.NewFollowHandler(userRepo, notificationRepo)
	followHandler.RegisterFollowRoutes(userGroup, authRequired)
	log.Println("User routes configured.")

	// --- Artwork routes ---
	artworkGroup := e.Group("/api/artworks")
	artworkHandler := handlers.NewArtworkHandler(artworkRepo, userRepo, cfg.UploadDir)
	artworkHandler.RegisterArtworkRoutes(artworkGroup, authRequired)

	feedHandler := handlers.NewFeedHandler(artworkRepo, userRepo)
	feedHandler.RegisterFeedRoutes(artworkGroup, optionalAuth)

	likeHandler := handlers.NewLikeHandler(artworkRepo, userRepo, notificationRepo, viewRepo)
	likeHandler.RegisterLikeRoutes(artworkGroup, authRequired, optionalAuth)

	commentHandler := handlers.NewCommentHandler(artworkRepo, userRepo, notificationRepo)
	commentHandler.RegisterCommentRoutes(artworkGroup, authRequired)
	log.Println("Artwork routes configured.")

	// --- Notification routes ---
	notificationGroup := e.Group("/api/notifications", authRequired)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(notificationGroup)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/handlers"
	"foodgram/internal/middleware"
	"foodgram/internal/repositories"
	"foodgram/internal/services"
	"foodgram/internal/storage"
	"foodgram/pkg/blocklist"
	"foodgram/pkg/rabbitmq"
)

const maxBodySize = 10 * 1024 * 1024 // base64 images travel in JSON bodies

// Server is the HTTP application together with the resources it owns.
type Server struct {
	App         *fiber.App
	AuthService *services.AuthService
	mq          *rabbitmq.Client
}

// Close releases the broker connection.
func (s *Server) Close() {
	if s.mq == nil {
		return
	}
	if err := s.mq.Close(); err != nil {
		log.Printf("Error closing RabbitMQ client: %v", err)
	}
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(ctx context.Context, cfg *config.Config, db *gorm.DB) (*Server, error) {
	images, err := newImageStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	revoked := blocklist.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// --- Initialize RabbitMQ Client ---
	// Events are optional: without a broker recipes are still written.
	var mqClient *rabbitmq.Client
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: recipe events disabled: %v", err)
			mqClient = nil
		} else {
			publisher = mqClient
			if err := mqClient.ConsumeRecipeEvents(handleRecipeEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	followRepo := repositories.NewGORMFollowRepository(db)
	ingredientRepo := repositories.NewGORMIngredientRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	relationRepo := repositories.NewGORMRelationRepository(db)

	// --- Initialize Services ---
	projector := services.NewProjector(followRepo, relationRepo, images)
	authService := services.NewAuthService(userRepo, revoked, cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(userRepo, images, projector)
	followService := services.NewFollowService(userRepo, followRepo, recipeRepo, projector)
	ingredientService := services.NewIngredientService(ingredientRepo)
	recipeService := services.NewRecipeService(recipeRepo, ingredientRepo, images, projector, publisher)
	relationService := services.NewRelationService(recipeRepo, relationRepo, projector)

	// --- Initialize Handlers ---
	validate := handlers.NewValidator()
	authHandler := handlers.NewAuthHandler(authService, validate)
	userHandler := handlers.NewUserHandler(userService, followService, validate, cfg.PublicBaseURL)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, relationService, validate, cfg.PublicBaseURL)

	app := fiber.New(fiber.Config{
		AppName:   "foodgram",
		BodyLimit: maxBodySize,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New()) // Request logger
	app.Use(cors.New())

	if cfg.MediaBackend == "local" {
		app.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	// --- API Routes ---
	requireAuth := middleware.AuthRequired(authService)
	api := app.Group("/api", middleware.OptionalAuth(authService))
	authHandler.RegisterRoutes(api, requireAuth)
	userHandler.RegisterRoutes(api, requireAuth)
	ingredientHandler.RegisterRoutes(api)
	recipeHandler.RegisterRoutes(api, requireAuth)
	recipeHandler.RegisterShortLinks(app)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		database := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			database = "unavailable"
		}
		broker := "disabled"
		if mqClient != nil {
			broker = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
			"rabbitmq": broker,
		})
	})

	return &Server{App: app, AuthService: authService, mq: mqClient}, nil
}

func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.MediaBackend {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 media store: %w", err)
		}
		log.Printf("Media stored in S3 bucket %s", cfg.S3Bucket)
		return store, nil
	default:
		log.Printf("Media stored under %s, served at %s", cfg.MediaRoot, cfg.MediaURL)
		return storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL), nil
	}
}

// handleRecipeEvent logs recipe lifecycle events. Malformed messages are
// rejected so they are not redelivered.
func handleRecipeEvent(msg amqp.Delivery) error {
	var event services.RecipeEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("malformed recipe event: %w", err)
	}
	log.Printf("Received %s (Tag: %d): recipe %s %q by %s", event.Type, msg.DeliveryTag, event.RecipeID, event.Name, event.AuthorID)
	return nil
}

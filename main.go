package main

import (
	"crypto/rand"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"flagship/internal/handlers"
	"flagship/internal/middleware"
	"flagship/internal/models"
	"flagship/internal/repositories"
	"flagship/internal/services"
	"flagship/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("SQLITE_PATH", "flagship.db")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	// Postgres when a DSN is configured, a local SQLite file otherwise.
	// TranslateError turns driver unique-constraint violations into
	// gorm.ErrDuplicatedKey, which the services map to Duplicate* errors.
	var dialector gorm.Dialector
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(viper.GetString("SQLITE_PATH"))
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.Flag{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Token signing secret ---
	// Generated once per process when not configured. Restarting the process
	// invalidates all outstanding tokens; there is no revocation list.
	jwtSecret := []byte(viper.GetString("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		jwtSecret = make([]byte, 32)
		if _, err := rand.Read(jwtSecret); err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		log.Println("JWT_SECRET not set, generated a process-lifetime signing key")
	}

	// --- RabbitMQ (optional) ---
	// Flag lifecycle events are an audit feed; the service runs without a
	// broker.
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Printf("Warning: failed to initialize RabbitMQ client, flag events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	projectRepo := repositories.NewGORMProjectRepository(db)
	flagRepo := repositories.NewGORMFlagRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	projectService := services.NewProjectService(projectRepo)
	flagService := services.NewFlagService(flagRepo, mqClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	flagHandler := handlers.NewFlagHandler(flagService, projectService)

	// --- Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())
	app.Use(cors.New())

	// --- Routes ---
	// Signup and login are public; everything under /projects requires a
	// valid bearer token.
	authHandler.RegisterRoutes(app)

	projectRoutes := app.Group("/projects", middleware.AuthRequired(authService, userRepo))
	projectHandler.RegisterRoutes(projectRoutes)
	flagHandler.RegisterRoutes(projectRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Flag Event Consumer ---
	// Audit log for flag lifecycle events published by the flag service.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for flag events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received flag event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeFlagEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

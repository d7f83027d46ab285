package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/redis/go-redis/v9"

	"peopledesk/internal/api"
	"peopledesk/internal/config"
	"peopledesk/internal/database"
	"peopledesk/internal/department"
	"peopledesk/internal/employee"
	"peopledesk/internal/logger"
	"peopledesk/internal/middleware"
	"peopledesk/internal/ratelimit"
	"peopledesk/internal/telemetry"
	"peopledesk/internal/validator"
)

func main() {
	cfg := config.Load()
	logg := logger.New(cfg)

	ctx := context.Background()

	tel, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := tel.Shutdown(ctx); err != nil {
			logg.Error("Telemetry shutdown failed", "error", err)
		}
	}()

	// Connect to the database
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Session storage shares the Postgres instance
	sessionStorage := postgres.New(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Name,
		Username: cfg.Database.User,
		Password: cfg.Database.Password,
		Table:    "sessions",
		Reset:    false,
	})
	sessions := session.New(session.Config{
		Storage:        sessionStorage,
		KeyLookup:      "cookie:" + cfg.Session.CookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Server.Environment == "production",
		Expiration:     cfg.Session.Expiration,
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	limiter := ratelimit.New(redisClient)

	validate := validator.New()
	employees := employee.NewManager(db, logg)
	departments := department.NewManager(db, logg)

	handler := api.NewHandler(db, employees, departments, sessions, validate, limiter, logg)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	app.Use(middleware.Logger())
	if cfg.Telemetry.Enabled {
		app.Use(telemetry.FiberMiddleware(cfg.Telemetry.ServiceName))
	}
	handler.Register(app)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logg.Info("Shutting down server")
		if err := app.Shutdown(); err != nil {
			logg.Error("Server shutdown failed", "error", err)
		}
	}()

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logg.Info("Starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

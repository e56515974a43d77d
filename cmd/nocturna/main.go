package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/owletdev/nocturna/internal/api"
	"github.com/owletdev/nocturna/internal/cli"
	"github.com/owletdev/nocturna/internal/config"
	"github.com/owletdev/nocturna/internal/db"
	"github.com/owletdev/nocturna/internal/services"
)

func main() {
	cfg := config.Load()

	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		if len(os.Args) < 3 {
			log.Fatal("usage: nocturna reset-password <email>")
		}
		if err := cli.RunResetPasswordCommand(cfg.DBPath, os.Args[2]); err != nil {
			log.Fatalf("reset password failed: %v", err)
		}
		return
	}

	location := mustLoadLocation(cfg.Timezone)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	handler := api.NewHandler(database, cfg.SecretKey, location, cfg.PushWebhookURL)

	app := fiber.New(fiber.Config{
		AppName:               "Nocturna",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	prometheus := fiberprometheus.New("nocturna")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	api.RegisterRoutes(app, handler)

	sweeper := services.NewSweeper(handler.EmergencyService(), cfg.SweepInterval)
	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	sweeper.Start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Nocturna listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Port, cfg.DBPath, location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

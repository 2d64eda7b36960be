package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/config"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/gateway"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/http/handlers"
	applog "github.com/ashwin-2504/BharatMandi-Backend/internal/log"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging alongside stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	gw := gateway.New(cfg.MockServiceURL, cfg.MockAPIKey)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(compress.New())

	max := 1000
	if cfg.Env == "production" {
		max = 100
	}
	app.Use(limiter.New(limiter.Config{
		Max:        max,
		Expiration: 15 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Warn(c, "rate.limit.hit", nil, nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, gw)
	deps.Register(app)

	// Wake the mock service; the flow endpoints do not depend on this.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if !gw.CheckHealth(ctx) {
			applog.Warn(nil, "gateway.health.unreachable", nil, map[string]any{"url": cfg.MockServiceURL})
		}
	}()

	// ---------- Graceful shutdown ----------
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		applog.Info(nil, "server.shutdown", nil)
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("[warn] forced shutdown: %v", err)
		}
	}()

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "env": cfg.Env})
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tradepost/internal/config"
	"tradepost/internal/http/handlers"
	applog "tradepost/internal/log"
	"tradepost/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
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

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	deps := handlers.NewDeps(db, cfg)

	// Auth (login throttled)
	app.Post("/signup", deps.AuthHandler.Signup)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)

	// Listings
	app.Get("/listings", deps.ListingHandler.List)
	app.Post("/listings", deps.ListingHandler.Create)
	app.Get("/listings/:id", deps.ListingHandler.Get)
	app.Put("/listings/:id", deps.ListingHandler.Update)
	app.Delete("/listings/:id", deps.ListingHandler.Delete)
	app.Get("/random", deps.ListingHandler.Random)

	// Orders
	app.Post("/buy/:listing_id", deps.OrderHandler.Buy)
	app.Post("/cancel/:transaction_id", deps.OrderHandler.Cancel)

	// Cart
	app.Get("/cart/:user_id", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Delete("/cart", deps.CartHandler.Remove)

	// Wallet & profile
	app.Post("/wallet/deposit", deps.WalletHandler.Deposit)
	app.Get("/profile/:user_id", deps.ProfileHandler.Get)

	// Reviews
	app.Get("/reviews/:listing_id", deps.ReviewHandler.List)
	app.Post("/reviews/:listing_id", deps.ReviewHandler.Post)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tradepost/internal/domain"
)

type Config struct {
	Port            string
	DBDSN           string
	LogFile         string
	AllowOrigins    string
	CancelWindow    time.Duration
	StartingBalance domain.Cents
}

func Load() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "tradepost.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	origins := os.Getenv("ALLOW_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	window := 24 * time.Hour
	if v := os.Getenv("CANCEL_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Printf("[warn] ignoring bad CANCEL_WINDOW=%q: %v", v, err)
		} else {
			window = d
		}
	}

	starting := domain.Cents(10000) // new accounts start with 100.00
	if v := os.Getenv("STARTING_BALANCE"); v != "" {
		c, err := domain.ParseAmount(v)
		if err != nil || c < 0 {
			log.Printf("[warn] ignoring bad STARTING_BALANCE=%q: %v", v, err)
		} else {
			starting = c
		}
	}

	cfg := Config{
		Port:            port,
		DBDSN:           dsn,
		LogFile:         logFile,
		AllowOrigins:    origins,
		CancelWindow:    window,
		StartingBalance: starting,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s CANCEL_WINDOW=%s STARTING_BALANCE=%s",
		cfg.Port, cfg.DBDSN, cfg.CancelWindow, cfg.StartingBalance)
	return cfg
}

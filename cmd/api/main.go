package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"supplier-inventory-api/internal"
	"supplier-inventory-api/internal/config"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	srv := internal.NewServer(cfg)

	log.Println("Starting Supplier Inventory API server...")
	log.Printf("Retry policy: %d attempts, %v initial delay, x%g backoff",
		cfg.RetryMaxAttempts, cfg.RetryInitialDelay, cfg.RetryBackoffFactor)
	if cfg.APIKey != "" {
		log.Println("API key protection enabled for mutating endpoints")
	}
	log.Println("Listening on", cfg.BindAddr)

	log.Fatal(http.ListenAndServe(cfg.BindAddr, srv.Router))
}

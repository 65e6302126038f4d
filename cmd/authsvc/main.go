package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/you/authsvc/internal/app"
	"github.com/you/authsvc/internal/config"
)

func main() {
	// .env is optional; deployment supplies real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}

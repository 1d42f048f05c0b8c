package main

import (
	"log"

	"prop-tracker/internal/config"
	"prop-tracker/internal/database"
)

// Standalone migration runner for deploy pipelines that migrate before
// starting the API process.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("Migrations applied successfully")
}

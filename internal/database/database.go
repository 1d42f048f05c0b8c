package database

import (
	"fmt"
	"log"

	"prop-tracker/internal/config"
	"prop-tracker/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a database connection using the configured driver.
func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	default:
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("Database connection established (%s)", cfg.Database.Driver)
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	tables := []interface{}{
		&models.Bet{},
		&models.Prop{},
		&models.PropMissStat{},
		&models.AnalyticsCache{},
	}

	for _, model := range tables {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

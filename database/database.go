package database

import (
	"fmt"
	"log"
	"os"

	"github.com/taxdesk/backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect initializes the database connection. Postgres is used when
// DATABASE_URL is set; otherwise a local SQLite file keeps dev setups
// dependency-free.
func Connect() error {
	var err error

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "taxdesk.db"
		}
		log.Printf("DATABASE_URL not set, using SQLite at %s", path)
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	// Auto-migrate models
	if err := AutoMigrate(DB); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	return nil
}

// AutoMigrate runs database migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Invoice{},
		&models.InvoiceItem{},
	)
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

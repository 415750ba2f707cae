package database

import (
	"fmt"
	"log"

	"github.com/rogelio-fraga-dev/barberbot/internal/config"
	"github.com/rogelio-fraga-dev/barberbot/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL when DB_HOST is configured, otherwise falls
// back to a local sqlite file, and runs the auto-migration.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	if cfg.DBHost != "" {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		log.Println("Connected to PostgreSQL successfully")
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		log.Printf("Connected to sqlite database at %s", cfg.DBPath)
	}

	if err := db.AutoMigrate(
		&models.Contact{},
		&models.Interaction{},
		&models.ScheduledAction{},
	); err != nil {
		return nil, fmt.Errorf("failed to run auto-migration: %w", err)
	}

	log.Println("Database migration completed")
	return db, nil
}

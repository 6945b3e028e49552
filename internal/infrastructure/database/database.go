package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"parley-server/services/negotiation-api/internal/infrastructure/database/entities"
)

// Config holds database connection settings.
type Config struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        gormlogger.LogLevel
}

// Connect opens the PostgreSQL connection and configures the pool.
func Connect(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// AutoMigrate applies the schema. Order matters: referenced tables first so
// the cascade constraints can attach.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	models := []interface{}{
		&entities.Case{},
		&entities.Simulation{},
		&entities.Message{},
		&entities.Bookmark{},
		&entities.Document{},
	}
	for _, model := range models {
		if err := db.WithContext(ctx).AutoMigrate(model); err != nil {
			log.Error().Err(err).Msgf("failed to auto migrate schema: %T", model)
			return err
		}
	}
	log.Info().Msg("database schema up to date")
	return nil
}

package database

import (
	"errors"
	"log/slog"
	"time"

	"github.com/thereayou/warbler/internal/config"
	"github.com/thereayou/warbler/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the Postgres database named by cfg and migrates the schema.
func Connect(cfg *config.Config) (*Database, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return Open(postgres.Open(cfg.DatabaseURL), cfg.DBMaxOpenConns)
}

// Open connects through any GORM dialector, caps the pool and migrates.
func Open(dialector gorm.Dialector, maxOpenConns int) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, err
	}

	if maxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follow{}, &models.Like{})
}

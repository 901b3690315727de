package database

import (
	"context"
	"errors"

	"github.com/thereayou/warbler/internal/models"
	"gorm.io/gorm"
)

// Database is the persistence layer. Every method works the same whether the
// receiver wraps the root connection or a transaction handed out by Transaction.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Gorm exposes the underlying handle for wiring (health checks, seeding).
func (d *Database) Gorm() *gorm.DB {
	return d.db
}

// Transaction runs fn in a single database transaction. Any error returned by fn,
// including a constraint violation, rolls back every write made through tx.
func (d *Database) Transaction(ctx context.Context, fn func(tx *Database) error) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Database{db: tx})
	})
	return writeError(err)
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func readError(resource string, id interface{}, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

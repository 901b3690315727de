package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/thereayou/warbler/internal/models"
	"gorm.io/gorm"
)

// IsIntegrityViolation reports whether err is a storage-level constraint rejection:
// unique, not-null, foreign-key or check.
func IsIntegrityViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	// Postgres SQLSTATE class 23: integrity constraint violation.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}

	// SQLite reports "UNIQUE constraint failed", "FOREIGN KEY constraint failed", ...
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") ||
		(strings.Contains(msg, "violates") && strings.Contains(msg, "constraint"))
}

func writeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if IsIntegrityViolation(err) {
		return models.NewIntegrityError(err)
	}
	return models.NewInternalError(err)
}

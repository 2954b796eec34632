package repository

import (
	"errors"
	"strings"

	"warbler/internal/models"

	"gorm.io/gorm"
)

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505, sqlite "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// userWriteError maps a failed users insert/update onto the domain error kinds.
func userWriteError(err error) error {
	if !isUniqueConstraintError(err) {
		return models.NewInternalError(err)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "username"):
		return models.NewConflictError("Username", err)
	case strings.Contains(msg, "email"):
		return models.NewConflictError("Email", err)
	default:
		return models.NewConflictError("Username or email", err)
	}
}

// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"cinetheque/internal/database"

	"gorm.io/gorm"
)

// ErrConflict wraps unique constraint violations so services can map them to
// a CONFLICT response without knowing the SQL dialect.
var ErrConflict = errors.New("conflict")

func wrapWriteError(err error, what string) error {
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	}
	return err
}

// IsNotFound reports whether err is gorm's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?.
func likePattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + q + "%"
}

// orderDirection normalizes a requested order to ASC or DESC.
func orderDirection(order string, fallback string) string {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "asc":
		return "ASC"
	case "desc":
		return "DESC"
	default:
		return fallback
	}
}

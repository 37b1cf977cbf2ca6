package common

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// TranslateDBError maps gorm and driver errors onto the APIError taxonomy.
// Errors that already are APIErrors pass through unchanged.
func TranslateDBError(err error, notFoundDetail string) error {
	if err == nil {
		return nil
	}
	if _, ok := IsAPIError(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound.WithDetails(notFoundDetail)
	}
	if IsUniqueViolation(err) {
		return ErrConflict.WithDetails("A record with the same unique key already exists.")
	}
	if IsForeignKeyViolation(err) {
		return ErrConflict.WithDetails("The record references a row that does not exist.")
	}
	return err
}

// IsUniqueViolation reports a unique constraint failure from postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports a foreign key failure from postgres or sqlite.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

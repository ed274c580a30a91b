// Package store persists principals and their links. Every link query takes
// the owner's id and filters on it in SQL; there is no unscoped link accessor.
package store

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a requested entity does not exist or is
	// not visible to the requesting principal.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when an insert or update would give two
	// principals the same email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// newID returns a time-ordered UUIDv7 string, so ORDER BY id follows
// insertion order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
// Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}

// violates reports whether a unique violation names the given column or
// constraint fragment.
func violates(err error, column string) bool {
	if !isUniqueConstraintError(err) {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return strings.Contains(pqErr.Constraint, column)
	}
	return strings.Contains(strings.ToLower(err.Error()), column)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

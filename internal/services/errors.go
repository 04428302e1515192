package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/lironatar/TasksList/pkg/errors"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniqueFragment = "unique constraint failed"
)

// isDuplicateKey reports whether err is a unique index violation on any supported driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil {
		return pgErr.Code == pgUniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil {
		return myErr.Number == mysqlDuplicateEntry
	}

	return strings.Contains(strings.ToLower(err.Error()), sqliteUniqueFragment)
}

// writeError maps a failed insert or update: duplicates become conflict, anything else is wrapped with op.
func writeError(op string, err error, conflict *apperrors.AppError) error {
	if conflict != nil && isDuplicateKey(err) {
		return conflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("record already exists")
	ErrReferenced = errors.New("record is referenced by other records")
	// ErrConflict reports a conditional update that matched no row.
	ErrConflict = errors.New("record changed concurrently")
	// ErrInvalidValue reports a value the column type or a check constraint rejected.
	ErrInvalidValue = errors.New("value does not fit the column")
)

// PostgreSQL SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
	pgNumericOutOfRange   = "22003"
)

// translate maps driver errors onto the package sentinels and wraps with op.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrReferenced)
		case pgCheckViolation, pgStringTooLong, pgNumericOutOfRange:
			return fmt.Errorf("%s: %w: %s", op, ErrInvalidValue, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"

	mysqlDuplicateEntry = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock       = 1213
)

// IsDuplicateKeyErr reports a unique constraint violation on any supported
// dialect.
func IsDuplicateKeyErr(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, gorm.ErrDuplicatedKey),
		hasPGCode(err, pgUniqueViolation),
		hasMySQLCode(err, mysqlDuplicateEntry):
		return true
	}
	// sqlite drivers only expose the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsLockTimeout reports a lock_timeout or statement_timeout abort.
func IsLockTimeout(err error) bool {
	return hasPGCode(err, pgLockNotAvailable) ||
		hasPGCode(err, pgQueryCanceled) ||
		hasMySQLCode(err, mysqlLockWaitTimeout)
}

func IsSerializationFailure(err error) bool {
	return hasPGCode(err, pgSerializationFailure) ||
		hasPGCode(err, pgDeadlockDetected) ||
		hasMySQLCode(err, mysqlDeadlock)
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func hasMySQLCode(err error, number uint16) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == number
}

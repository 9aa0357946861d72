package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: orders.order_no")))
	assert.True(t, IsDuplicateKeyErr(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsDuplicateKeyErr(errors.New("boom")))
}

func TestLockAndSerializationClassification(t *testing.T) {
	assert.True(t, IsLockTimeout(&pgconn.PgError{Code: "55P03"}))
	assert.True(t, IsLockTimeout(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "57014"})))
	assert.False(t, IsLockTimeout(&pgconn.PgError{Code: "40001"}))

	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, IsSerializationFailure(&mysql.MySQLError{Number: 1213}))
	assert.True(t, IsLockTimeout(&mysql.MySQLError{Number: 1205}))
	assert.False(t, IsSerializationFailure(errors.New("boom")))
}

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)

	d, err := Dialect(Config{Type: "sqlite", Name: "test"})
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}

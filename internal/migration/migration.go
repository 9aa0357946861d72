package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
	customerdomain "github.com/smallbiznis/retailerp/internal/customer/domain"
	inventorydomain "github.com/smallbiznis/retailerp/internal/inventory/domain"
	loyaltydomain "github.com/smallbiznis/retailerp/internal/loyalty/domain"
	numberingdomain "github.com/smallbiznis/retailerp/internal/numbering/domain"
	orderdomain "github.com/smallbiznis/retailerp/internal/order/domain"
	"github.com/smallbiznis/retailerp/pkg/db"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&numberingdomain.NumberingRule{},
		&inventorydomain.Inventory{},
		&inventorydomain.InventoryMovement{},
		&customerdomain.Customer{},
		&loyaltydomain.PointsLog{},
		&orderdomain.PaymentMethod{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&orderdomain.Payment{},
		&auditdomain.AuditLog{},
	}
}

// Migrate brings the schema up to date. Postgres uses the versioned SQL
// files; sqlite and mysql development databases are auto-migrated from the
// models.
func Migrate(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if strings.EqualFold(strings.TrimSpace(dbType), db.TypePostgres) {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}

	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "retailerp_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}

package infra

import (
	"fmt"
	"strings"

	"loyaltypos/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection and runs AutoMigrate.
//
// Two deployments are supported: postgres:// DSNs open a pgx-backed pool for
// the multi-register setup, anything else is treated as a SQLite file path for
// the embedded single-register setup.
func NewDatabase(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, isPG := dialector.(*postgres.Dialector); isPG {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	} else {
		// SQLite: serialize writers to avoid SQLITE_BUSY under the worker pool.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Shared with integration tests,
// which open their own throwaway databases.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Customer{},
		&model.Payment{},
		&model.Redemption{},
		&model.Voucher{},
		&model.Operator{},
	)
}

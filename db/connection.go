package db

import (
	"fmt"
	"strings"
	"time"

	"weddingsite/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqlitePragmas let page renders read while an RSVP insert holds the write lock.
const sqlitePragmas = "_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"

// OpenGorm opens a gorm DB connection using the specified driver and DSN.
// driver: "sqlite" (default) or "postgres"
// dsn: sqlite file path or Postgres DSN.
func OpenGorm(driver, dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", DriverSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("sqlite requires a db path")
		}
		dialector = sqlite.Open(sqliteDSN(dsn))
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres requires a DSN")
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", driver)
	}

	gormDB, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if driver == DriverPostgres {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return gormDB, nil
}

// sqliteDSN appends the connection pragmas unless the caller already set
// query parameters.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") || path == ":memory:" {
		return path
	}
	return path + "?" + sqlitePragmas
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

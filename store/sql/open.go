package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// OpenPostgres opens a postgres-backed bun handle for the webhook stores.
func OpenPostgres(dsn string) (*bun.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlstore: postgres dsn is required")
	}
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open postgres: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// OpenSQLite opens a sqlite-backed bun handle, mostly used for local
// setups and tests.
func OpenSQLite(dsn string) (*bun.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlstore: sqlite dsn is required")
	}
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open sqlite: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewRepositoryFactoryFromDSN opens the driver named by dialect and
// builds the store set on top of it.
func NewRepositoryFactoryFromDSN(dialect, dsn string) (*RepositoryFactory, error) {
	var (
		db  *bun.DB
		err error
	)
	switch dialect {
	case "postgres":
		db, err = OpenPostgres(dsn)
	case "sqlite":
		db, err = OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, err
	}
	return NewRepositoryFactoryFromDB(db)
}

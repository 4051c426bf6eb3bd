package db

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/masterrol/internal/dbx"
	"github.com/dmitrijs2005/masterrol/internal/server/config"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	mysqlDuplicateEntry    = 1062
	postgresUniqueViolated = "23505"
)

var (
	MySQL = dbx.Dialect{
		Name:              config.DriverMySQL,
		Goose:             "mysql",
		Placeholder:       dbx.Question,
		IsUniqueViolation: isMySQLUniqueViolation,
	}
	SQLite = dbx.Dialect{
		Name:              config.DriverSQLite,
		Goose:             "sqlite3",
		Placeholder:       dbx.Question,
		IsUniqueViolation: isSQLiteUniqueViolation,
	}
	Postgres = dbx.Dialect{
		Name:              config.DriverPostgres,
		Goose:             "postgres",
		Placeholder:       dbx.Dollar,
		Returning:         true,
		IsUniqueViolation: isPostgresUniqueViolation,
	}
)

// DialectFor maps a configured driver name to its dialect.
func DialectFor(driver string) (dbx.Dialect, error) {
	switch driver {
	case config.DriverMySQL:
		return MySQL, nil
	case config.DriverSQLite:
		return SQLite, nil
	case config.DriverPostgres:
		return Postgres, nil
	default:
		return dbx.Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// sqlDriverName is the database/sql registration name for a configured driver.
func sqlDriverName(driver string) string {
	if driver == config.DriverPostgres {
		return "pgx"
	}
	return driver
}

func isMySQLUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func isPostgresUniqueViolation(err error) bool {
	var pe *pgconn.PgError
	return errors.As(err, &pe) && pe.Code == postgresUniqueViolated
}

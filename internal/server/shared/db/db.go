// Package db is the connection provider: it turns the configured driver and
// DSN into a ready *sql.DB and the matching dbx.Dialect.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/dmitrijs2005/masterrol/internal/dbx"
	"github.com/dmitrijs2005/masterrol/internal/filex"
	"github.com/dmitrijs2005/masterrol/internal/server/config"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqliteParams are appended to SQLite DSNs unless the key is already there.
var sqliteParams = []struct{ key, param string }{
	{"_pragma=foreign_keys", "_pragma=foreign_keys(1)"},
	{"_time_format=", "_time_format=sqlite"},
}

// PrepareDSN applies the driver options the repositories depend on.
//
// MySQL: parseTime so DATETIME scans into time.Time, UTC location, and
// clientFoundRows so an UPDATE that matches a row but changes nothing still
// reports it as affected.
// SQLite: foreign keys on for every connection (ON DELETE CASCADE depends on
// it) and a sortable text format for stored times.
func PrepareDSN(driver, dsn string) (string, error) {
	switch driver {
	case config.DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.ClientFoundRows = true
		cfg.Loc = time.UTC
		return cfg.FormatDSN(), nil
	case config.DriverSQLite:
		for _, p := range sqliteParams {
			if strings.Contains(dsn, p.key) {
				continue
			}
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + p.param
		}
		return dsn, nil
	case config.DriverPostgres:
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the configured store and verifies it answers.
// A store that cannot be reached yields common.ErrorStoreUnavailable.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, dbx.Dialect, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, dbx.Dialect{}, err
	}

	prepared, err := PrepareDSN(driver, dsn)
	if err != nil {
		return nil, dbx.Dialect{}, err
	}

	db, err := sql.Open(sqlDriverName(driver), prepared)
	if err != nil {
		return nil, dbx.Dialect{}, fmt.Errorf("db open error: %w", err)
	}

	if driver == config.DriverSQLite {
		if path, ok := sqliteFilePath(dsn); ok {
			if _, err := filex.EnsureParentDir(path); err != nil {
				_ = db.Close()
				return nil, dbx.Dialect{}, fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
			}
		}
		// one writer at a time; also keeps ":memory:" databases on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dbx.Dialect{}, fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}

	return db, dialect, nil
}

// sqliteFilePath extracts the on-disk path of a SQLite DSN. In-memory
// databases have none.
func sqliteFilePath(dsn string) (string, bool) {
	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return "", false
	}
	return path, true
}

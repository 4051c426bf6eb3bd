package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/dmitrijs2005/masterrol/internal/dbx"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareDSN_MySQL(t *testing.T) {
	dsn, err := PrepareDSN("mysql", "root:root1@tcp(localhost:3306)/AppMasterRol")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.True(t, cfg.ClientFoundRows)
	assert.Equal(t, "AppMasterRol", cfg.DBName)
	assert.Equal(t, "root", cfg.User)

	_, err = PrepareDSN("mysql", "::not a dsn::")
	require.Error(t, err)
}

func TestPrepareDSN_SQLite(t *testing.T) {
	dsn, err := PrepareDSN("sqlite", "file:masterrol.db")
	require.NoError(t, err)
	assert.Equal(t, "file:masterrol.db?_pragma=foreign_keys(1)&_time_format=sqlite", dsn)

	dsn, err = PrepareDSN("sqlite", "file:x.db?_pragma=foreign_keys(0)&_time_format=sqlite")
	require.NoError(t, err)
	assert.Equal(t, "file:x.db?_pragma=foreign_keys(0)&_time_format=sqlite", dsn, "explicit settings are kept")

	dsn, err = PrepareDSN("sqlite", ":memory:?_pragma=busy_timeout(500)")
	require.NoError(t, err)
	assert.Equal(t, ":memory:?_pragma=busy_timeout(500)&_pragma=foreign_keys(1)&_time_format=sqlite", dsn)
}

func TestPrepareDSN_PostgresAndUnknown(t *testing.T) {
	dsn, err := PrepareDSN("postgres", "postgres://u:p@db/masterrol")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/masterrol", dsn)

	_, err = PrepareDSN("oracle", "x")
	require.Error(t, err)
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, dbx.Dollar, d.Placeholder)
	assert.True(t, d.Returning)
	assert.Equal(t, "pgx", sqlDriverName("postgres"))

	d, err = DialectFor("mysql")
	require.NoError(t, err)
	assert.Equal(t, dbx.Question, d.Placeholder)
	assert.False(t, d.Returning)

	d, err = DialectFor("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", d.Goose)

	_, err = DialectFor("oracle")
	require.Error(t, err)
}

func TestOpen_SQLiteForeignKeysOn(t *testing.T) {
	db, d, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite", d.Name)

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)
}

func TestSQLiteFilePath(t *testing.T) {
	cases := []struct {
		dsn  string
		path string
		ok   bool
	}{
		{":memory:", "", false},
		{"file::memory:?cache=shared", "", false},
		{"file:test.db?mode=memory&cache=shared", "", false},
		{"data/masterrol.db", "data/masterrol.db", true},
		{"file:/var/lib/masterrol/app.db?_pragma=busy_timeout(5000)", "/var/lib/masterrol/app.db", true},
	}
	for _, tc := range cases {
		path, ok := sqliteFilePath(tc.dsn)
		assert.Equal(t, tc.ok, ok, tc.dsn)
		assert.Equal(t, tc.path, path, tc.dsn)
	}
}

func TestOpen_SQLiteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "masterrol.db")

	db, _, err := Open(context.Background(), "sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Dir(path))
	require.NoError(t, err)
}

func TestOpen_Errors(t *testing.T) {
	_, _, err := Open(context.Background(), "oracle", "x")
	require.Error(t, err)

	// an unreachable server is reported as store unavailable
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = Open(ctx, "mysql", "root:root1@tcp(127.0.0.1:1)/AppMasterRol?timeout=100ms")
	require.ErrorIs(t, err, common.ErrorStoreUnavailable)
}

func TestUniqueViolation(t *testing.T) {
	assert.True(t, MySQL.UniqueViolation(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, MySQL.UniqueViolation(&mysql.MySQLError{Number: 1452}))

	assert.True(t, Postgres.UniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, Postgres.UniqueViolation(&pgconn.PgError{Code: "23503"}))

	assert.False(t, SQLite.UniqueViolation(errors.New("UNIQUE constraint failed: users.username")))
}

func TestUniqueViolation_SQLiteReal(t *testing.T) {
	db, _, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE u (name TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO u (name) VALUES ('gm')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO u (name) VALUES ('gm')`)
	require.Error(t, err)
	assert.True(t, SQLite.UniqueViolation(err), err.Error())

	_, err = db.Exec(`INSERT INTO u (name) VALUES (NULL)`)
	require.Error(t, err)
	assert.False(t, SQLite.UniqueViolation(err), "NOT NULL is not a uniqueness failure")
	assert.True(t, strings.Contains(err.Error(), "NOT NULL"))
}

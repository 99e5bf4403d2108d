package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/isdelr/folio-be/internal/database/migrations"
)

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB is a connection pool plus the dialect its queries must be written in.
// Queries are authored with '?' placeholders and passed through Rebind.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Wrap pairs an existing pool with a dialect. Tests use it with sqlmock.
func Wrap(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, Dialect: dialect}
}

// New creates a new database connection pool.
func New(ctx context.Context, driver, dataSourceName string) (*DB, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch Dialect(driver) {
	case SQLite:
		dialect = SQLite
		db, err = sql.Open("sqlite", sqliteDSN(dataSourceName))
		if err == nil && isMemoryDSN(dataSourceName) {
			// every connection to ":memory:" is a separate database
			db.SetMaxOpenConns(1)
		}
	case Postgres:
		dialect = Postgres
		db, err = sql.Open("pgx", dataSourceName)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{DB: db, Dialect: dialect}, nil
}

// Migrate applies the embedded goose migrations for the pool's dialect.
func Migrate(ctx context.Context, db *DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	dir := string(db.Dialect)
	gooseDialect := "postgres"
	if db.Dialect == SQLite {
		gooseDialect = "sqlite3"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}
	return nil
}

// Rebind rewrites '?' placeholders into the dialect's bind syntax.
func (db *DB) Rebind(query string) string {
	return Rebind(db.Dialect, query)
}

// Rebind rewrites '?' placeholders into "$N" for Postgres. Other dialects
// are returned untouched.
func Rebind(dialect Dialect, query string) string {
	if dialect != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

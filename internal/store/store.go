package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"   // driver: mysql
	_ "github.com/jackc/pgx/v5/stdlib"   // driver: pgx
	_ "modernc.org/sqlite"               // driver: sqlite

	"github.com/aidanlsb/magpie/internal/sqlutil"
)

// Row is one result row keyed by queryset path.
type Row map[string]any

// DB wraps a live database connection with its dialect.
type DB struct {
	db      *sql.DB
	dialect Dialect
}

// ErrNoConnection indicates the project config has no connection section.
var ErrNoConnection = errors.New("no database connection configured")

// Open connects to a database and verifies the connection.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, ErrNoConnection
	}

	var driver string
	switch dialect {
	case SQLite:
		driver = "sqlite"
	case Postgres:
		driver = "pgx"
	case MySQL:
		driver = "mysql"
	default:
		return nil, fmt.Errorf("unknown dialect %v", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	d := &DB{db: db, dialect: dialect}
	if dialect == SQLite {
		// Shared project databases; don't fail instantly on writer locks.
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to configure database: %w", err)
		}
	}
	return d, nil
}

// Dialect returns the engine this connection targets.
func (d *DB) Dialect() Dialect { return d.dialect }

// Close releases the connection pool.
func (d *DB) Close() error { return d.db.Close() }

// SQL exposes the underlying handle for schema checks.
func (d *DB) SQL() *sql.DB { return d.db }

// Select builds and runs the queryset, returning the result column order
// and one map per row keyed by queryset path.
func (d *DB) Select(ctx context.Context, qs *QuerySet) ([]string, []Row, error) {
	query, args, err := qs.BuildSQL()
	if err != nil {
		return nil, nil, err
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}

	cols, maps, err := sqlutil.ScanRowMaps(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read results: %w", err)
	}
	out := make([]Row, len(maps))
	for i, m := range maps {
		out[i] = Row(m)
	}
	return cols, out, nil
}

// TableExists checks whether a physical table is present, used by check.
func (d *DB) TableExists(ctx context.Context, name string) (bool, error) {
	var query string
	switch d.dialect {
	case SQLite:
		query = "SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?"
	case Postgres:
		query = "SELECT 1 FROM information_schema.tables WHERE table_name = $1"
	case MySQL:
		query = "SELECT 1 FROM information_schema.tables WHERE table_name = ?"
	}

	var one int
	err := d.db.QueryRowContext(ctx, query, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

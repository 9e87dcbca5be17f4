// Package store builds and executes SQL query plans for magpie.
//
// The orm package decides what to select, join, group, and filter; this
// package turns those decisions into engine-specific SQL and runs it over
// database/sql. Three engines are supported: SQLite, PostgreSQL, and MySQL.
package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect identifies the SQL engine a query plan targets.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
	MySQL
)

// String returns the driver name used in project config.
func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect resolves a config driver name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return 0, fmt.Errorf("unknown database driver %q (supported: sqlite, postgres, mysql)", name)
	}
}

// SupportsArrayAgg reports whether the engine can collect grouped values
// into an array result.
func (d Dialect) SupportsArrayAgg() bool {
	return d == Postgres
}

// SupportsRegex reports whether the engine exposes a regular-expression
// match operator.
func (d Dialect) SupportsRegex() bool {
	return d == Postgres || d == MySQL
}

// placeholders returns the squirrel placeholder format for the engine.
func (d Dialect) placeholders() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

// Quote quotes one identifier for the engine.
func (d Dialect) Quote(ident string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// QuoteQualified quotes an alias.column pair.
func (d Dialect) QuoteQualified(alias, column string) string {
	return d.Quote(alias) + "." + d.Quote(column)
}

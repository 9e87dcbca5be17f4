package store

import (
	"fmt"
)

// BuildContext is the rendering context handed to expressions. It resolves
// queryset paths to SQL column expressions (registering joins as a side
// effect) and exposes the target dialect. Resolved paths may carry bind
// arguments when they reference parameterized annotations.
type BuildContext interface {
	Dialect() Dialect
	ResolvePath(path string) (string, []any, error)
}

// Expr is a SQL expression fragment. Implementations render themselves for
// a specific engine at build time.
type Expr interface {
	SQL(bc BuildContext) (string, []any, error)
}

// Ref references a column by queryset path ("customer__country").
func Ref(path string) Expr { return refExpr(path) }

type refExpr string

func (r refExpr) SQL(bc BuildContext) (string, []any, error) {
	return bc.ResolvePath(string(r))
}

// Raw wraps a hand-written SQL fragment, such as a computed-column
// expression declared in the schema file. The fragment renders verbatim on
// every engine.
func Raw(sql string, args ...any) Expr {
	return rawExpr{sql: sql, args: args}
}

type rawExpr struct {
	sql  string
	args []any
}

func (r rawExpr) SQL(BuildContext) (string, []any, error) {
	return r.sql, r.args, nil
}

// aggExpr renders FUNC(operand) with optional DISTINCT.
type aggExpr struct {
	fn       string
	distinct bool
	operand  Expr
	// engines lists the dialects the function exists on; nil means all.
	engines []Dialect
}

func (a aggExpr) SQL(bc BuildContext) (string, []any, error) {
	if a.engines != nil {
		supported := false
		for _, d := range a.engines {
			if d == bc.Dialect() {
				supported = true
				break
			}
		}
		if !supported {
			return "", nil, fmt.Errorf("%s is not available on %s", a.fn, bc.Dialect())
		}
	}
	inner, args, err := a.operand.SQL(bc)
	if err != nil {
		return "", nil, err
	}
	if a.distinct {
		return fmt.Sprintf("%s(DISTINCT %s)", a.fn, inner), args, nil
	}
	return fmt.Sprintf("%s(%s)", a.fn, inner), args, nil
}

// CountDistinct counts distinct values of the operand.
func CountDistinct(x Expr) Expr { return aggExpr{fn: "COUNT", distinct: true, operand: x} }

// Max returns the largest operand value in the group.
func Max(x Expr) Expr { return aggExpr{fn: "MAX", operand: x} }

// Min returns the smallest operand value in the group.
func Min(x Expr) Expr { return aggExpr{fn: "MIN", operand: x} }

// Avg averages the operand over the group.
func Avg(x Expr) Expr { return aggExpr{fn: "AVG", operand: x} }

// Sum totals the operand over the group.
func Sum(x Expr) Expr { return aggExpr{fn: "SUM", operand: x} }

// StdDev is the population standard deviation. SQLite has no such function.
func StdDev(x Expr) Expr {
	return aggExpr{fn: "STDDEV_POP", operand: x, engines: []Dialect{Postgres, MySQL}}
}

// Variance is the population variance. SQLite has no such function.
func Variance(x Expr) Expr {
	return aggExpr{fn: "VAR_POP", operand: x, engines: []Dialect{Postgres, MySQL}}
}

type castKind int

const (
	castDuration castKind = iota
	castInteger
)

type castExpr struct {
	kind    castKind
	operand Expr
}

func (c castExpr) SQL(bc BuildContext) (string, []any, error) {
	inner, args, err := c.operand.SQL(bc)
	if err != nil {
		return "", nil, err
	}

	var target string
	switch bc.Dialect() {
	case MySQL:
		// MySQL rejects the standard integer type names inside CAST.
		target = "signed integer"
	case Postgres:
		if c.kind == castDuration {
			target = "bigint"
		} else {
			target = "integer"
		}
	default:
		target = "INTEGER"
	}
	return fmt.Sprintf("CAST(%s AS %s)", inner, target), args, nil
}

// CastDuration casts a duration column (integer microseconds) to a plain
// integer so AVG and SUM apply cleanly on every engine.
func CastDuration(x Expr) Expr { return castExpr{kind: castDuration, operand: x} }

// CastInt casts a boolean to an integer so AVG and SUM apply.
func CastInt(x Expr) Expr { return castExpr{kind: castInteger, operand: x} }

// ArrayAll collects the distinct operand values of a group into a sorted
// array, defaulting to an empty array. PostgreSQL only.
func ArrayAll(x Expr) Expr { return arrayAggExpr{operand: x} }

type arrayAggExpr struct {
	operand Expr
}

func (a arrayAggExpr) SQL(bc BuildContext) (string, []any, error) {
	if !bc.Dialect().SupportsArrayAgg() {
		return "", nil, fmt.Errorf("array aggregation is not available on %s", bc.Dialect())
	}
	inner, args, err := a.operand.SQL(bc)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf("COALESCE(ARRAY_AGG(DISTINCT %s ORDER BY %s), '{}')", inner, inner)
	// The operand renders twice, so its arguments do too.
	dup := make([]any, 0, len(args)*2)
	dup = append(dup, args...)
	dup = append(dup, args...)
	return sql, dup, nil
}

// DatePart extracts a calendar component (year, month, day, hour) from a
// date or datetime column.
func DatePart(part string, x Expr) Expr { return datePartExpr{part: part, operand: x} }

type datePartExpr struct {
	part    string
	operand Expr
}

var sqliteStrftime = map[string]string{
	"year":  "%Y",
	"month": "%m",
	"day":   "%d",
	"hour":  "%H",
}

var extractParts = map[string]string{
	"year":  "YEAR",
	"month": "MONTH",
	"day":   "DAY",
	"hour":  "HOUR",
}

func (e datePartExpr) SQL(bc BuildContext) (string, []any, error) {
	inner, args, err := e.operand.SQL(bc)
	if err != nil {
		return "", nil, err
	}
	sql, err := renderDatePart(bc.Dialect(), e.part, inner)
	if err != nil {
		return "", nil, err
	}
	return sql, args, nil
}

func renderDatePart(d Dialect, part, operand string) (string, error) {
	if d == SQLite {
		f, ok := sqliteStrftime[part]
		if !ok {
			return "", fmt.Errorf("unknown date part %q", part)
		}
		return fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER)", f, operand), nil
	}
	p, ok := extractParts[part]
	if !ok {
		return "", fmt.Errorf("unknown date part %q", part)
	}
	return fmt.Sprintf("EXTRACT(%s FROM %s)", p, operand), nil
}

// IsDatePart reports whether name is a supported calendar component.
func IsDatePart(name string) bool {
	_, ok := extractParts[name]
	return ok
}

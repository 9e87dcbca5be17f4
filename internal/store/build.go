package store

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// builder renders one QuerySet. It implements BuildContext and records the
// LEFT JOINs that path resolution requires, keyed by join alias.
type builder struct {
	qs        *QuerySet
	joins     map[string]string
	joinOrder []string
}

func (b *builder) Dialect() Dialect { return b.qs.dialect }

// ResolvePath maps a queryset path to a SQL expression. Annotation names
// render their expression inline; relation segments register joins; a
// trailing calendar part on a date column renders an extraction.
func (b *builder) ResolvePath(path string) (string, []any, error) {
	if e := b.qs.annotation(path); e != nil {
		return e.SQL(b)
	}
	if strings.HasPrefix(path, annotationPrefix+pathSep) {
		return "", nil, fmt.Errorf("annotation %q has not been attached to the queryset", path)
	}

	segs := strings.Split(path, pathSep)
	table, ok := b.qs.graph.Table(b.qs.root)
	if !ok {
		return "", nil, fmt.Errorf("unknown entity %q", b.qs.root)
	}
	alias := b.qs.root

	for i, seg := range segs {
		if rel, ok := table.Relations[seg]; ok {
			if i == len(segs)-1 {
				// A bare relation reads the local key column, so the
				// related row's identity costs no join.
				return b.Dialect().QuoteQualified(alias, rel.Column), nil, nil
			}
			childAlias := strings.Join(segs[:i+1], pathSep)
			target, err := b.ensureJoin(alias, childAlias, rel)
			if err != nil {
				return "", nil, err
			}
			table, alias = target, childAlias
			continue
		}

		col, ok := table.Column(seg)
		if !ok {
			return "", nil, fmt.Errorf("unknown field %q on entity %q in path %q", seg, table.Name, path)
		}
		qualified := b.Dialect().QuoteQualified(alias, col)
		rest := segs[i+1:]
		if len(rest) == 0 {
			return qualified, nil, nil
		}
		if len(rest) == 1 && IsDatePart(rest[0]) {
			sql, err := renderDatePart(b.Dialect(), rest[0], qualified)
			return sql, nil, err
		}
		return "", nil, fmt.Errorf("cannot traverse through column %q in path %q", seg, path)
	}
	return "", nil, fmt.Errorf("empty path")
}

func (b *builder) ensureJoin(parentAlias, childAlias string, rel Relation) (*Table, error) {
	target, ok := b.qs.graph.Table(rel.Target)
	if !ok {
		return nil, fmt.Errorf("relation %q points at unknown entity %q", rel.Name, rel.Target)
	}
	if _, done := b.joins[childAlias]; done {
		return target, nil
	}
	d := b.Dialect()
	clause := fmt.Sprintf("%s AS %s ON %s = %s",
		d.Quote(target.SQLName), d.Quote(childAlias),
		d.QuoteQualified(childAlias, target.PrimaryKey),
		d.QuoteQualified(parentAlias, rel.Column))
	b.joins[childAlias] = clause
	b.joinOrder = append(b.joinOrder, childAlias)
	return target, nil
}

func (b *builder) condition(f Filter) (sq.Sqlizer, error) {
	col, colArgs, err := b.ResolvePath(f.Path)
	if err != nil {
		return nil, err
	}
	return lookupCondition(b.Dialect(), col, colArgs, f.Lookup, f.Value)
}

// lookupCondition renders one filter operator against a resolved column.
func lookupCondition(d Dialect, col string, colArgs []any, lookup string, value any) (sq.Sqlizer, error) {
	args := func(extra ...any) []any {
		out := append([]any(nil), colArgs...)
		return append(out, extra...)
	}

	switch lookup {
	case "equals":
		return sq.Expr(col+" = ?", args(value)...), nil
	case "not_equals":
		return sq.Expr(col+" <> ?", args(value)...), nil
	case "lt":
		return sq.Expr(col+" < ?", args(value)...), nil
	case "lte":
		return sq.Expr(col+" <= ?", args(value)...), nil
	case "gt":
		return sq.Expr(col+" > ?", args(value)...), nil
	case "gte":
		return sq.Expr(col+" >= ?", args(value)...), nil
	case "contains":
		return likeCondition(d, col, colArgs, "%"+escapeLike(value)+"%")
	case "starts_with":
		return likeCondition(d, col, colArgs, escapeLike(value)+"%")
	case "ends_with":
		return likeCondition(d, col, colArgs, "%"+escapeLike(value))
	case "regex":
		switch d {
		case Postgres:
			return sq.Expr(col+" ~ ?", args(value)...), nil
		case MySQL:
			return sq.Expr(col+" REGEXP ?", args(value)...), nil
		default:
			return nil, fmt.Errorf("regex lookups are not available on %s", d)
		}
	case "in":
		vals, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("in takes a slice of values, got %T", value)
		}
		if len(colArgs) > 0 {
			return nil, fmt.Errorf("in lookups on computed columns are not supported")
		}
		if len(vals) == 0 {
			return sq.Expr("1 = 0"), nil
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", ")
		return sq.Expr(col+" IN ("+marks+")", vals...), nil
	case "is_null":
		isNull, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("is_null takes a boolean, got %T", value)
		}
		if isNull {
			return sq.Expr(col+" IS NULL", colArgs...), nil
		}
		return sq.Expr(col+" IS NOT NULL", colArgs...), nil
	default:
		return nil, fmt.Errorf("unknown lookup %q", lookup)
	}
}

func likeCondition(d Dialect, col string, colArgs []any, pattern string) (sq.Sqlizer, error) {
	args := append(append([]any(nil), colArgs...), pattern)
	if d == SQLite {
		// SQLite LIKE has no default escape character.
		return sq.Expr(col+` LIKE ? ESCAPE '\'`, args...), nil
	}
	return sq.Expr(col+" LIKE ?", args...), nil
}

func escapeLike(value any) string {
	s := fmt.Sprint(value)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// BuildSQL renders the queryset to SQL and bind arguments.
func (qs *QuerySet) BuildSQL() (string, []any, error) {
	if len(qs.selects) == 0 {
		return "", nil, fmt.Errorf("no fields selected")
	}

	b := &builder{qs: qs, joins: make(map[string]string)}
	d := qs.dialect

	type column struct {
		sql  string
		args []any
	}
	selected := make([]column, 0, len(qs.selects))
	ordinals := make(map[string]int, len(qs.selects))
	for i, path := range qs.selects {
		sqlStr, args, err := b.ResolvePath(path)
		if err != nil {
			return "", nil, err
		}
		selected = append(selected, column{sql: sqlStr + " AS " + d.Quote(path), args: args})
		ordinals[path] = i + 1
	}

	var wheres []sq.Sqlizer
	for _, f := range qs.wheres {
		cond, err := b.condition(f)
		if err != nil {
			return "", nil, err
		}
		wheres = append(wheres, cond)
	}

	var havings []sq.Sqlizer
	for _, f := range qs.havings {
		cond, err := b.condition(f)
		if err != nil {
			return "", nil, err
		}
		havings = append(havings, cond)
	}

	// Grouping keys reference select-list ordinals, which every engine
	// accepts and which sidesteps repeating parameterized expressions.
	groups := make([]string, 0, len(qs.groups))
	for _, g := range qs.groups {
		ord, ok := ordinals[g]
		if !ok {
			return "", nil, fmt.Errorf("group key %q is not a selected column", g)
		}
		groups = append(groups, strconv.Itoa(ord))
	}

	type orderClause struct {
		pred any
		args []any
	}
	orders := make([]orderClause, 0, len(qs.orders))
	for _, o := range qs.orders {
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		if ord, ok := ordinals[o.Path]; ok {
			orders = append(orders, orderClause{pred: strconv.Itoa(ord) + dir})
			continue
		}
		sqlStr, args, err := b.ResolvePath(o.Path)
		if err != nil {
			return "", nil, err
		}
		orders = append(orders, orderClause{pred: sq.Expr(sqlStr+dir, args...)})
	}

	root, _ := qs.graph.Table(qs.root)
	q := sq.Select().From(d.Quote(root.SQLName) + " AS " + d.Quote(qs.root))
	for _, c := range selected {
		q = q.Column(sq.Expr(c.sql, c.args...))
	}
	for _, alias := range b.joinOrder {
		q = q.LeftJoin(b.joins[alias])
	}
	for _, w := range wheres {
		q = q.Where(w)
	}
	if len(groups) > 0 {
		q = q.GroupBy(groups...)
	}
	for _, h := range havings {
		q = q.Having(h)
	}
	for _, o := range orders {
		q = q.OrderByClause(o.pred, o.args...)
	}
	if qs.hasLimit {
		q = q.Limit(qs.limit)
	}
	if qs.offset > 0 {
		q = q.Offset(qs.offset)
	}

	return q.PlaceholderFormat(d.placeholders()).ToSql()
}

// CorrelatedSubquery builds a single-value subquery selecting column from
// the inner queryset's root entity, correlated on the inner primary key
// matching the outer path. The column may be a physical field or one of the
// inner queryset's annotations; the inner queryset must not traverse
// relations.
func CorrelatedSubquery(inner *QuerySet, column, outerPath string) Expr {
	return subqueryExpr{inner: inner, column: column, outerPath: outerPath}
}

type subqueryExpr struct {
	inner     *QuerySet
	column    string
	outerPath string
}

// subAlias names the inner scope of annotation subqueries. Subqueries are
// independent scopes, so a fixed alias cannot collide with outer joins.
const subAlias = "mgp_sub"

func (s subqueryExpr) SQL(bc BuildContext) (string, []any, error) {
	outerCol, outerArgs, err := bc.ResolvePath(s.outerPath)
	if err != nil {
		return "", nil, err
	}

	table, ok := s.inner.graph.Table(s.inner.root)
	if !ok {
		return "", nil, fmt.Errorf("unknown entity %q", s.inner.root)
	}

	d := bc.Dialect()

	var selectSQL string
	var selectArgs []any
	if e := s.inner.annotation(s.column); e != nil {
		// Computed columns render inside the subquery scope, where bare
		// column names resolve against the inner table.
		selectSQL, selectArgs, err = e.SQL(bc)
		if err != nil {
			return "", nil, err
		}
	} else {
		col, ok := table.Column(s.column)
		if !ok {
			return "", nil, fmt.Errorf("unknown field %q on entity %q", s.column, table.Name)
		}
		selectSQL = d.QuoteQualified(subAlias, col)
	}

	conds := make([]string, 0, len(s.inner.wheres)+1)
	args := append([]any(nil), selectArgs...)
	for _, f := range s.inner.wheres {
		if strings.Contains(f.Path, pathSep) {
			return "", nil, fmt.Errorf("annotation queryset cannot traverse relations (filter on %q)", f.Path)
		}
		innerCol, ok := table.Column(f.Path)
		if !ok {
			return "", nil, fmt.Errorf("unknown field %q on entity %q", f.Path, table.Name)
		}
		cond, err := lookupCondition(d, d.QuoteQualified(subAlias, innerCol), nil, f.Lookup, f.Value)
		if err != nil {
			return "", nil, err
		}
		condSQL, condArgs, err := cond.ToSql()
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, condSQL)
		args = append(args, condArgs...)
	}
	conds = append(conds, fmt.Sprintf("%s = %s",
		d.QuoteQualified(subAlias, table.PrimaryKey), outerCol))
	args = append(args, outerArgs...)

	sql := fmt.Sprintf("(SELECT %s FROM %s AS %s WHERE %s LIMIT 1)",
		selectSQL,
		d.Quote(table.SQLName), d.Quote(subAlias),
		strings.Join(conds, " AND "))
	return sql, args, nil
}

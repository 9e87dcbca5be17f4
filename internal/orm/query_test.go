package orm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aidanlsb/magpie/internal/store"
)

func TestBuildSelectsAndJoins(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model: "order",
		Fields: []QueryField{
			{Path: "id"},
			{Path: "customer.company.name"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sql, _, err := plan.SQL()
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	for _, want := range []string{
		`"order"."id" AS "id"`,
		`"customer__company"."name" AS "customer__company__name"`,
		`LEFT JOIN "customers" AS "customer"`,
		`LEFT JOIN "companies" AS "customer__company"`,
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("sql %s missing %s", sql, want)
		}
	}
}

func TestBuildGroupsWhenAggregatesPresent(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model: "order",
		Fields: []QueryField{
			{Path: "customer.country"},
			{Path: "total.sum", Sort: SortDesc},
		},
		Filters: []FilterSpec{
			{Path: "total.sum", Lookup: "gte", Value: "100"},
			{Path: "paid", Lookup: "equals", Value: "true"},
		},
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Where) != 1 || len(plan.Having) != 1 {
		t.Fatalf("where/having split wrong: %d/%d", len(plan.Where), len(plan.Having))
	}

	sql, args, err := plan.SQL()
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	for _, want := range []string{
		`SUM("order"."total") AS "mgp__total__sum"`,
		"GROUP BY 1",
		`HAVING SUM("order"."total") >= ?`,
		`"order"."paid" = ?`,
		"ORDER BY 2 DESC",
		"LIMIT 10",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("sql %s missing %s", sql, want)
		}
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}
}

func TestBuildPlainQueryDoesNotGroup(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model:  "order",
		Fields: []QueryField{{Path: "id"}, {Path: "total"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sql, _, err := plan.SQL()
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	if strings.Contains(sql, "GROUP BY") {
		t.Errorf("plain query should not group: %s", sql)
	}
}

func TestBuildBareAggregateSkipsGrouping(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model:  "order",
		Fields: []QueryField{{Path: "total.sum"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sql, _, err := plan.SQL()
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	if strings.Contains(sql, "GROUP BY") {
		t.Errorf("whole-table aggregate should not group: %s", sql)
	}
	if !strings.Contains(sql, `SUM("order"."total")`) {
		t.Errorf("missing aggregate in %s", sql)
	}
}

func TestBuildAnnotatedFieldEndToEnd(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model: "order",
		Fields: []QueryField{
			{Path: "id"},
			{Path: "customer.label"},
		},
		Filters: []FilterSpec{
			{Path: "customer.label", Lookup: "contains", Value: "NZ"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sql, _, err := plan.SQL()
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	if !strings.Contains(sql, `(SELECT name || ' (' || country || ')' FROM "customers" AS "mgp_sub"`) {
		t.Errorf("missing correlated subquery in %s", sql)
	}
	// The subquery renders in the select list and again in the where clause.
	if strings.Count(sql, "mgp_sub") < 4 {
		t.Errorf("expected the annotation inline in select and filter: %s", sql)
	}
}

func TestBuildCalculatedField(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model:  "order",
		Fields: []QueryField{{Path: "badge"}, {Path: "overdue"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sql, _, err := plan.SQL()
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	// Both calculated fields share the row identity column; it is selected
	// once.
	if strings.Count(sql, `"order"."id" AS "id"`) != 1 {
		t.Errorf("identity column should be selected exactly once: %s", sql)
	}
}

func TestBuildRejectsBareRelation(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	_, err := Build(context.Background(), fx.resolver, Query{
		Model:  "order",
		Fields: []QueryField{{Path: "customer"}},
	})
	var re *ResolveError
	if !errors.As(err, &re) || !strings.Contains(re.Message, "relation, not a value") {
		t.Fatalf("expected a relation error, got %v", err)
	}
}

func TestBuildRejectsCalculatedFilter(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	_, err := Build(context.Background(), fx.resolver, Query{
		Model:   "order",
		Fields:  []QueryField{{Path: "id"}},
		Filters: []FilterSpec{{Path: "badge", Lookup: "equals", Value: "x"}},
	})
	if err == nil || !strings.Contains(err.Error(), "computed per row") {
		t.Fatalf("expected a computed-field filter error, got %v", err)
	}
}

func TestBuildRejectsUnknownLookup(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	_, err := Build(context.Background(), fx.resolver, Query{
		Model:   "order",
		Fields:  []QueryField{{Path: "id"}},
		Filters: []FilterSpec{{Path: "total", Lookup: "contains", Value: "1"}},
	})
	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResolveError, got %v", err)
	}
	if !strings.Contains(re.Suggestion, "Available lookups") {
		t.Errorf("suggestion = %q", re.Suggestion)
	}
}

func TestBuildRejectsBadFilterValue(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	_, err := Build(context.Background(), fx.resolver, Query{
		Model:   "order",
		Fields:  []QueryField{{Path: "id"}},
		Filters: []FilterSpec{{Path: "total", Lookup: "gt", Value: "lots"}},
	})
	if err == nil {
		t.Fatal("expected a value parse error")
	}
}

func TestBuildNoFields(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	_, err := Build(context.Background(), fx.resolver, Query{Model: "order"})
	if err == nil || !strings.Contains(err.Error(), "no fields requested") {
		t.Fatalf("got %v", err)
	}
}

func TestBuildUnknownModel(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	_, err := Build(context.Background(), fx.resolver, Query{
		Model:  "invoice",
		Fields: []QueryField{{Path: "id"}},
	})
	var re *ResolveError
	if !errors.As(err, &re) || !strings.Contains(re.Suggestion, "Available entities") {
		t.Fatalf("got %v", err)
	}
}

func TestWithDefaultsEncodesValues(t *testing.T) {
	fx := newFixture(t, store.SQLite)
	fx.orderAdm.defaults = []Default{
		{Path: "paid", Lookup: "equals", Value: true},
		{Path: "status", Lookup: "not_equals", Value: "n"},
	}
	model, _ := fx.resolver.Model("order")

	filters, err := WithDefaults(model, []FilterSpec{{Path: "total", Lookup: "gt", Value: "5"}})
	if err != nil {
		t.Fatalf("WithDefaults: %v", err)
	}
	if len(filters) != 3 {
		t.Fatalf("filters = %v", filters)
	}
	if filters[0].Value != "true" {
		t.Errorf("boolean default should JSON-encode, got %q", filters[0].Value)
	}
	if filters[1].Value != "n" {
		t.Errorf("string default should pass through, got %q", filters[1].Value)
	}

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model:   "order",
		Fields:  []QueryField{{Path: "id"}},
		Filters: filters,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sql, args, err := plan.SQL()
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	if !strings.Contains(sql, `"order"."paid" = ?`) {
		t.Errorf("default filter missing in %s", sql)
	}
	if len(args) != 3 {
		t.Errorf("args = %v", args)
	}
}

func TestBuildIsNullFilter(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model:   "order",
		Fields:  []QueryField{{Path: "id"}},
		Filters: []FilterSpec{{Path: "customer.name", Lookup: "is_null", Value: "true"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sql, _, err := plan.SQL()
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	if !strings.Contains(sql, `"customer"."name" IS NULL`) {
		t.Errorf("sql = %s", sql)
	}
}

func TestBuildDurationAggregateCasts(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model:  "order",
		Fields: []QueryField{{Path: "wait.average"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sql, _, err := plan.SQL()
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	if !strings.Contains(sql, `AVG(CAST("order"."wait_micros" AS INTEGER))`) {
		t.Errorf("sql = %s", sql)
	}
}

func TestBuildStdDevFailsOnSQLite(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	plan, err := Build(context.Background(), fx.resolver, Query{
		Model:  "order",
		Fields: []QueryField{{Path: "total.std_dev"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, _, err := plan.SQL(); err == nil {
		t.Fatal("std_dev should fail to render on sqlite")
	}
}

func TestInstanceColumns(t *testing.T) {
	fx := newFixture(t, store.SQLite)
	model, _ := fx.resolver.Model("order")

	got := instanceColumns(model)
	want := []string{"created", "id", "paid", "receipt", "status", "total", "wait"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("instance columns = %v, want %v", got, want)
	}
}

package orm

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/aidanlsb/magpie/internal/store"
	"github.com/aidanlsb/magpie/internal/types"
)

func aggregateNames(reg *Registry, t types.Type) []string {
	var names []string
	for name := range reg.ForType(t) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestRegistryMembership(t *testing.T) {
	reg := NewRegistry(false)

	tests := []struct {
		typ  types.Type
		want []string
	}{
		{types.Number, []string{"average", "count", "max", "min", "std_dev", "sum", "variance"}},
		{types.Boolean, []string{"average", "sum"}},
		{types.Duration, []string{"average", "count", "max", "min", "sum"}},
		{types.Date, []string{"count", "max", "min"}},
		{types.DateTime, []string{"count", "max", "min"}},
		{types.Text, []string{"count"}},
		{types.HTML, []string{"count"}},
		{types.JSON, []string{"count"}},
	}
	for _, tt := range tests {
		if got := aggregateNames(reg, tt.typ); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s aggregates = %v, want %v", tt.typ.Name(), got, tt.want)
		}
	}
}

func TestRegistryArrayAggregation(t *testing.T) {
	reg := NewRegistry(true)

	want := []string{"all", "average", "count", "max", "min", "std_dev", "sum", "variance"}
	if got := aggregateNames(reg, types.Number); !reflect.DeepEqual(got, want) {
		t.Errorf("number aggregates = %v, want %v", got, want)
	}
	if got := aggregateNames(reg, types.Text); !reflect.DeepEqual(got, []string{"all", "count"}) {
		t.Errorf("text aggregates = %v", got)
	}
	// Booleans still have no count and no array collection.
	if got := aggregateNames(reg, types.Boolean); !reflect.DeepEqual(got, []string{"average", "sum"}) {
		t.Errorf("boolean aggregates = %v", got)
	}

	all := reg.ForType(types.Text)["all"]
	if all.Meta().Type != types.TextArray {
		t.Errorf("text all yields %v, want text array", all.Meta().Type)
	}
}

func TestRegistryResultTypes(t *testing.T) {
	reg := NewRegistry(false)

	tests := []struct {
		typ  types.Type
		name string
		want types.Type
	}{
		{types.Text, "count", types.Number},
		{types.Date, "max", types.Date},
		{types.DateTime, "min", types.DateTime},
		{types.Duration, "average", types.Duration},
		{types.Duration, "sum", types.Duration},
		{types.Boolean, "average", types.Number},
		{types.Boolean, "sum", types.Number},
		{types.Number, "std_dev", types.Number},
	}
	for _, tt := range tests {
		f := reg.ForType(tt.typ)[tt.name]
		if f == nil {
			t.Errorf("%s has no %s aggregate", tt.typ.Name(), tt.name)
			continue
		}
		if f.Meta().Type != tt.want {
			t.Errorf("%s.%s yields %v, want %v", tt.typ.Name(), tt.name, f.Meta().Type, tt.want)
		}
	}
}

func TestForTypeMaterializesFreshDescriptors(t *testing.T) {
	reg := NewRegistry(false)

	first := reg.ForType(types.Number)["sum"]
	second := reg.ForType(types.Number)["sum"]
	if first == second {
		t.Fatal("ForType should materialize fresh descriptors per call")
	}
	if first.Meta().Name != second.Meta().Name {
		t.Fatal("fresh descriptors diverged")
	}
}

func TestAggregateBind(t *testing.T) {
	fx := newFixture(t, store.SQLite)
	b := mustResolve(t, fx, "order", "total.sum")

	if !b.Having() {
		t.Error("aggregates live in the having clause")
	}
	if b.Filterable() {
		t.Error("aggregates are not where-clause filterable")
	}
	if b.GroupBy() {
		t.Error("an aggregate cannot be a grouping key")
	}
	if b.Aggregate() == nil {
		t.Fatal("aggregate clause missing")
	}
	if !reflect.DeepEqual(b.QuerysetPath(), []string{"mgp__total__sum"}) {
		t.Errorf("queryset path = %v", b.QuerysetPath())
	}
	if got := b.PrettyPath()[len(b.PrettyPath())-1]; got != "sum" {
		t.Errorf("pretty leaf = %q", got)
	}
}

func TestAggregatePrettyNamesReplaceUnderscores(t *testing.T) {
	fx := newFixture(t, store.SQLite)
	b := mustResolve(t, fx, "order", "total.std_dev")

	if got := b.PrettyPath()[len(b.PrettyPath())-1]; got != "std dev" {
		t.Errorf("pretty leaf = %q", got)
	}
}

func TestAggregateOverRelatedField(t *testing.T) {
	fx := newFixture(t, store.SQLite)
	b := mustResolve(t, fx, "order", "customer.name.count")

	if !reflect.DeepEqual(b.QuerysetPath(), []string{"mgp__customer__name__count"}) {
		t.Errorf("queryset path = %v", b.QuerysetPath())
	}

	bc := &renderContext{dialect: store.SQLite}
	sql, _, err := b.Aggregate().SQL(bc)
	if err != nil {
		t.Fatalf("SQL: %v", err)
	}
	if sql != `COUNT(DISTINCT <customer__name>)` {
		t.Errorf("aggregate sql = %s", sql)
	}
}

// renderContext resolves paths as placeholders so aggregate clauses can be
// inspected without a full queryset.
type renderContext struct {
	dialect store.Dialect
}

func (c *renderContext) Dialect() store.Dialect { return c.dialect }

func (c *renderContext) ResolvePath(path string) (string, []any, error) {
	return "<" + path + ">", nil, nil
}

func TestAggregateMismatchPanicsForEveryCombination(t *testing.T) {
	reg := NewRegistry(true)

	for _, base := range types.All() {
		for name, agg := range reg.ForType(base) {
			for _, other := range types.All() {
				if other == base {
					continue
				}
				previous := NewConcreteField("order", "x", "x", other, nil).Bind(nil)
				mustPanic(t, base.Name()+"."+name+" over "+other.Name(), func() {
					agg.Bind(previous)
				})
			}
		}
	}
}

func TestAggregateBindWithoutPreviousPanics(t *testing.T) {
	reg := NewRegistry(false)
	sum := reg.ForType(types.Number)["sum"]

	mustPanic(t, "aggregate at root", func() { sum.Bind(nil) })
}

func TestAggregatePathTerminates(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	_, err := fx.resolver.Resolve("order", "total.sum.max")
	if err == nil || !strings.Contains(err.Error(), "continues past") {
		t.Fatalf("expected a terminal-path error, got %v", err)
	}
}

func TestDatePartsCompose(t *testing.T) {
	fx := newFixture(t, store.SQLite)

	year := mustResolve(t, fx, "order", "created.year")
	if !reflect.DeepEqual(year.QuerysetPath(), []string{"created", "year"}) {
		t.Errorf("queryset path = %v", year.QuerysetPath())
	}
	if year.Type() != types.Number {
		t.Errorf("calendar part type = %v", year.Type())
	}

	max := mustResolve(t, fx, "order", "created.year.max")
	if max.Aggregate() == nil {
		t.Fatal("aggregate over a calendar part should carry a clause")
	}
}

func TestTypeModelsDateParts(t *testing.T) {
	models := TypeModels(NewRegistry(false))

	dt := models[types.DateTime.Name()]
	for _, part := range []string{"year", "month", "day", "hour"} {
		if _, ok := dt.Fields[part]; !ok {
			t.Errorf("datetime model missing %s", part)
		}
	}
	if _, ok := models[types.Date.Name()].Fields["hour"]; ok {
		t.Error("date model should not expose hour")
	}
	if _, ok := models[types.Number.Name()].Fields["year"]; ok {
		t.Error("number model should not expose calendar parts")
	}
}

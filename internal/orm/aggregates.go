package orm

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/magpie/internal/store"
	"github.com/aidanlsb/magpie/internal/types"
)

// AggregateFunc wraps a store expression in an aggregate clause.
type AggregateFunc func(store.Expr) store.Expr

// AggregateField wraps a previously bound field with an aggregate
// function. The result lives in a having-clause world: it exists only
// after grouping, so it can never be a grouping key itself.
type AggregateField struct {
	base     *BaseField
	baseType types.Type
	fn       AggregateFunc
	noAnnotate
}

func newAggregateField(baseType types.Type, name string, fn AggregateFunc, result types.Type) *AggregateField {
	// No RelName: an aggregate terminates its path, nothing hangs off it.
	return &AggregateField{
		base: newBase(BaseField{
			ModelName:  baseType.Name(),
			Name:       name,
			PrettyName: strings.ReplaceAll(name, "_", " "),
			Type:       result,
			Concrete:   true,
		}),
		baseType: baseType,
		fn:       fn,
	}
}

func (f *AggregateField) Meta() *BaseField { return f.base }

// BaseType is the semantic type this aggregate applies to.
func (f *AggregateField) BaseType() types.Type { return f.baseType }

func (f *AggregateField) Formatter() types.Formatter {
	return f.base.Type.Formatter(nil)
}

// Bind requires a previous field of the aggregate's base type; anything
// else is a caller bug, not an input error.
func (f *AggregateField) Bind(previous *BoundField) *BoundField {
	if previous == nil || previous.field == nil {
		panic(fmt.Sprintf("magpie internal error: aggregate %s bound at the root", f.base.Name))
	}
	if previous.Type() != f.baseType {
		panic(fmt.Sprintf("magpie internal error: aggregate %s applies to %s values, not %s",
			f.base.Name, f.baseType.Name(), previous.Type().Name()))
	}
	fullPath := appendPath(previous.fullPath, f.base.Name)
	return &BoundField{
		field:        f,
		previous:     previous,
		fullPath:     fullPath,
		prettyPath:   appendPath(previous.prettyPath, f.base.PrettyName),
		querysetPath: []string{store.AnnotationName(fullPath)},
		aggregate:    f.fn(store.Ref(previous.QuerysetPathStr())),
		having:       true,
	}
}

type aggregateSpec struct {
	fn     AggregateFunc
	result types.Type
}

// Registry maps semantic types to the aggregates that apply to them.
// Built once per engine; ForType materializes fresh descriptors per call.
type Registry struct {
	byType map[types.Type]map[string]aggregateSpec
}

// NewRegistry builds the aggregate table. Counting applies to every type
// except Boolean and always yields Number. Max and min preserve their
// input type on ordered types. Durations average and sum through an
// integer cast and stay Durations; Booleans do the same and become
// Numbers. When the engine can aggregate into arrays, every array element
// type also gets "all", collecting the distinct values in order.
func NewRegistry(arrayAgg bool) *Registry {
	r := &Registry{byType: make(map[types.Type]map[string]aggregateSpec)}

	for _, t := range types.All() {
		if t != types.Boolean {
			r.add(t, "count", store.CountDistinct, types.Number)
		}
	}

	for _, t := range []types.Type{types.DateTime, types.Date, types.Duration, types.Number} {
		r.add(t, "max", store.Max, t)
		r.add(t, "min", store.Min, t)
	}

	r.add(types.Number, "average", store.Avg, types.Number)
	r.add(types.Number, "std_dev", store.StdDev, types.Number)
	r.add(types.Number, "sum", store.Sum, types.Number)
	r.add(types.Number, "variance", store.Variance, types.Number)

	r.add(types.Duration, "average", func(x store.Expr) store.Expr {
		return store.Avg(store.CastDuration(x))
	}, types.Duration)
	r.add(types.Duration, "sum", func(x store.Expr) store.Expr {
		return store.Sum(store.CastDuration(x))
	}, types.Duration)

	r.add(types.Boolean, "average", func(x store.Expr) store.Expr {
		return store.Avg(store.CastInt(x))
	}, types.Number)
	r.add(types.Boolean, "sum", func(x store.Expr) store.Expr {
		return store.Sum(store.CastInt(x))
	}, types.Number)

	if arrayAgg {
		for _, at := range types.Arrays() {
			r.add(at.Element(), "all", store.ArrayAll, at)
		}
	}
	return r
}

func (r *Registry) add(t types.Type, name string, fn AggregateFunc, result types.Type) {
	m, ok := r.byType[t]
	if !ok {
		m = make(map[string]aggregateSpec)
		r.byType[t] = m
	}
	m[name] = aggregateSpec{fn: fn, result: result}
}

// ForType returns the aggregates that apply to values of the given type,
// as fresh descriptors keyed by aggregate name.
func (r *Registry) ForType(t types.Type) map[string]*AggregateField {
	specs := r.byType[t]
	out := make(map[string]*AggregateField, len(specs))
	for name, spec := range specs {
		out[name] = newAggregateField(t, name, spec.fn, spec.result)
	}
	return out
}

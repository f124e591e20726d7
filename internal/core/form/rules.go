package form

import "context"

// Rules below are the building blocks entity creators compose. Every rule
// subscribes with ctx and stops reacting once ctx is cancelled.

// RequireTogether makes every named field required as soon as one of them is
// set; clearing all of them lifts the requirement.
func RequireTogether(ctx context.Context, g *Group, names ...string) {
	fields := make([]*Field, len(names))
	for i, n := range names {
		fields[i] = g.Field(n)
	}
	apply := func() {
		anySet := false
		for _, f := range fields {
			if !IsEmpty(f.RawValue()) {
				anySet = true
				break
			}
		}
		for _, f := range fields {
			f.SetRequired(anySet)
		}
	}
	for _, f := range fields {
		f.Watch(ctx, func(_, _ any) { apply() })
	}
	apply()
}

// ClearOnCleared resets every dependent to nil whenever source becomes empty.
func ClearOnCleared(ctx context.Context, g *Group, source string, dependents ...string) {
	deps := make([]Control, len(dependents))
	for i, n := range dependents {
		deps[i] = g.Get(n)
		if deps[i] == nil {
			g.Field(n) // panics with the missing name
		}
	}
	g.Field(source).Watch(ctx, func(_, next any) {
		if !IsEmpty(next) {
			return
		}
		for _, d := range deps {
			clearControl(d)
		}
	})
}

func clearControl(c Control) {
	switch t := c.(type) {
	case *Field:
		t.SetValue(nil)
	case *Group:
		for _, n := range t.names {
			clearControl(t.controls[n])
		}
	}
}

// DefaultWhenSet sets target to value when source goes from empty to set,
// unless target already holds a value. The guard keeps mutually dependent
// rules from looping.
func DefaultWhenSet(ctx context.Context, g *Group, source, target string, value any) {
	t := g.Field(target)
	g.Field(source).Watch(ctx, func(prev, next any) {
		if !IsEmpty(prev) || IsEmpty(next) {
			return
		}
		if !IsEmpty(t.RawValue()) {
			return
		}
		t.SetValue(value)
	})
}

// EnableWhen enables dependents while toggle holds true and disables them
// otherwise. It is evaluated immediately and on every toggle change.
func EnableWhen(ctx context.Context, g *Group, toggle string, dependents ...string) {
	deps := make([]Control, len(dependents))
	for i, n := range dependents {
		deps[i] = g.Field(n)
	}
	apply := func(v any) {
		on, _ := deref(v).(bool)
		for _, d := range deps {
			if on {
				d.Enable()
			} else {
				d.Disable()
			}
		}
	}
	tf := g.Field(toggle)
	tf.Watch(ctx, func(_, next any) { apply(next) })
	apply(tf.RawValue())
}

// RequireWith installs RequiredRelated(source) on target and re-checks it
// whenever source changes.
func RequireWith(ctx context.Context, g *Group, source, target string) {
	t := g.Field(target)
	t.AddValidators(RequiredRelated(source))
	g.Field(source).Watch(ctx, func(_, _ any) { t.UpdateValidity() })
}

// ValidateDateAfter requires end to be after start.
func ValidateDateAfter(ctx context.Context, g *Group, start, end string) {
	e := g.Field(end)
	e.AddValidators(DateAfter(start))
	g.Field(start).Watch(ctx, func(_, _ any) { e.UpdateValidity() })
}

// ValidateGreaterThan requires upper to exceed lower.
func ValidateGreaterThan(ctx context.Context, g *Group, lower, upper string) {
	u := g.Field(upper)
	u.AddValidators(NumberGreaterThan(lower))
	g.Field(lower).Watch(ctx, func(_, _ any) { u.UpdateValidity() })
}

// UomEach is the unit of measure counted in whole units.
const UomEach = "EACH"

// QuantityValidators returns the numeric checks for a quantity measured in
// uomCode: EACH is a non-negative integer, anything else a non-negative
// decimal.
func QuantityValidators(uomCode string) []Validator {
	if uomCode == UomEach {
		return []Validator{Integer, Min(0)}
	}
	return []Validator{Decimal(4), Min(0)}
}

// UomQuantity picks quantity validators from the uom field now and again
// whenever the uom changes. extra validators are kept in front.
func UomQuantity(ctx context.Context, g *Group, uom string, quantities []string, extra ...Validator) {
	u := g.Field(uom)
	qs := make([]*Field, len(quantities))
	for i, n := range quantities {
		qs[i] = g.Field(n)
	}
	apply := func(v any) {
		vs := append(append([]Validator{}, extra...), QuantityValidators(CodeOf(v))...)
		for _, q := range qs {
			q.SetValidators(vs...)
		}
	}
	u.Watch(ctx, func(_, next any) { apply(next) })
	apply(u.RawValue())
}

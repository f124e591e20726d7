package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Group is an ordered set of named controls mirroring one entity.
type Group struct {
	names      []string
	controls   map[string]Control
	validators []Validator
	errors     Errors
	parent     Control
}

// NewGroup returns an empty group with optional group-level validators.
func NewGroup(validators ...Validator) *Group {
	return &Group{controls: map[string]Control{}, validators: validators}
}

// Add appends (or replaces) a named child and returns the group.
func (g *Group) Add(name string, c Control) *Group {
	if _, ok := g.controls[name]; !ok {
		g.names = append(g.names, name)
	}
	g.controls[name] = c
	c.setParent(g)
	g.validate()
	return g
}

// Names returns child names in insertion order.
func (g *Group) Names() []string { return g.names }

// Get resolves a dotted path ("product.code", "lines.0.qty"). It returns nil
// when any segment is missing.
func (g *Group) Get(path string) Control {
	var cur Control = g
	for _, seg := range strings.Split(path, ".") {
		switch c := cur.(type) {
		case *Group:
			next, ok := c.controls[seg]
			if !ok {
				return nil
			}
			cur = next
		case *Array:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= c.Len() {
				return nil
			}
			cur = c.At(i)
		default:
			return nil
		}
	}
	return cur
}

// Field returns the field at path and panics when it is missing or not a
// field: callers wire rules at build time, a typo there is a programming
// error.
func (g *Group) Field(path string) *Field {
	f, ok := g.Get(path).(*Field)
	if !ok {
		panic(fmt.Sprintf("form: no field %q", path))
	}
	return f
}

// Array returns the array at path, or nil.
func (g *Group) Array(path string) *Array {
	a, _ := g.Get(path).(*Array)
	return a
}

// Value returns enabled children only, unless every child is disabled.
func (g *Group) Value() any {
	if !g.Enabled() {
		return g.RawValue()
	}
	out := make(map[string]any, len(g.names))
	for _, n := range g.names {
		c := g.controls[n]
		if c.Enabled() {
			out[n] = c.Value()
		}
	}
	return out
}

func (g *Group) RawValue() any {
	out := make(map[string]any, len(g.names))
	for _, n := range g.names {
		out[n] = g.controls[n].RawValue()
	}
	return out
}

// Enabled is true when at least one child is enabled.
func (g *Group) Enabled() bool {
	if len(g.names) == 0 {
		return true
	}
	for _, n := range g.names {
		if g.controls[n].Enabled() {
			return true
		}
	}
	return false
}

func (g *Group) Enable() {
	for _, n := range g.names {
		g.controls[n].Enable()
	}
}

func (g *Group) Disable() {
	for _, n := range g.names {
		g.controls[n].Disable()
	}
}

// Errors returns the group-level errors only; see Report for the tree.
func (g *Group) Errors() Errors { return g.errors }

func (g *Group) Valid() bool {
	if !g.Enabled() {
		return true
	}
	if len(g.errors) > 0 {
		return false
	}
	for _, n := range g.names {
		if !g.controls[n].Valid() {
			return false
		}
	}
	return true
}

func (g *Group) Dirty() bool {
	for _, n := range g.names {
		if g.controls[n].Dirty() {
			return true
		}
	}
	return false
}

func (g *Group) MarkPristine() {
	for _, n := range g.names {
		g.controls[n].MarkPristine()
	}
}

func (g *Group) UpdateValidity() {
	g.validate()
	if g.parent != nil {
		g.parent.UpdateValidity()
	}
}

func (g *Group) validate() {
	if !g.Enabled() {
		g.errors = nil
		return
	}
	g.errors = runValidators(g, g.validators)
}

func (g *Group) Parent() Control { return g.parent }

func (g *Group) setParent(p Control) { g.parent = p }

// sibling looks name up in c's parent group.
func sibling(c Control, name string) Control {
	g, ok := c.Parent().(*Group)
	if !ok {
		return nil
	}
	return g.Get(name)
}

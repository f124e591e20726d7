package form

import "slices"

// Array is an ordered list of controls, one per collection element.
type Array struct {
	items      []Control
	validators []Validator
	errors     Errors
	parent     Control
	dirty      bool
	disabled   bool
}

func NewArray(items []Control, validators ...Validator) *Array {
	a := &Array{validators: validators}
	for _, c := range items {
		c.setParent(a)
		a.items = append(a.items, c)
	}
	a.validate()
	return a
}

func (a *Array) Len() int { return len(a.items) }

func (a *Array) At(i int) Control { return a.items[i] }

// Group returns item i as a group, or nil when it is not one.
func (a *Array) Group(i int) *Group {
	g, _ := a.items[i].(*Group)
	return g
}

// Push appends an item. Structural edits mark the array dirty.
func (a *Array) Push(c Control) {
	if a.disabled {
		c.Disable()
	}
	c.setParent(a)
	a.items = append(a.items, c)
	a.dirty = true
	a.UpdateValidity()
}

func (a *Array) RemoveAt(i int) {
	a.items = slices.Delete(a.items, i, i+1)
	a.dirty = true
	a.UpdateValidity()
}

func (a *Array) Value() any {
	out := make([]any, 0, len(a.items))
	for _, c := range a.items {
		if c.Enabled() {
			out = append(out, c.Value())
		}
	}
	return out
}

func (a *Array) RawValue() any {
	out := make([]any, 0, len(a.items))
	for _, c := range a.items {
		out = append(out, c.RawValue())
	}
	return out
}

func (a *Array) Enabled() bool { return !a.disabled }

func (a *Array) Enable() {
	a.disabled = false
	for _, c := range a.items {
		c.Enable()
	}
	a.UpdateValidity()
}

func (a *Array) Disable() {
	a.disabled = true
	for _, c := range a.items {
		c.Disable()
	}
	a.UpdateValidity()
}

func (a *Array) Errors() Errors { return a.errors }

func (a *Array) Valid() bool {
	if a.disabled {
		return true
	}
	if len(a.errors) > 0 {
		return false
	}
	for _, c := range a.items {
		if !c.Valid() {
			return false
		}
	}
	return true
}

func (a *Array) Dirty() bool {
	if a.dirty {
		return true
	}
	for _, c := range a.items {
		if c.Dirty() {
			return true
		}
	}
	return false
}

func (a *Array) MarkPristine() {
	a.dirty = false
	for _, c := range a.items {
		c.MarkPristine()
	}
}

func (a *Array) UpdateValidity() {
	a.validate()
	if a.parent != nil {
		a.parent.UpdateValidity()
	}
}

func (a *Array) validate() {
	if a.disabled {
		a.errors = nil
		return
	}
	a.errors = runValidators(a, a.validators)
}

func (a *Array) Parent() Control { return a.parent }

func (a *Array) setParent(p Control) { a.parent = p }

package form

import (
	"context"
	"reflect"
)

// Field is a leaf control holding a single value.
type Field struct {
	value      any
	disabled   bool
	dirty      bool
	required   bool
	validators []Validator
	errors     Errors
	parent     Control
	watchers   watchers
	// typ is the type of the first non-nil value, kept once the field is
	// cleared so wire edits can be converted back.
	typ reflect.Type
}

// NewField returns an enabled, pristine field.
func NewField(value any, validators ...Validator) *Field {
	f := &Field{value: value, validators: validators, typ: reflect.TypeOf(value)}
	f.validate()
	return f
}

func (f *Field) Value() any    { return f.value }
func (f *Field) RawValue() any { return f.value }

// SetValue replaces the value programmatically. Listeners are notified, the
// dirty flag is left alone.
func (f *Field) SetValue(v any) {
	if f.typ == nil && v != nil {
		f.typ = reflect.TypeOf(v)
	}
	prev := f.value
	f.value = v
	f.UpdateValidity()
	f.watchers.notify(prev, v)
}

// Edit applies a user edit: like SetValue but marks the field dirty.
func (f *Field) Edit(v any) {
	f.dirty = true
	f.SetValue(v)
}

// EditJSON is Edit for a value decoded from JSON: maps, strings and
// float64s are converted to the type the field holds.
func (f *Field) EditJSON(v any) error {
	c, err := coerce(f.typ, v)
	if err != nil {
		return err
	}
	f.Edit(c)
	return nil
}

// Reset sets the value and marks the field pristine.
func (f *Field) Reset(v any) {
	f.dirty = false
	f.SetValue(v)
}

func (f *Field) Enabled() bool { return !f.disabled }

func (f *Field) Enable() {
	if !f.disabled {
		return
	}
	f.disabled = false
	f.UpdateValidity()
}

func (f *Field) Disable() {
	if f.disabled {
		return
	}
	f.disabled = true
	f.UpdateValidity()
}

func (f *Field) Errors() Errors { return f.errors }

// HasError reports whether the given key is currently set.
func (f *Field) HasError(key string) bool {
	_, ok := f.errors[key]
	return ok
}

func (f *Field) Valid() bool { return f.disabled || len(f.errors) == 0 }

func (f *Field) Dirty() bool { return f.dirty }

func (f *Field) MarkDirty()    { f.dirty = true }
func (f *Field) MarkPristine() { f.dirty = false }

// Required reports whether the dynamic required flag is on.
func (f *Field) Required() bool { return f.required }

// SetRequired toggles the required check without touching other validators.
func (f *Field) SetRequired(on bool) {
	if f.required == on {
		return
	}
	f.required = on
	f.UpdateValidity()
}

// SetValidators replaces the validator list.
func (f *Field) SetValidators(vs ...Validator) {
	f.validators = vs
	f.UpdateValidity()
}

// AddValidators appends to the validator list.
func (f *Field) AddValidators(vs ...Validator) {
	f.validators = append(f.validators, vs...)
	f.UpdateValidity()
}

func (f *Field) UpdateValidity() {
	f.validate()
	if f.parent != nil {
		f.parent.UpdateValidity()
	}
}

func (f *Field) validate() {
	if f.disabled {
		f.errors = nil
		return
	}
	errs := runValidators(f, f.validators)
	if f.required {
		for k, d := range Required(f) {
			if errs == nil {
				errs = Errors{}
			}
			errs[k] = d
		}
	}
	f.errors = errs
}

func (f *Field) Parent() Control { return f.parent }

func (f *Field) setParent(p Control) {
	f.parent = p
	f.validate()
}

// Watch registers fn for value changes until ctx is done. The returned
// function detaches it early.
func (f *Field) Watch(ctx context.Context, fn Listener) func() {
	return f.watchers.add(ctx, fn)
}

// Listeners returns the number of attached listeners.
func (f *Field) Listeners() int { return f.watchers.len() }

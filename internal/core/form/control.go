// Package form builds live, validated representations of entities being
// edited. A form is a tree of controls: Field leaves, named Groups and
// ordered Arrays. Rules registered on a form react to sibling value changes
// until the context the rule was registered with is cancelled.
package form

import (
	"context"
	"slices"
	"sync"
)

// Errors maps an error key (required, min, dateAfter, ...) to its details.
// A nil or empty map means the control is valid.
type Errors map[string]any

// Validator inspects a control and reports the error keys it violates.
// Validators must not panic and must not mutate the control.
type Validator func(c Control) Errors

// Listener is called after a field's value changed.
type Listener func(prev, next any)

// Control is implemented by *Field, *Group and *Array.
type Control interface {
	// Value is the value of the enabled part of the control.
	Value() any
	// RawValue includes disabled descendants.
	RawValue() any
	Enabled() bool
	Enable()
	Disable()
	Errors() Errors
	Valid() bool
	Dirty() bool
	MarkPristine()
	// UpdateValidity re-runs validators and bubbles to the parent.
	UpdateValidity()
	Parent() Control

	setParent(p Control)
}

func runValidators(c Control, validators []Validator) Errors {
	var errs Errors
	for _, v := range validators {
		for k, d := range v(c) {
			if errs == nil {
				errs = Errors{}
			}
			errs[k] = d
		}
	}
	return errs
}

type subscription struct {
	ctx context.Context
	fn  Listener
}

// watchers is the per-field change-notification bus. Subscriptions detach
// when their context is done; context.AfterFunc runs on another goroutine so
// the list is guarded.
type watchers struct {
	mu   sync.Mutex
	subs []*subscription
}

func (w *watchers) add(ctx context.Context, fn Listener) func() {
	s := &subscription{ctx: ctx, fn: fn}
	w.mu.Lock()
	w.subs = append(w.subs, s)
	w.mu.Unlock()

	remove := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if i := slices.Index(w.subs, s); i >= 0 {
			w.subs = slices.Delete(w.subs, i, i+1)
		}
	}
	stop := context.AfterFunc(ctx, remove)
	return func() {
		stop()
		remove()
	}
}

func (w *watchers) notify(prev, next any) {
	w.mu.Lock()
	subs := slices.Clone(w.subs)
	w.mu.Unlock()
	for _, s := range subs {
		// A cancelled scope may not have been detached yet.
		if s.ctx.Err() != nil {
			continue
		}
		s.fn(prev, next)
	}
}

func (w *watchers) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

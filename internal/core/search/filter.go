package search

import (
	"errors"
	"fmt"
	"log/slog"
)

var ErrNotRemovable = errors.New("search line cannot be removed")

// Filter is the ordered list of lines of one search screen.
type Filter struct {
	columns Columns
	editors []*LineEditor
	logger  *slog.Logger
}

// NewFilter keeps the searchable columns and starts from the default lines.
func NewFilter(columns Columns, logger *slog.Logger) (*Filter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Filter{columns: columns.Searchable(), logger: logger}
	if err := f.Reset(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Filter) Columns() Columns { return f.columns }

func (f *Filter) Len() int { return len(f.editors) }

func (f *Filter) Editor(i int) *LineEditor { return f.editors[i] }

// Lines returns every line, populated or not.
func (f *Filter) Lines() []SearchLine {
	out := make([]SearchLine, len(f.editors))
	for i, e := range f.editors {
		out[i] = e.Line()
	}
	return out
}

func (f *Filter) States() []LineState {
	out := make([]LineState, len(f.editors))
	for i, e := range f.editors {
		out[i] = e.State()
	}
	return out
}

// Add appends an empty removable line.
func (f *Filter) Add() *LineEditor {
	e := NewLineEditor(f.columns, f.logger)
	f.editors = append(f.editors, e)
	return e
}

// CanAdd is true on the last line once its column is chosen.
func (f *Filter) CanAdd(i int) bool {
	return i == len(f.editors)-1 && f.editors[i].Line().Column != nil
}

// CanRemove is true for removable lines while more than one line exists.
func (f *Filter) CanRemove(i int) bool {
	return i >= 0 && i < len(f.editors) && f.editors[i].Line().Removable && len(f.editors) > 1
}

func (f *Filter) Remove(i int) error {
	if !f.CanRemove(i) {
		return fmt.Errorf("%w: line %d", ErrNotRemovable, i)
	}
	f.editors = append(f.editors[:i], f.editors[i+1:]...)
	return nil
}

// Clear drops every removable line. Required lines keep their default
// value; an empty filter gets one blank line.
func (f *Filter) Clear() error {
	defaults, err := DefaultLines(f.columns)
	if err != nil {
		return err
	}
	f.editors = f.editors[:0]
	for _, l := range defaults {
		if l.Removable {
			continue
		}
		f.Add().Load(l)
	}
	if len(f.editors) == 0 {
		f.Add()
	}
	return nil
}

// Reset goes back to the default lines.
func (f *Filter) Reset() error {
	defaults, err := DefaultLines(f.columns)
	if err != nil {
		return err
	}
	f.editors = f.editors[:0]
	for _, l := range defaults {
		f.Add().Load(l)
	}
	if len(f.editors) == 0 {
		f.Add()
	}
	return nil
}

// Load restores persisted lines. Each one is re-resolved against the
// current columns; required lines missing from the state are appended with
// their defaults.
func (f *Filter) Load(states []LineState) error {
	if len(states) == 0 {
		return f.Reset()
	}
	defaults, err := DefaultLines(f.columns)
	if err != nil {
		return err
	}
	f.editors = f.editors[:0]
	present := map[string]bool{}
	for _, s := range states {
		e := f.Add()
		e.Init(s)
		if c := e.Line().Column; c != nil {
			present[c.Name] = true
		}
	}
	for _, l := range defaults {
		if !l.Removable && !present[l.Column.Name] {
			f.Add().Load(l)
		}
	}
	return nil
}

// Valid is false while a required line is unpopulated.
func (f *Filter) Valid() bool {
	for _, e := range f.editors {
		if !e.Valid() {
			return false
		}
	}
	return true
}

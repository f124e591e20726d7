package search

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrLocked is returned when the column or comparator of a required line is
// changed.
var ErrLocked = errors.New("search line is locked")

// InputType tells a client which value input a line needs.
type InputType string

const (
	InputNone          InputType = "none"
	InputText          InputType = "text"
	InputNumber        InputType = "number"
	InputDate          InputType = "date"
	InputDateRange     InputType = "dateRange"
	InputDateTime      InputType = "dateTime"
	InputDateTimeRange InputType = "dateTimeRange"
	InputDropdown      InputType = "dropdown"
	InputMultiDropdown InputType = "multiDropdown"
	InputBoolean       InputType = "boolean"
)

// LineEditor edits one search line against a fixed set of searchable
// columns.
type LineEditor struct {
	columns Columns
	line    SearchLine
	logger  *slog.Logger
}

func NewLineEditor(columns Columns, logger *slog.Logger) *LineEditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LineEditor{columns: columns.Searchable(), line: SearchLine{Removable: true}, logger: logger}
}

// Init loads a line by names. A column that is no longer searchable clears
// the line; a comparator that is not legal for the column is replaced by the
// column's default comparator. A required line whose value no longer fits
// falls back to its default value.
func (e *LineEditor) Init(s LineState) {
	e.line = SearchLine{Value: s.Value, Removable: s.Removable}
	c := e.columns.ByName(s.Column)
	if c == nil {
		if s.Column != "" {
			e.logger.Debug("dropping stale search column", "column", s.Column)
		}
		e.line.Value = nil
		e.line.Removable = true
		return
	}
	e.line.Column = c
	if c.Searchable.Required {
		e.line.Removable = false
	}
	cmp, ok := legal(c, s.Comparator)
	if !ok {
		if s.Comparator != "" {
			e.logger.Debug("replacing stale search comparator", "column", c.Name, "comparator", s.Comparator)
		}
		def, err := c.DefaultComparator()
		if err != nil {
			e.logger.Warn("no default comparator", "column", c.Name, "error", err)
			e.line.Value = nil
			return
		}
		if prev, known := ComparatorByKey(s.Comparator); known && prev.shape() != def.shape() {
			s.Value = nil
		}
		cmp = def
	}
	e.line.Comparator = cmp
	e.line.Value = normalizeValue(cmp, s.Value)
	if c.Searchable.Required && !hasValue(cmp, e.line.Value) && (!ok || !blank(s.Value)) {
		e.line.Value = normalizeValue(cmp, c.Searchable.Value)
	}
}

// Load replaces the edited line.
func (e *LineEditor) Load(l SearchLine) {
	e.line = l
}

func (e *LineEditor) Line() SearchLine { return e.line }

func (e *LineEditor) State() LineState { return e.line.State() }

// ColumnLocked reports whether column and comparator are fixed. Only the
// value of a required line is editable.
func (e *LineEditor) ColumnLocked() bool {
	return e.line.Column != nil && e.line.Column.Searchable.Required
}

// SelectColumn picks a column, resets the comparator to its first legal one
// and clears the value.
func (e *LineEditor) SelectColumn(name string) error {
	if e.ColumnLocked() {
		return fmt.Errorf("%w: %s", ErrLocked, e.line.Column.Name)
	}
	c := e.columns.ByName(name)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	legalSet := ComparatorsFor(c)
	if len(legalSet) == 0 {
		return fmt.Errorf("%w: %s has no comparators", ErrInvalidColumn, c.Name)
	}
	e.line.Column = c
	e.line.Comparator = legalSet[0]
	e.line.Value = nil
	return nil
}

// SelectComparator switches the comparator. Scalar and list comparators
// carry the value across: a scalar becomes a one item list and a one item
// list becomes its item. Moving to or from a range, or to a comparator that
// needs no data, clears the value.
func (e *LineEditor) SelectComparator(key string) error {
	if e.line.Column == nil {
		return fmt.Errorf("%w: no column selected", ErrUnknownColumn)
	}
	if e.ColumnLocked() {
		return fmt.Errorf("%w: %s", ErrLocked, e.line.Column.Name)
	}
	cmp, ok := legal(e.line.Column, key)
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrInvalidComparator, e.line.Column.Name, key)
	}
	prev := shapeOf(e.line.Value)
	if e.line.Comparator != nil {
		prev = e.line.Comparator.shape()
	}
	switch next := cmp.shape(); {
	case next == shapeNone, prev == shapeNone, (prev == shapeRange) != (next == shapeRange):
		e.line.Value = nil
	case prev == shapeScalar && next == shapeMulti:
		if blank(e.line.Value) {
			e.line.Value = nil
		} else {
			e.line.Value = []any{e.line.Value}
		}
	case prev == shapeMulti && next == shapeScalar:
		if l := asList(e.line.Value); len(l) == 1 && !blank(l[0]) {
			e.line.Value = l[0]
		} else {
			e.line.Value = nil
		}
	}
	e.line.Comparator = cmp
	return nil
}

// SetValue stores v coerced to the comparator's shape.
func (e *LineEditor) SetValue(v any) {
	if e.line.Comparator == nil {
		e.line.Value = v
		return
	}
	e.line.Value = normalizeValue(e.line.Comparator, v)
}

// Comparators lists what the current column allows.
func (e *LineEditor) Comparators() []*Comparator {
	return ComparatorsFor(e.line.Column)
}

// Columns lists the columns a line can pick from.
func (e *LineEditor) Columns() Columns { return e.columns }

func (e *LineEditor) InputType() InputType {
	c, cmp := e.line.Column, e.line.Comparator
	if c == nil || cmp == nil || !cmp.RequiresData {
		return InputNone
	}
	switch c.Type {
	case TypeDropdown:
		if cmp.Multiple {
			return InputMultiDropdown
		}
		return InputDropdown
	case TypeInteger, TypeDecimal:
		return InputNumber
	case TypeDate:
		if cmp.Range {
			return InputDateRange
		}
		return InputDate
	case TypeDateTime:
		if cmp.Range {
			return InputDateTimeRange
		}
		return InputDateTime
	case TypeBoolean:
		return InputBoolean
	case TypeString, TypeCustom:
		return InputText
	}
	e.logger.Warn("unknown column type, using text input", "column", c.Name, "type", c.Type)
	return InputText
}

// Valid is false only for a required line that is not populated.
func (e *LineEditor) Valid() bool {
	if e.line.Column == nil || !e.line.Column.IsSearchable() || !e.line.Column.Searchable.Required {
		return true
	}
	return e.line.Populated()
}

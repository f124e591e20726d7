package search

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Range is the value of between/notBetween lines.
type Range struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// SearchLine is one filter criterion.
type SearchLine struct {
	Column     *Column
	Comparator *Comparator
	Value      any
	Removable  bool
}

// Populated reports whether the line contributes a restriction: column and
// comparator are chosen and, when the comparator needs data, a non-blank
// value of the right shape is present.
func (l SearchLine) Populated() bool {
	if l.Column == nil || l.Comparator == nil {
		return false
	}
	if !l.Comparator.RequiresData {
		return true
	}
	return hasValue(l.Comparator, l.Value)
}

func hasValue(cmp *Comparator, v any) bool {
	switch cmp.shape() {
	case shapeRange:
		r, ok := v.(Range)
		return ok && !blank(r.From) && !blank(r.To)
	case shapeMulti:
		for _, item := range asList(v) {
			if !blank(item) {
				return true
			}
		}
		return false
	case shapeScalar:
		if _, isRange := v.(Range); isRange {
			return false
		}
		return !blank(v)
	}
	return false
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case time.Time:
		return t.IsZero()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		return rv.IsNil() || blank(rv.Elem().Interface())
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

func asList(v any) []any {
	if v == nil {
		return nil
	}
	if l, ok := v.([]any); ok {
		return l
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// normalizeValue coerces a value restored from JSON into the comparator's
// shape: {"from","to"} maps become Range, slices become []any.
func normalizeValue(cmp *Comparator, v any) any {
	switch cmp.shape() {
	case shapeRange:
		switch t := v.(type) {
		case Range:
			return t
		case map[string]any:
			return Range{From: t["from"], To: t["to"]}
		case []any:
			if len(t) == 2 {
				return Range{From: t[0], To: t[1]}
			}
		}
		return nil
	case shapeMulti:
		if v == nil {
			return nil
		}
		return asList(v)
	case shapeNone:
		return nil
	}
	return v
}

// shapeOf classifies a held value.
func shapeOf(v any) shape {
	if blank(v) {
		return shapeNone
	}
	if _, ok := v.(Range); ok {
		return shapeRange
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice {
		return shapeMulti
	}
	return shapeScalar
}

// LineState is the persisted form of a line, by names.
type LineState struct {
	Column     string `json:"column,omitempty"`
	Comparator string `json:"comparator,omitempty"`
	Value      any    `json:"value,omitempty"`
	Removable  bool   `json:"removable,omitempty"`
}

func (l SearchLine) State() LineState {
	s := LineState{Value: l.Value, Removable: l.Removable}
	if l.Column != nil {
		s.Column = l.Column.Name
	}
	if l.Comparator != nil {
		s.Comparator = l.Comparator.Key
	}
	return s
}

func (l SearchLine) String() string {
	col, cmp := "<none>", "<none>"
	if l.Column != nil {
		col = l.Column.Name
	}
	if l.Comparator != nil {
		cmp = l.Comparator.Key
	}
	return fmt.Sprintf("%s %s %v", col, cmp, l.Value)
}

// newLine builds the default line of a column.
func newLine(c *Column) (SearchLine, error) {
	cmp, err := c.DefaultComparator()
	if err != nil {
		return SearchLine{}, err
	}
	l := SearchLine{Column: c, Comparator: cmp, Removable: true}
	if c.Searchable != nil {
		l.Value = normalizeValue(cmp, c.Searchable.Value)
		l.Removable = !c.Searchable.Required
	}
	return l, nil
}

// DefaultLines builds one line per required or default-search column, in
// column order.
func DefaultLines(columns Columns) ([]SearchLine, error) {
	if err := columns.Validate(); err != nil {
		return nil, err
	}
	var out []SearchLine
	for _, c := range columns {
		if !c.IsSearchable() || !(c.Searchable.Required || c.Searchable.Default) {
			continue
		}
		l, err := newLine(c)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

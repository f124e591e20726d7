package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/baseplate/storeops/internal/core/form"
)

// QueryRestriction is a (field, comparator, values) triple. Scalars travel
// as one value, ranges as [from, to], multi comparators as the list.
type QueryRestriction struct {
	Field      string `json:"field"`
	Comparator string `json:"comparator"`
	Values     []any  `json:"values,omitempty"`
}

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts any casing; anything else is "no direction".
func ParseDirection(s string) Direction {
	switch d := Direction(strings.ToUpper(s)); d {
	case Asc, Desc:
		return d
	}
	return ""
}

type Sort struct {
	Field     string    `json:"field,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// QuerySearch is everything a search endpoint receives.
type QuerySearch struct {
	QueryRestrictions []QueryRestriction `json:"queryRestrictions"`
	Sort              Sort               `json:"sort"`
	Page              Page               `json:"page"`
}

// Result is one page of matches.
type Result[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
}

// NormalizeSort replaces a sort without direction by an ascending sort on
// the first column.
func NormalizeSort(s Sort, columns Columns) Sort {
	if s.Direction != "" && s.Field != "" {
		return s
	}
	if len(columns) == 0 {
		return Sort{}
	}
	return Sort{Field: columns[0].Field(), Direction: Asc}
}

// Restriction converts a populated line.
func (l SearchLine) Restriction() QueryRestriction {
	r := QueryRestriction{Field: l.Column.Field(), Comparator: l.Comparator.Key}
	switch l.Comparator.shape() {
	case shapeScalar:
		r.Values = []any{encodeValue(l.Column, l.Value)}
	case shapeRange:
		rg := l.Value.(Range)
		r.Values = []any{encodeValue(l.Column, rg.From), encodeValue(l.Column, rg.To)}
	case shapeMulti:
		for _, v := range asList(l.Value) {
			if !blank(v) {
				r.Values = append(r.Values, encodeValue(l.Column, v))
			}
		}
	}
	return r
}

// Partition splits lines into populated and unpopulated, keeping order.
func Partition(lines []SearchLine) (populated, unpopulated []SearchLine) {
	for _, l := range lines {
		if l.Populated() {
			populated = append(populated, l)
		} else {
			unpopulated = append(unpopulated, l)
		}
	}
	return populated, unpopulated
}

// Restrictions converts the populated lines in order.
func Restrictions(lines []SearchLine) []QueryRestriction {
	populated, _ := Partition(lines)
	out := make([]QueryRestriction, 0, len(populated))
	for _, l := range populated {
		out = append(out, l.Restriction())
	}
	return out
}

// encodeValue puts dates in the wire formats the backend parses.
func encodeValue(c *Column, v any) any {
	switch c.Type {
	case TypeDate:
		if t, ok := form.ToTime(v); ok {
			return t.Format(time.DateOnly)
		}
	case TypeDateTime:
		if t, ok := form.ToTime(v); ok {
			return t.Format(time.RFC3339)
		}
	case TypeInteger, TypeDecimal:
		if n, ok := form.ToNumber(v); ok {
			return n
		}
	}
	return v
}

// Line rebuilds a line from a restriction using column metadata.
func (r QueryRestriction) Line(columns Columns) (SearchLine, error) {
	c := columns.ByField(r.Field)
	if c == nil {
		return SearchLine{}, fmt.Errorf("%w: %s", ErrUnknownColumn, r.Field)
	}
	cmp, ok := legal(c, r.Comparator)
	if !ok {
		return SearchLine{}, fmt.Errorf("%w: %s %s", ErrInvalidComparator, c.Name, r.Comparator)
	}
	l := SearchLine{Column: c, Comparator: cmp}
	switch cmp.shape() {
	case shapeScalar:
		if len(r.Values) > 0 {
			l.Value = r.Values[0]
		}
	case shapeRange:
		if len(r.Values) == 2 {
			l.Value = Range{From: r.Values[0], To: r.Values[1]}
		}
	case shapeMulti:
		l.Value = append([]any(nil), r.Values...)
	}
	return l, nil
}

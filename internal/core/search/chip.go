package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/baseplate/storeops/internal/core/form"
)

const (
	DateFormat     = "01/02/2006"
	DateTimeFormat = "01/02/2006 03:04 PM"
)

// Chip is the human-readable rendering of a populated line.
type Chip struct {
	Column string `json:"column"`
	Text   string `json:"text"`
}

// ChipFor renders "<label> <comparator> <value>". Comparators without data
// have no value part.
func ChipFor(l SearchLine) Chip {
	parts := []string{l.Column.Label(), l.Comparator.Display}
	switch l.Comparator.shape() {
	case shapeScalar:
		parts = append(parts, FormatValue(l.Column, l.Value))
	case shapeRange:
		r, _ := l.Value.(Range)
		parts = append(parts, FormatValue(l.Column, r.From), "and", FormatValue(l.Column, r.To))
	case shapeMulti:
		var items []string
		for _, v := range asList(l.Value) {
			if !blank(v) {
				items = append(items, FormatValue(l.Column, v))
			}
		}
		parts = append(parts, "["+strings.Join(items, ", ")+"]")
	}
	return Chip{Column: l.Column.Name, Text: strings.Join(parts, " ")}
}

// Chips renders the populated lines in order.
func Chips(lines []SearchLine) []Chip {
	populated, _ := Partition(lines)
	out := make([]Chip, 0, len(populated))
	for _, l := range populated {
		out = append(out, ChipFor(l))
	}
	return out
}

// ChipFromRestriction renders a restriction as the line it came from would.
func ChipFromRestriction(columns Columns, r QueryRestriction) (Chip, error) {
	l, err := r.Line(columns)
	if err != nil {
		return Chip{}, err
	}
	return ChipFor(l), nil
}

// FormatValue renders one value the way chips and the CLI show it.
func FormatValue(c *Column, v any) string {
	if blank(v) {
		return ""
	}
	switch c.Type {
	case TypeDate:
		if t, ok := form.ToTime(v); ok {
			return t.Format(DateFormat)
		}
	case TypeDateTime:
		if t, ok := form.ToTime(v); ok {
			return t.Format(DateTimeFormat)
		}
	case TypeInteger, TypeDecimal:
		if n, ok := form.ToNumber(v); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	case TypeBoolean:
		switch b := v.(type) {
		case bool:
			if b {
				return "Yes"
			}
			return "No"
		case string:
			if p, err := strconv.ParseBool(b); err == nil {
				return FormatValue(c, p)
			}
		}
	case TypeDropdown:
		if label, ok := optionLabel(c, v); ok {
			return label
		}
	}
	if code := form.CodeOf(v); code != "" {
		return code
	}
	return fmt.Sprint(v)
}

func optionLabel(c *Column, v any) (string, bool) {
	want := fmt.Sprint(v)
	if code := form.CodeOf(v); code != "" {
		want = code
	}
	for _, o := range c.Options {
		if fmt.Sprint(o.Value) == want {
			return o.Label, true
		}
	}
	return "", false
}

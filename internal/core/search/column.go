// Package search turns column metadata and user-entered filter lines into
// query restrictions, renders them as chips and orchestrates searching and
// grid (bulk edit) saves against injected backend functions.
package search

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidColumn is a configuration error in column metadata.
	ErrInvalidColumn     = errors.New("invalid column")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrInvalidComparator = errors.New("comparator not allowed for column")
)

// ValueType drives comparators, input types and value formatting.
type ValueType string

const (
	TypeString   ValueType = "string"
	TypeInteger  ValueType = "integer"
	TypeDecimal  ValueType = "decimal"
	TypeDate     ValueType = "date"
	TypeDateTime ValueType = "dateTime"
	TypeBoolean  ValueType = "boolean"
	TypeDropdown ValueType = "dropdown"
	TypeCustom   ValueType = "custom"
)

// Option is one dropdown choice.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// Searchable is the search policy of a column.
type Searchable struct {
	// Default columns get a filter line when the filter is built or reset.
	Default bool `json:"defaultSearch,omitempty"`
	// Required columns always have a line that cannot be removed.
	Required bool `json:"required,omitempty"`
	// Comparator is the key of the default comparator; empty picks the
	// first legal one.
	Comparator string `json:"comparator,omitempty"`
	Value      any    `json:"value,omitempty"`
}

// Column describes a searchable and/or displayable field.
type Column struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName,omitempty"`
	APIField    string      `json:"apiField,omitempty"`
	Type        ValueType   `json:"type"`
	Searchable  *Searchable `json:"searchable,omitempty"`
	Comparators []string    `json:"comparators,omitempty"`
	Options     []Option    `json:"options,omitempty"`
	// GridUpdatable columns may be changed in grid mode.
	GridUpdatable bool `json:"gridUpdatable,omitempty"`
}

// Field is the API path restrictions and sorts are sent with.
func (c *Column) Field() string {
	if c.APIField != "" {
		return c.APIField
	}
	return c.Name
}

// Label is the human-readable name.
func (c *Column) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

func (c *Column) IsSearchable() bool { return c != nil && c.Searchable != nil }

// Root is the top-level form field the column edits: "store.code" -> "store".
func (c *Column) Root() string {
	root, _, _ := strings.Cut(c.Name, ".")
	return root
}

// DefaultComparator resolves the declared default comparator.
func (c *Column) DefaultComparator() (*Comparator, error) {
	legalSet := ComparatorsFor(c)
	if len(legalSet) == 0 {
		return nil, fmt.Errorf("%w: %s has no comparators", ErrInvalidColumn, c.Name)
	}
	if c.Searchable == nil || c.Searchable.Comparator == "" {
		return legalSet[0], nil
	}
	cmp, ok := legal(c, c.Searchable.Comparator)
	if !ok {
		return nil, fmt.Errorf("%w: %s declares default comparator %q outside its legal set", ErrInvalidColumn, c.Name, c.Searchable.Comparator)
	}
	return cmp, nil
}

// Columns is an ordered column set.
type Columns []*Column

func (cs Columns) ByName(name string) *Column {
	for _, c := range cs {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ByField finds a column by API field path.
func (cs Columns) ByField(field string) *Column {
	for _, c := range cs {
		if c.Field() == field {
			return c
		}
	}
	return nil
}

func (cs Columns) Searchable() Columns {
	out := make(Columns, 0, len(cs))
	for _, c := range cs {
		if c.IsSearchable() {
			out = append(out, c)
		}
	}
	return out
}

func (cs Columns) Names() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

// Validate checks names are unique, every searchable column's default
// comparator is legal for it and required columns start populated.
func (cs Columns) Validate() error {
	seen := map[string]bool{}
	for _, c := range cs {
		if c.Name == "" {
			return fmt.Errorf("%w: column without a name", ErrInvalidColumn)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate column %s", ErrInvalidColumn, c.Name)
		}
		seen[c.Name] = true
		if !c.IsSearchable() {
			continue
		}
		cmp, err := c.DefaultComparator()
		if err != nil {
			return err
		}
		// A required line must be populated from the start.
		if c.Searchable.Required && !hasValue(cmp, normalizeValue(cmp, c.Searchable.Value)) && cmp.RequiresData {
			return fmt.Errorf("%w: required column %s has no default value", ErrInvalidColumn, c.Name)
		}
	}
	return nil
}

// MustColumns panics when cs is invalid; column sets are declared in code.
func MustColumns(cs Columns) Columns {
	if err := cs.Validate(); err != nil {
		panic(err)
	}
	return cs
}

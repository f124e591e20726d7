package search

// Comparator is a restriction operator. Key is what the backend receives,
// Display what a user reads.
type Comparator struct {
	Key          string `json:"key"`
	Display      string `json:"display"`
	RequiresData bool   `json:"requiresData"`
	// Multiple comparators take a list of values.
	Multiple bool `json:"multiple,omitempty"`
	// Range comparators take a from/to pair.
	Range bool `json:"range,omitempty"`
}

var (
	EqualTo              = &Comparator{Key: "equalTo", Display: "equal to", RequiresData: true}
	NotEqualTo           = &Comparator{Key: "notEqualTo", Display: "not equal to", RequiresData: true}
	StartsWith           = &Comparator{Key: "startsWith", Display: "starts with", RequiresData: true}
	EndsWith             = &Comparator{Key: "endsWith", Display: "ends with", RequiresData: true}
	Contains             = &Comparator{Key: "contains", Display: "contains", RequiresData: true}
	NotContains          = &Comparator{Key: "notContains", Display: "does not contain", RequiresData: true}
	GreaterThan          = &Comparator{Key: "greaterThan", Display: "greater than", RequiresData: true}
	GreaterThanOrEqualTo = &Comparator{Key: "greaterThanOrEqualTo", Display: "greater than or equal to", RequiresData: true}
	LessThan             = &Comparator{Key: "lessThan", Display: "less than", RequiresData: true}
	LessThanOrEqualTo    = &Comparator{Key: "lessThanOrEqualTo", Display: "less than or equal to", RequiresData: true}
	Between              = &Comparator{Key: "between", Display: "between", RequiresData: true, Range: true}
	NotBetween           = &Comparator{Key: "notBetween", Display: "not between", RequiresData: true, Range: true}
	In                   = &Comparator{Key: "in", Display: "in", RequiresData: true, Multiple: true}
	NotIn                = &Comparator{Key: "notIn", Display: "not in", RequiresData: true, Multiple: true}
	Blank                = &Comparator{Key: "blank", Display: "is blank"}
	NotBlank             = &Comparator{Key: "notBlank", Display: "is not blank"}
	True                 = &Comparator{Key: "true", Display: "is true"}
	False                = &Comparator{Key: "false", Display: "is false"}
)

var allComparators = []*Comparator{
	EqualTo, NotEqualTo, StartsWith, EndsWith, Contains, NotContains,
	GreaterThan, GreaterThanOrEqualTo, LessThan, LessThanOrEqualTo,
	Between, NotBetween, In, NotIn, Blank, NotBlank, True, False,
}

// ComparatorByKey looks a comparator up in the fixed set.
func ComparatorByKey(key string) (*Comparator, bool) {
	for _, c := range allComparators {
		if c.Key == key {
			return c, true
		}
	}
	return nil, false
}

var comparatorsByType = map[ValueType][]*Comparator{
	TypeString:   {EqualTo, NotEqualTo, StartsWith, EndsWith, Contains, NotContains, In, NotIn, Blank, NotBlank},
	TypeInteger:  {EqualTo, NotEqualTo, GreaterThan, GreaterThanOrEqualTo, LessThan, LessThanOrEqualTo, Between, NotBetween, In, NotIn, Blank, NotBlank},
	TypeDecimal:  {EqualTo, NotEqualTo, GreaterThan, GreaterThanOrEqualTo, LessThan, LessThanOrEqualTo, Between, NotBetween, Blank, NotBlank},
	TypeDate:     {EqualTo, NotEqualTo, GreaterThan, GreaterThanOrEqualTo, LessThan, LessThanOrEqualTo, Between, NotBetween, Blank, NotBlank},
	TypeDateTime: {GreaterThan, GreaterThanOrEqualTo, LessThan, LessThanOrEqualTo, Between, NotBetween, Blank, NotBlank},
	TypeBoolean:  {EqualTo, True, False, Blank, NotBlank},
	TypeDropdown: {EqualTo, NotEqualTo, In, NotIn, Blank, NotBlank},
	TypeCustom:   {EqualTo, NotEqualTo, Blank, NotBlank},
}

// ComparatorsFor yields the legal comparators for a column: its explicit
// list when it has one, otherwise the set for its value type. Unknown types
// get the string set.
func ComparatorsFor(c *Column) []*Comparator {
	if c == nil {
		return nil
	}
	if len(c.Comparators) > 0 {
		out := make([]*Comparator, 0, len(c.Comparators))
		for _, k := range c.Comparators {
			if cmp, ok := ComparatorByKey(k); ok {
				out = append(out, cmp)
			}
		}
		return out
	}
	if set, ok := comparatorsByType[c.Type]; ok {
		return set
	}
	return comparatorsByType[TypeString]
}

func legal(c *Column, key string) (*Comparator, bool) {
	for _, cmp := range ComparatorsFor(c) {
		if cmp.Key == key {
			return cmp, true
		}
	}
	return nil, false
}

type shape int

const (
	shapeNone shape = iota
	shapeScalar
	shapeMulti
	shapeRange
)

func (c *Comparator) shape() shape {
	switch {
	case c == nil || !c.RequiresData:
		return shapeNone
	case c.Range:
		return shapeRange
	case c.Multiple:
		return shapeMulti
	}
	return shapeScalar
}

// Allows resolves key when it is legal for the column.
func (c *Column) Allows(key string) (*Comparator, bool) {
	return legal(c, key)
}

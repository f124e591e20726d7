package search

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColumns() Columns {
	return Columns{
		{Name: "id", DisplayName: "Id", Type: TypeInteger, Searchable: &Searchable{}},
		{Name: "store.code", DisplayName: "Store", Type: TypeString,
			Searchable: &Searchable{Required: true, Comparator: "equalTo", Value: "0042"}},
		{Name: "receiptDate", DisplayName: "Receipt Date", Type: TypeDate,
			Searchable: &Searchable{Default: true, Comparator: "between"}},
		{Name: "status", DisplayName: "Status", Type: TypeDropdown, Searchable: &Searchable{},
			Options: []Option{{Value: "OPEN", Label: "Open"}, {Value: "CLOSED", Label: "Closed"}}},
		{Name: "comments", DisplayName: "Comments", Type: TypeString},
	}
}

func line(t *testing.T, cs Columns, column, cmp string, v any) SearchLine {
	t.Helper()
	c := cs.ByName(column)
	require.NotNil(t, c, column)
	k, ok := legal(c, cmp)
	require.True(t, ok, cmp)
	return SearchLine{Column: c, Comparator: k, Value: normalizeValue(k, v), Removable: true}
}

func TestDefaultLines(t *testing.T) {
	lines, err := DefaultLines(testColumns())
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "store.code", lines[0].Column.Name)
	assert.Equal(t, EqualTo, lines[0].Comparator)
	assert.Equal(t, "0042", lines[0].Value)
	assert.False(t, lines[0].Removable)
	assert.True(t, lines[0].Populated())

	assert.Equal(t, "receiptDate", lines[1].Column.Name)
	assert.Equal(t, Between, lines[1].Comparator)
	assert.True(t, lines[1].Removable)
	assert.False(t, lines[1].Populated())
}

func TestDefaultLinesConfigurationErrors(t *testing.T) {
	illegal := Columns{{Name: "active", Type: TypeBoolean, Searchable: &Searchable{Default: true, Comparator: "startsWith"}}}
	_, err := DefaultLines(illegal)
	assert.ErrorIs(t, err, ErrInvalidColumn)

	emptyRequired := Columns{{Name: "store", Type: TypeString, Searchable: &Searchable{Required: true}}}
	_, err = DefaultLines(emptyRequired)
	assert.ErrorIs(t, err, ErrInvalidColumn)

	noData := Columns{{Name: "store", Type: TypeString, Searchable: &Searchable{Required: true, Comparator: "notBlank"}}}
	lines, err := DefaultLines(noData)
	require.NoError(t, err)
	assert.True(t, lines[0].Populated())

	assert.Panics(t, func() { MustColumns(Columns{{Name: "a"}, {Name: "a"}}) })
}

func TestPopulated(t *testing.T) {
	cs := testColumns()
	tests := []struct {
		name string
		line SearchLine
		want bool
	}{
		{"no column", SearchLine{}, false},
		{"no comparator", SearchLine{Column: cs.ByName("id")}, false},
		{"blank scalar", line(t, cs, "id", "equalTo", " "), false},
		{"scalar", line(t, cs, "id", "equalTo", 4), true},
		{"half range", line(t, cs, "receiptDate", "between", map[string]any{"from": "2024-01-01"}), false},
		{"range", line(t, cs, "receiptDate", "between", []any{"2024-01-01", "2024-01-31"}), true},
		{"empty multi", line(t, cs, "status", "in", []any{""}), false},
		{"multi", line(t, cs, "status", "in", []any{"", "OPEN"}), true},
		{"no data", line(t, cs, "status", "blank", nil), true},
		{"range held by scalar comparator", SearchLine{Column: cs.ByName("id"), Comparator: EqualTo, Value: Range{From: 1, To: 2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.line.Populated())
		})
	}
}

func TestRestrictionsSkipUnpopulatedLines(t *testing.T) {
	cs := testColumns()
	lines := []SearchLine{
		line(t, cs, "store.code", "equalTo", "0042"),
		line(t, cs, "id", "equalTo", nil),
		line(t, cs, "receiptDate", "between", []any{"2024-01-05", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}),
		line(t, cs, "status", "in", []any{"OPEN", "CLOSED"}),
		line(t, cs, "status", "notBlank", "ignored"),
	}
	got := Restrictions(lines)
	assert.Equal(t, []QueryRestriction{
		{Field: "store.code", Comparator: "equalTo", Values: []any{"0042"}},
		{Field: "receiptDate", Comparator: "between", Values: []any{"2024-01-05", "2024-01-31"}},
		{Field: "status", Comparator: "in", Values: []any{"OPEN", "CLOSED"}},
		{Field: "status", Comparator: "notBlank"},
	}, got)
}

func TestChipRoundTrip(t *testing.T) {
	cs := testColumns()
	tests := []struct {
		line SearchLine
		want string
	}{
		{line(t, cs, "id", "equalTo", 4), "Id equal to 4"},
		{line(t, cs, "id", "in", []any{1, 2}), "Id in [1, 2]"},
		{line(t, cs, "receiptDate", "between", Range{From: "2024-01-05", To: "2024-01-31"}), "Receipt Date between 01/05/2024 and 01/31/2024"},
		{line(t, cs, "status", "in", []any{"OPEN", "CLOSED"}), "Status in [Open, Closed]"},
		{line(t, cs, "status", "blank", nil), "Status is blank"},
		{line(t, cs, "store.code", "startsWith", "00"), "Store starts with 00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ChipFor(tt.line).Text)
			chip, err := ChipFromRestriction(cs, tt.line.Restriction())
			require.NoError(t, err)
			assert.Equal(t, tt.want, chip.Text)
		})
	}

	_, err := ChipFromRestriction(cs, QueryRestriction{Field: "missing", Comparator: "equalTo"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestFormatValue(t *testing.T) {
	b := &Column{Name: "active", Type: TypeBoolean}
	assert.Equal(t, "Yes", FormatValue(b, true))
	assert.Equal(t, "No", FormatValue(b, "false"))

	dt := &Column{Name: "createdAt", Type: TypeDateTime}
	assert.Equal(t, "03/04/2024 01:30 PM", FormatValue(dt, time.Date(2024, 3, 4, 13, 30, 0, 0, time.UTC)))

	d := &Column{Name: "price", Type: TypeDecimal}
	assert.Equal(t, "12.5", FormatValue(d, "12.50"))
}

func TestNormalizeSort(t *testing.T) {
	cs := testColumns()
	assert.Equal(t, Sort{Field: "id", Direction: Asc}, NormalizeSort(Sort{Field: "status"}, cs))
	assert.Equal(t, Sort{Field: "status", Direction: Desc}, NormalizeSort(Sort{Field: "status", Direction: Desc}, cs))
	assert.Equal(t, Desc, ParseDirection("desc"))
	assert.Equal(t, Direction(""), ParseDirection("sideways"))
}

func TestLineEditorInit(t *testing.T) {
	e := NewLineEditor(testColumns(), nil)

	e.Init(LineState{Column: "comments", Comparator: "equalTo", Value: "x"})
	assert.Nil(t, e.Line().Column, "non-searchable column is stale")
	assert.Nil(t, e.Line().Comparator)

	e.Init(LineState{Column: "status", Comparator: "startsWith", Value: "OPEN", Removable: true})
	assert.Equal(t, "status", e.Line().Column.Name)
	assert.Equal(t, EqualTo, e.Line().Comparator, "stale comparator falls back to the default")
	assert.Equal(t, "OPEN", e.Line().Value)
	assert.Equal(t, InputDropdown, e.InputType())

	e.Init(LineState{Column: "receiptDate", Comparator: "between", Value: map[string]any{"from": "2024-01-01", "to": "2024-01-02"}})
	assert.Equal(t, Range{From: "2024-01-01", To: "2024-01-02"}, e.Line().Value)

	e.Init(LineState{Column: "store.code", Comparator: "equalTo", Value: "7", Removable: true})
	assert.False(t, e.Line().Removable, "required lines are never removable")
	assert.True(t, e.ColumnLocked())
	assert.ErrorIs(t, e.SelectColumn("id"), ErrLocked)
	assert.ErrorIs(t, e.SelectComparator("contains"), ErrLocked)
	e.SetValue("")
	assert.False(t, e.Valid())
}

func TestLineEditorSelect(t *testing.T) {
	e := NewLineEditor(testColumns(), nil)
	assert.ErrorIs(t, e.SelectComparator("equalTo"), ErrUnknownColumn)
	assert.ErrorIs(t, e.SelectColumn("comments"), ErrUnknownColumn)

	require.NoError(t, e.SelectColumn("receiptDate"))
	assert.Equal(t, EqualTo, e.Line().Comparator)
	e.SetValue("2024-01-01")

	require.NoError(t, e.SelectComparator("greaterThan"))
	assert.Equal(t, "2024-01-01", e.Line().Value, "scalar survives scalar to scalar")

	require.NoError(t, e.SelectComparator("between"))
	assert.Nil(t, e.Line().Value, "scalar to range clears")
	assert.Equal(t, InputDateRange, e.InputType())

	e.SetValue([]any{"2024-01-01", "2024-01-31"})
	require.NoError(t, e.SelectComparator("notBetween"))
	assert.Equal(t, Range{From: "2024-01-01", To: "2024-01-31"}, e.Line().Value)

	require.NoError(t, e.SelectComparator("blank"))
	assert.Nil(t, e.Line().Value)

	assert.ErrorIs(t, e.SelectComparator("in"), ErrInvalidComparator)

	require.NoError(t, e.SelectColumn("status"))
	assert.Nil(t, e.Line().Value)
	assert.Equal(t, InputDropdown, e.InputType())
	require.NoError(t, e.SelectComparator("in"))
	assert.Equal(t, InputMultiDropdown, e.InputType())
}

func TestSelectComparatorCarriesScalarAndListValues(t *testing.T) {
	e := NewLineEditor(testColumns(), nil)
	require.NoError(t, e.SelectColumn("status"))
	e.SetValue("OPEN")

	require.NoError(t, e.SelectComparator("in"))
	assert.Equal(t, []any{"OPEN"}, e.Line().Value, "scalar to list wraps")

	require.NoError(t, e.SelectComparator("notIn"))
	assert.Equal(t, []any{"OPEN"}, e.Line().Value)

	require.NoError(t, e.SelectComparator("notEqualTo"))
	assert.Equal(t, "OPEN", e.Line().Value, "one item list to scalar unwraps")

	require.NoError(t, e.SelectComparator("in"))
	e.SetValue([]any{"OPEN", "CLOSED"})
	require.NoError(t, e.SelectComparator("equalTo"))
	assert.Nil(t, e.Line().Value, "several items cannot become one value")

	e.SetValue("CLOSED")
	require.NoError(t, e.SelectComparator("blank"))
	assert.Nil(t, e.Line().Value)
}

func TestInputType(t *testing.T) {
	tests := []struct {
		col  *Column
		cmp  string
		want InputType
	}{
		{&Column{Name: "a", Type: TypeInteger, Searchable: &Searchable{}}, "equalTo", InputNumber},
		{&Column{Name: "a", Type: TypeDecimal, Searchable: &Searchable{}}, "between", InputNumber},
		{&Column{Name: "a", Type: TypeDate, Searchable: &Searchable{}}, "lessThan", InputDate},
		{&Column{Name: "a", Type: TypeDateTime, Searchable: &Searchable{}}, "between", InputDateTimeRange},
		{&Column{Name: "a", Type: TypeDateTime, Searchable: &Searchable{}}, "greaterThan", InputDateTime},
		{&Column{Name: "a", Type: TypeString, Searchable: &Searchable{}}, "contains", InputText},
		{&Column{Name: "a", Type: TypeBoolean, Searchable: &Searchable{}}, "equalTo", InputBoolean},
		{&Column{Name: "a", Type: TypeBoolean, Searchable: &Searchable{}}, "true", InputNone},
		{&Column{Name: "a", Type: "currency", Searchable: &Searchable{}}, "equalTo", InputText},
	}
	for _, tt := range tests {
		t.Run(string(tt.col.Type)+"/"+tt.cmp, func(t *testing.T) {
			e := NewLineEditor(Columns{tt.col}, nil)
			e.Init(LineState{Column: "a", Comparator: tt.cmp})
			assert.Equal(t, tt.want, e.InputType())
		})
	}
}

func TestFilter(t *testing.T) {
	f, err := NewFilter(testColumns(), nil)
	require.NoError(t, err)
	require.Equal(t, 2, f.Len())
	assert.Equal(t, "store.code", f.Editor(0).Line().Column.Name)

	assert.False(t, f.CanRemove(0), "required line")
	assert.True(t, f.CanRemove(1))
	assert.False(t, f.CanAdd(0), "not the last line")
	assert.True(t, f.CanAdd(1))

	e := f.Add()
	assert.False(t, f.CanAdd(2), "column not chosen yet")
	require.NoError(t, e.SelectColumn("id"))
	assert.True(t, f.CanAdd(2))

	assert.ErrorIs(t, f.Remove(0), ErrNotRemovable)
	require.NoError(t, f.Remove(1))
	assert.Equal(t, "id", f.Editor(1).Line().Column.Name)

	require.NoError(t, f.Clear())
	require.Equal(t, 1, f.Len())
	assert.Equal(t, "0042", f.Editor(0).Line().Value)

	require.NoError(t, f.Reset())
	assert.Equal(t, 2, f.Len())
	assert.True(t, f.Valid())
}

func TestFilterLoadAppendsMissingRequiredLines(t *testing.T) {
	f, err := NewFilter(testColumns(), nil)
	require.NoError(t, err)
	require.NoError(t, f.Load([]LineState{
		{Column: "id", Comparator: "equalTo", Value: 4, Removable: true},
		{Column: "gone", Comparator: "equalTo", Value: 1, Removable: true},
	}))
	require.Equal(t, 3, f.Len())
	assert.Equal(t, "id", f.Editor(0).Line().Column.Name)
	assert.Nil(t, f.Editor(1).Line().Column)
	assert.Equal(t, "store.code", f.Editor(2).Line().Column.Name)
	assert.False(t, f.Editor(2).Line().Removable)
}

func TestFilterLoadRecomputesStaleRequiredComparator(t *testing.T) {
	tests := []struct {
		name  string
		state LineState
		want  any
	}{
		{"value still fits", LineState{Column: "store.code", Comparator: "retiredComparator", Value: "7"}, "7"},
		{"range no longer fits", LineState{Column: "store.code", Comparator: "between", Value: map[string]any{"from": "1", "to": "2"}}, "0042"},
		{"no value", LineState{Column: "store.code", Comparator: "retiredComparator"}, "0042"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(testColumns(), nil)
			require.NoError(t, err)
			require.NoError(t, f.Load([]LineState{tt.state}))

			require.Equal(t, 1, f.Len())
			l := f.Editor(0).Line()
			assert.Equal(t, EqualTo, l.Comparator)
			assert.Equal(t, tt.want, l.Value)
			assert.False(t, l.Removable)
			assert.True(t, f.Valid())
		})
	}
}

func TestComparatorsFor(t *testing.T) {
	c := &Column{Name: "a", Type: TypeString, Comparators: []string{"equalTo", "bogus", "in"}}
	assert.Equal(t, []*Comparator{EqualTo, In}, ComparatorsFor(c))
	assert.Equal(t, comparatorsByType[TypeString], ComparatorsFor(&Column{Name: "b", Type: "unknown"}))
	assert.Nil(t, ComparatorsFor(nil))

	_, ok := ComparatorByKey("nope")
	assert.False(t, ok)
	assert.False(t, errors.Is(ErrInvalidColumn, ErrUnknownColumn))
}

package form

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promotionGroup(ctx context.Context) *Group {
	g := NewGroup().
		Add("promotionPrice", NewField(nil)).
		Add("promotionLaborAmount", NewField(nil)).
		Add("promotionStartDate", NewField(nil)).
		Add("promotionEndDate", NewField(nil))
	RequireTogether(ctx, g, "promotionPrice", "promotionLaborAmount", "promotionStartDate", "promotionEndDate")
	return g
}

func TestRequireTogether(t *testing.T) {
	ctx := context.Background()
	g := promotionGroup(ctx)
	require.True(t, g.Valid())

	g.Field("promotionPrice").Edit(9.99)
	assert.False(t, g.Valid())
	assert.False(t, g.Field("promotionPrice").HasError(KeyRequired))
	for _, n := range []string{"promotionLaborAmount", "promotionStartDate", "promotionEndDate"} {
		assert.True(t, g.Field(n).HasError(KeyRequired), n)
	}

	g.Field("promotionPrice").Edit(nil)
	assert.True(t, g.Valid())
	for _, n := range g.Names() {
		assert.False(t, g.Field(n).Required(), n)
	}
}

func TestClearOnCleared(t *testing.T) {
	ctx := context.Background()
	g := NewGroup().
		Add("product", NewField("P1")).
		Add("quantityReceived", NewField(3.0)).
		Add("uom", NewField(map[string]any{"code": "EACH"}))
	ClearOnCleared(ctx, g, "product", "quantityReceived", "uom")

	g.Field("product").Edit("P2")
	assert.Equal(t, 3.0, g.Field("quantityReceived").Value())

	g.Field("product").Edit(nil)
	assert.Nil(t, g.Field("quantityReceived").Value())
	assert.Nil(t, g.Field("uom").Value())
}

func TestDefaultWhenSet(t *testing.T) {
	ctx := context.Background()
	g := NewGroup().
		Add("charge", NewField(nil)).
		Add("taxable", NewField(nil))
	DefaultWhenSet(ctx, g, "charge", "taxable", true)

	g.Field("charge").Edit("DISPOSAL")
	assert.Equal(t, true, g.Field("taxable").Value())

	// Already set: a new empty->set transition must not overwrite it.
	g.Field("taxable").Edit(false)
	g.Field("charge").Edit(nil)
	g.Field("charge").Edit("TIRE")
	assert.Equal(t, false, g.Field("taxable").Value())

	// set->set is not a transition.
	g.Field("taxable").Edit(nil)
	g.Field("charge").Edit("OTHER")
	assert.Nil(t, g.Field("taxable").Value())
}

func TestEnableWhen(t *testing.T) {
	ctx := context.Background()
	g := NewGroup().
		Add("priceOverridable", NewField(false)).
		Add("minimumPrice", NewField(nil)).
		Add("maximumPrice", NewField(nil))
	EnableWhen(ctx, g, "priceOverridable", "minimumPrice", "maximumPrice")

	assert.False(t, g.Field("minimumPrice").Enabled())
	g.Field("priceOverridable").Edit(true)
	assert.True(t, g.Field("minimumPrice").Enabled())
	assert.True(t, g.Field("maximumPrice").Enabled())
	g.Field("priceOverridable").Edit(false)
	assert.False(t, g.Field("maximumPrice").Enabled())
	_, ok := g.Value().(map[string]any)["maximumPrice"]
	assert.False(t, ok, "disabled controls are left out of Value")
	_, ok = g.RawValue().(map[string]any)["maximumPrice"]
	assert.True(t, ok)
}

func TestQuantityValidators(t *testing.T) {
	tests := []struct {
		name string
		uom  string
		qty  any
		want string
	}{
		{"each integer", "EACH", 2.0, ""},
		{"each fraction", "EACH", 1.1, KeyInvalidInteger},
		{"each negative", "EACH", -1.0, KeyMin},
		{"quart fraction", "QUART", 1.1, ""},
		{"quart negative", "QUART", -0.5, KeyMin},
		{"quart string", "QUART", "abc", KeyInvalidDecimal},
		{"empty", "EACH", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			g := NewGroup().
				Add("uom", NewField(map[string]any{"code": tt.uom})).
				Add("quantityReceived", NewField(tt.qty))
			UomQuantity(ctx, g, "uom", []string{"quantityReceived"})
			q := g.Field("quantityReceived")
			if tt.want == "" {
				assert.True(t, q.Valid(), "errors: %v", q.Errors())
				return
			}
			assert.True(t, q.HasError(tt.want), "errors: %v", q.Errors())
		})
	}
}

func TestUomQuantityFollowsUomChanges(t *testing.T) {
	ctx := context.Background()
	g := NewGroup().
		Add("uom", NewField(map[string]any{"code": "QUART"})).
		Add("quantityReceived", NewField(1.1))
	UomQuantity(ctx, g, "uom", []string{"quantityReceived"}, Required)
	require.True(t, g.Valid())

	g.Field("uom").Edit(map[string]any{"code": "EACH"})
	assert.True(t, g.Field("quantityReceived").HasError(KeyInvalidInteger))

	g.Field("quantityReceived").Edit(nil)
	assert.True(t, g.Field("quantityReceived").HasError(KeyRequired))
}

func TestRequireWithAndDateAfter(t *testing.T) {
	ctx := context.Background()
	g := NewGroup().
		Add("invoiceNumber", NewField(nil)).
		Add("invoiceDate", NewField(nil)).
		Add("start", NewField("2024-03-01")).
		Add("end", NewField("2024-02-01"))
	RequireWith(ctx, g, "invoiceNumber", "invoiceDate")
	ValidateDateAfter(ctx, g, "start", "end")

	assert.True(t, g.Field("invoiceDate").Valid())
	g.Field("invoiceNumber").Edit("INV-1")
	assert.True(t, g.Field("invoiceDate").HasError(KeyRequiredRelated))

	assert.True(t, g.Field("end").HasError(KeyDateAfter))
	g.Field("start").Edit(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, g.Field("end").Valid())
}

func TestImmutableAfterCreate(t *testing.T) {
	build := func(mode AccessMode) *Group {
		g := NewGroup().Add("store", NewField(nil)).Add("comments", NewField(nil))
		ImmutableAfterCreate(g, mode, "store")
		ApplyAccessMode(g, mode)
		return g
	}

	add := build(AccessAdd)
	assert.True(t, add.Field("store").Enabled())
	assert.True(t, add.Field("store").HasError(KeyRequired))

	edit := build(AccessEdit)
	assert.False(t, edit.Field("store").Enabled())
	assert.True(t, edit.Field("comments").Enabled())
	assert.True(t, edit.Valid())

	view := build(AccessView)
	assert.False(t, view.Field("comments").Enabled())
}

func TestDestroyStopsRules(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := NewGroup().
		Add("charge", NewField("X")).
		Add("amount", NewField(5.0))
	ClearOnCleared(ctx, g, "charge", "amount")
	require.Equal(t, 1, g.Field("charge").Listeners())

	cancel()
	g.Field("charge").Edit(nil)
	assert.Equal(t, 5.0, g.Field("amount").Value(), "cancelled rule must not fire")
	assert.Eventually(t, func() bool { return g.Field("charge").Listeners() == 0 }, time.Second, time.Millisecond)
}

func TestDirtyTracking(t *testing.T) {
	g := NewGroup().Add("a", NewField(1)).Add("b", NewGroup().Add("code", NewField("X")))
	assert.False(t, g.Dirty())
	g.Field("a").SetValue(2)
	assert.False(t, g.Dirty(), "programmatic changes keep the form pristine")
	g.Field("b.code").Edit("Y")
	assert.True(t, g.Get("b").Dirty())
	g.MarkPristine()
	assert.False(t, g.Dirty())
}

func TestReport(t *testing.T) {
	line := NewGroup().Add("qty", NewField(-1.0, Min(0)))
	g := NewGroup().
		Add("name", NewField(nil, Required)).
		Add("lines", NewArray([]Control{line}, MinItems(1)))

	report := Report(g)
	require.Len(t, report, 2)
	assert.Equal(t, "name", report[0].Path)
	assert.Equal(t, "lines.0.qty", report[1].Path)
	assert.Equal(t, KeyMin, FirstError(report[1].Errors))

	g.Field("name").Disable()
	assert.Equal(t, []string{"name"}, DisabledPaths(g))
}

func TestFirstError(t *testing.T) {
	assert.Equal(t, "", FirstError(nil))
	assert.Equal(t, KeyRequired, FirstError(Errors{KeyMin: 1, KeyRequired: true}))
	assert.Equal(t, "a", FirstError(Errors{"b": 1, "a": 2}))
}

func TestIsEmpty(t *testing.T) {
	var nilPtr *float64
	zero := 0.0
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty(nilPtr))
	assert.True(t, IsEmpty([]any{}))
	assert.True(t, IsEmpty(time.Time{}))
	assert.False(t, IsEmpty(&zero))
	assert.False(t, IsEmpty(false))
	assert.False(t, IsEmpty(0))
}

type testUom struct {
	Code string `json:"code"`
}

func (u *testUom) CodeValue() string { return u.Code }

func TestEditJSONKeepsFieldType(t *testing.T) {
	f := NewField((*testUom)(nil))
	var seen any
	f.Watch(t.Context(), func(_, next any) { seen = next })

	require.NoError(t, f.EditJSON(map[string]any{"code": "EACH"}))
	assert.Equal(t, &testUom{Code: "EACH"}, seen)
	assert.True(t, f.Dirty())

	require.NoError(t, f.EditJSON(nil))
	assert.Nil(t, f.RawValue())
	require.NoError(t, f.EditJSON(map[string]any{"code": "QUART"}))
	assert.Equal(t, "QUART", CodeOf(f.RawValue()))

	date := NewField((*time.Time)(nil))
	require.NoError(t, date.EditJSON("2024-03-01"))
	got, ok := ToTime(date.RawValue())
	require.True(t, ok)
	assert.Equal(t, 2024, got.Year())

	qty := NewField((*float64)(nil))
	assert.Error(t, qty.EditJSON("many"))
}

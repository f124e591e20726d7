package validation

import (
	"errors"
	"testing"

	"github.com/baseplate/storeops/internal/core/form"
)

func testSchema() map[string]any {
	return NewSchema("Thing", map[string]*SchemaProperty{
		"name":  {Type: PropertyTypeString, MaxLength: Ptr(5)},
		"price": {Type: Nullable(PropertyTypeNumber), Minimum: Ptr(0.0)},
		"store": Object(map[string]*SchemaProperty{"code": {Type: PropertyTypeString}}, "code"),
	}, []string{"name"})
}

func TestValidate(t *testing.T) {
	v := NewValidator()
	v.MustRegister("Thing", testSchema())

	if err := v.Validate("Thing", map[string]any{"name": "ok", "price": nil, "store": nil}); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	err := v.Validate("Thing", map[string]any{"price": -1, "store": map[string]any{}})
	ve := GetValidationErrors(err)
	if ve == nil {
		t.Fatalf("Validate() error = %v, want *ValidationErrors", err)
	}
	if len(ve.Errors) != 3 {
		t.Errorf("got %d errors (%v), want 3", len(ve.Errors), ve)
	}
}

func TestValidateUnknownSchema(t *testing.T) {
	err := NewValidator().Validate("Nope", map[string]any{})
	if !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("Validate() error = %v, want ErrUnknownSchema", err)
	}
	if IsValidationError(err) {
		t.Error("an unknown schema is not a validation error")
	}
}

func TestRegisterRejectsBrokenSchema(t *testing.T) {
	err := NewValidator().Register("Broken", map[string]any{"type": 12})
	if err == nil {
		t.Error("expected a compile error")
	}
}

func TestFromForm(t *testing.T) {
	g := form.NewGroup().
		Add("invoiceNumber", form.NewField("12345678901", form.MaxLength(10))).
		Add("qty", form.NewField(1.5, form.Integer, form.Min(0))).
		Add("ok", form.NewField("x", form.Required))

	err := FromForm(g)
	ve := GetValidationErrors(err)
	if ve == nil {
		t.Fatalf("FromForm() = %v, want *ValidationErrors", err)
	}
	want := []ValidationError{
		{Field: "invoiceNumber", Message: "must be at most 10 characters"},
		{Field: "qty", Message: "must be a whole number"},
	}
	if len(ve.Errors) != len(want) {
		t.Fatalf("FromForm() = %v, want %v", ve.Errors, want)
	}
	for i := range want {
		if ve.Errors[i] != want[i] {
			t.Errorf("error %d = %v, want %v", i, ve.Errors[i], want[i])
		}
	}

	g.Field("invoiceNumber").SetValue("1")
	g.Field("qty").SetValue(2)
	if err := FromForm(g); err != nil {
		t.Errorf("FromForm() on a valid form = %v", err)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		key    string
		detail any
		want   string
	}{
		{form.KeyRequired, true, "is required"},
		{form.KeyRequiredRelated, "invoiceNumber", "is required when invoiceNumber is set"},
		{form.KeyInvalidDecimal, map[string]any{"maxFractionDigits": 2}, "must be a number with at most 2 decimal place(s)"},
		{form.KeyDateAfter, "promotionStartDate", "must be after promotionStartDate"},
		{"custom", nil, "custom"},
	}
	for _, tt := range tests {
		if got := Message(tt.key, tt.detail); got != tt.want {
			t.Errorf("Message(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

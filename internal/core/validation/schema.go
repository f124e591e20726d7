package validation

// JSON Schema property types
type PropertyType string

const (
	PropertyTypeString  PropertyType = "string"
	PropertyTypeNumber  PropertyType = "number"
	PropertyTypeInteger PropertyType = "integer"
	PropertyTypeBoolean PropertyType = "boolean"
	PropertyTypeArray   PropertyType = "array"
	PropertyTypeObject  PropertyType = "object"
	PropertyTypeNull    PropertyType = "null"
)

// Schema builder helpers. Type is a PropertyType or a []PropertyType.
type SchemaProperty struct {
	Type       any                        `json:"type,omitempty"`
	Format     string                     `json:"format,omitempty"`
	Enum       []any                      `json:"enum,omitempty"`
	MaxLength  *int                       `json:"maxLength,omitempty"`
	Minimum    *float64                   `json:"minimum,omitempty"`
	Items      *SchemaProperty            `json:"items,omitempty"`
	Properties map[string]*SchemaProperty `json:"properties,omitempty"`
	Required   []string                   `json:"required,omitempty"`
}

// Nullable accepts t or JSON null.
func Nullable(t PropertyType) []PropertyType {
	return []PropertyType{t, PropertyTypeNull}
}

func Ptr[T any](v T) *T { return &v }

// Object describes a nullable object with the given properties.
func Object(properties map[string]*SchemaProperty, required ...string) *SchemaProperty {
	return &SchemaProperty{Type: Nullable(PropertyTypeObject), Properties: properties, Required: required}
}

// NewSchema builds a top-level object schema.
func NewSchema(title string, properties map[string]*SchemaProperty, required []string) map[string]any {
	props := make(map[string]any, len(properties))
	for k, v := range properties {
		props[k] = v
	}

	schema := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"title":      title,
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

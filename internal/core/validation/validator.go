package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/baseplate/storeops/internal/core/form"
)

var ErrUnknownSchema = errors.New("unknown schema")

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

// Validator checks payload shapes against named, compiled JSON schemas.
type Validator struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{schemas: map[string]*gojsonschema.Schema{}}
}

// Register compiles schema under name.
func (v *Validator) Register(name string, schema map[string]any) error {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.schemas[name] = compiled
	return nil
}

// MustRegister panics when schema does not compile; schemas are declared in
// code.
func (v *Validator) MustRegister(name string, schema map[string]any) {
	if err := v.Register(name, schema); err != nil {
		panic(err)
	}
}

// Validate checks data against the named schema. Violations come back as
// *ValidationErrors.
func (v *Validator) Validate(name string, data any) error {
	v.mu.RLock()
	schema, ok := v.schemas[name]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(dataJSON))
	if err != nil {
		return err
	}

	if !result.Valid() {
		var validationErrors []ValidationError
		for _, desc := range result.Errors() {
			validationErrors = append(validationErrors, ValidationError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return &ValidationErrors{Errors: validationErrors}
	}

	return nil
}

// FromForm converts the errors of an evaluated form into ValidationErrors,
// one entry per control with the most relevant message. It returns nil for
// a valid form.
func FromForm(c form.Control) error {
	if c.Valid() {
		return nil
	}
	var out []ValidationError
	for _, fe := range form.Report(c) {
		key := form.FirstError(fe.Errors)
		field := fe.Path
		if field == "" {
			field = "(root)"
		}
		out = append(out, ValidationError{Field: field, Message: Message(key, fe.Errors[key])})
	}
	if len(out) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: out}
}

// Message renders an error key and its details for people.
func Message(key string, detail any) string {
	d, _ := detail.(map[string]any)
	switch key {
	case form.KeyRequired:
		return "is required"
	case form.KeyRequiredRelated:
		return fmt.Sprintf("is required when %v is set", detail)
	case form.KeyMaxLength:
		return fmt.Sprintf("must be at most %v characters", d["requiredLength"])
	case form.KeyMinLength:
		return fmt.Sprintf("must have at least %v item(s)", d["requiredLength"])
	case form.KeyMin:
		return fmt.Sprintf("must be at least %v", d["min"])
	case form.KeyMax:
		return fmt.Sprintf("must be at most %v", d["max"])
	case form.KeyInvalidInteger:
		return "must be a whole number"
	case form.KeyInvalidDecimal:
		return fmt.Sprintf("must be a number with at most %v decimal place(s)", d["maxFractionDigits"])
	case form.KeyDateAfter:
		return fmt.Sprintf("must be after %v", detail)
	case form.KeyNumberGreaterThan:
		return fmt.Sprintf("must be greater than %v", detail)
	}
	return key
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *ValidationErrors {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

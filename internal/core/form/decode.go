package form

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// Decode copies a form value (Group.RawValue output) or a JSON-shaped map
// into out, a pointer to a model struct. Field names follow json tags.
func Decode(input any, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(stringToTime, stringToUUID),
	})
	if err != nil {
		return err
	}
	if err := d.Decode(input); err != nil {
		return fmt.Errorf("decode form value: %w", err)
	}
	return nil
}

func stringToTime(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	t, ok := ToTime(s)
	if !ok {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func stringToUUID(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != uuidType {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

// coerce converts a JSON-shaped value v to type t. v is returned as is when
// t is unknown or v is nil.
func coerce(t reflect.Type, v any) (any, error) {
	if t == nil || v == nil || reflect.TypeOf(v) == t {
		return v, nil
	}
	out := reflect.New(t)
	if err := Decode(v, out.Interface()); err != nil {
		return nil, err
	}
	return out.Elem().Interface(), nil
}

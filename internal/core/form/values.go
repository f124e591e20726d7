package form

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// IsEmpty reports nil, typed nil pointers, empty strings and empty
// collections. Zero numbers and false are values.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case time.Time:
		return t.IsZero()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// Coded is implemented by reference values that carry a code (unit of
// measure, charge, store ...).
type Coded interface {
	CodeValue() string
}

// CodeOf extracts the code of a reference value held by a field. Maps coming
// from JSON payloads are accepted too.
func CodeOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case Coded:
		if rv := reflect.ValueOf(t); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ""
		}
		return t.CodeValue()
	case map[string]any:
		if s, ok := t["code"].(string); ok {
			return s
		}
	case string:
		return t
	}
	return ""
}

func deref(v any) any {
	for v != nil {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
	return v
}

// numberText renders v as a plain decimal string, reporting false when v is
// not numeric.
func numberText(v any) (string, bool) {
	switch t := deref(v).(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return numberText(string(t))
	case string:
		s := strings.TrimSpace(t)
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return "", false
		}
		return s, true
	}
	return "", false
}

// ToNumber converts numeric values (including numeric strings) to float64.
func ToNumber(v any) (float64, bool) {
	s, ok := numberText(v)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func fractionDigits(s string) int {
	s = strings.TrimLeft(s, "+-")
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		// Exponent notation never comes from user input; treat as precise.
		return 0
	}
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(strings.TrimRight(s[i+1:], "0"))
}

// DateLayouts are accepted when a date arrives as a string.
var DateLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateTime, time.DateOnly, "01/02/2006"}

// ToTime converts time values and date strings.
func ToTime(v any) (time.Time, bool) {
	switch t := deref(v).(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		for _, layout := range DateLayouts {
			if ts, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

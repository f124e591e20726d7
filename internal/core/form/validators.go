package form

import "unicode/utf8"

// Error keys set by the validators in this package.
const (
	KeyRequired          = "required"
	KeyRequiredRelated   = "requiredRelated"
	KeyMaxLength         = "maxlength"
	KeyMinLength         = "minlength"
	KeyMin               = "min"
	KeyMax               = "max"
	KeyInvalidInteger    = "invalidInteger"
	KeyInvalidDecimal    = "invalidDecimal"
	KeyDateAfter         = "dateAfter"
	KeyNumberGreaterThan = "numberGreaterThan"
)

// Required fails on empty values.
func Required(c Control) Errors {
	if IsEmpty(c.RawValue()) {
		return Errors{KeyRequired: true}
	}
	return nil
}

// MaxLength limits the rune count of string values.
func MaxLength(n int) Validator {
	return func(c Control) Errors {
		s, ok := deref(c.RawValue()).(string)
		if !ok {
			return nil
		}
		if l := utf8.RuneCountInString(s); l > n {
			return Errors{KeyMaxLength: map[string]any{"requiredLength": n, "actualLength": l}}
		}
		return nil
	}
}

// MinItems applies to arrays.
func MinItems(n int) Validator {
	return func(c Control) Errors {
		a, ok := c.(*Array)
		if !ok {
			return nil
		}
		if a.Len() < n {
			return Errors{KeyMinLength: map[string]any{"requiredLength": n, "actualLength": a.Len()}}
		}
		return nil
	}
}

// Min fails when a numeric value is below n. Non-numeric values are left to
// Integer/Decimal.
func Min(n float64) Validator {
	return func(c Control) Errors {
		v, ok := ToNumber(c.RawValue())
		if !ok || v >= n {
			return nil
		}
		return Errors{KeyMin: map[string]any{"min": n, "actual": v}}
	}
}

func Max(n float64) Validator {
	return func(c Control) Errors {
		v, ok := ToNumber(c.RawValue())
		if !ok || v <= n {
			return nil
		}
		return Errors{KeyMax: map[string]any{"max": n, "actual": v}}
	}
}

// Integer accepts whole numbers only.
func Integer(c Control) Errors {
	v := c.RawValue()
	if IsEmpty(v) {
		return nil
	}
	s, ok := numberText(v)
	if !ok || fractionDigits(s) > 0 {
		return Errors{KeyInvalidInteger: true}
	}
	return nil
}

// Decimal accepts numbers with at most places fraction digits.
func Decimal(places int) Validator {
	return func(c Control) Errors {
		v := c.RawValue()
		if IsEmpty(v) {
			return nil
		}
		s, ok := numberText(v)
		if !ok || fractionDigits(s) > places {
			return Errors{KeyInvalidDecimal: map[string]any{"maxFractionDigits": places}}
		}
		return nil
	}
}

// RequiredRelated makes the control required while sibling source is set.
func RequiredRelated(source string) Validator {
	return func(c Control) Errors {
		s := sibling(c, source)
		if s == nil || IsEmpty(s.RawValue()) || !IsEmpty(c.RawValue()) {
			return nil
		}
		return Errors{KeyRequiredRelated: source}
	}
}

// DateAfter requires the control's date to be strictly after sibling start.
// Either side being empty is not an error.
func DateAfter(start string) Validator {
	return func(c Control) Errors {
		s := sibling(c, start)
		if s == nil {
			return nil
		}
		from, ok := ToTime(s.RawValue())
		if !ok {
			return nil
		}
		to, ok := ToTime(c.RawValue())
		if !ok || to.After(from) {
			return nil
		}
		return Errors{KeyDateAfter: start}
	}
}

// NumberGreaterThan requires the control's number to exceed sibling lower.
func NumberGreaterThan(lower string) Validator {
	return func(c Control) Errors {
		s := sibling(c, lower)
		if s == nil {
			return nil
		}
		lo, ok := ToNumber(s.RawValue())
		if !ok {
			return nil
		}
		v, ok := ToNumber(c.RawValue())
		if !ok || v > lo {
			return nil
		}
		return Errors{KeyNumberGreaterThan: lower}
	}
}

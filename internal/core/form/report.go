package form

import "strconv"

// FieldError is one control's error set, addressed by dotted path.
type FieldError struct {
	Path   string `json:"path"`
	Errors Errors `json:"errors"`
}

// Report walks the tree and collects the errors of enabled controls in form
// order. The root's own errors use an empty path.
func Report(c Control) []FieldError {
	var out []FieldError
	walk(c, "", func(path string, c Control) {
		if !c.Enabled() {
			return
		}
		if errs := c.Errors(); len(errs) > 0 {
			out = append(out, FieldError{Path: path, Errors: errs})
		}
	})
	return out
}

// DisabledPaths lists disabled fields.
func DisabledPaths(c Control) []string {
	var out []string
	walk(c, "", func(path string, c Control) {
		if _, ok := c.(*Field); ok && !c.Enabled() {
			out = append(out, path)
		}
	})
	return out
}

func walk(c Control, path string, visit func(string, Control)) {
	visit(path, c)
	join := func(seg string) string {
		if path == "" {
			return seg
		}
		return path + "." + seg
	}
	switch t := c.(type) {
	case *Group:
		for _, n := range t.names {
			walk(t.controls[n], join(n), visit)
		}
	case *Array:
		for i, item := range t.items {
			walk(item, join(strconv.Itoa(i)), visit)
		}
	}
}

// keyPriority orders error keys from most to least relevant to a user.
var keyPriority = []string{
	KeyRequired,
	KeyRequiredRelated,
	KeyInvalidInteger,
	KeyInvalidDecimal,
	KeyMin,
	KeyMax,
	KeyMaxLength,
	KeyMinLength,
	KeyDateAfter,
	KeyNumberGreaterThan,
}

// FirstError returns the most relevant key of errs, or "" when valid.
func FirstError(errs Errors) string {
	for _, k := range keyPriority {
		if _, ok := errs[k]; ok {
			return k
		}
	}
	// Unknown keys: any is fine, but keep it deterministic.
	first := ""
	for k := range errs {
		if first == "" || k < first {
			first = k
		}
	}
	return first
}

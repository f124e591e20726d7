package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/baseplate/storeops/internal/core/form"
	"github.com/baseplate/storeops/internal/core/search"
)

// ErrInvalidQuery marks restrictions or sorts the metadata does not allow.
var ErrInvalidQuery = errors.New("invalid search query")

const (
	DefaultPageSize = 25
	MaxPageSize     = 200
)

// where accumulates clauses and positional arguments.
type where struct {
	clauses []string
	args    []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) String() string {
	return strings.Join(w.clauses, " AND ")
}

func castFor(t search.ValueType) string {
	switch t {
	case search.TypeInteger, search.TypeDecimal:
		return "numeric"
	case search.TypeDate:
		return "date"
	case search.TypeDateTime:
		return "timestamptz"
	case search.TypeBoolean:
		return "boolean"
	}
	return ""
}

func pathOf(field string) any {
	return pq.Array(strings.Split(field, "."))
}

// restriction appends the clause of one restriction.
func (w *where) restriction(columns search.Columns, r search.QueryRestriction) error {
	c := columns.ByField(r.Field)
	if c == nil || !c.IsSearchable() {
		return fmt.Errorf("%w: field %q is not searchable", ErrInvalidQuery, r.Field)
	}
	cmp, ok := c.Allows(r.Comparator)
	if !ok {
		return fmt.Errorf("%w: %s does not allow %q", ErrInvalidQuery, r.Field, r.Comparator)
	}
	want := 0
	switch {
	case cmp.Range:
		want = 2
	case cmp.Multiple:
		if len(r.Values) == 0 {
			return fmt.Errorf("%w: %s %s needs values", ErrInvalidQuery, r.Field, r.Comparator)
		}
		want = len(r.Values)
	case cmp.RequiresData:
		want = 1
	}
	if len(r.Values) != want {
		return fmt.Errorf("%w: %s %s takes %d value(s), got %d", ErrInvalidQuery, r.Field, r.Comparator, want, len(r.Values))
	}

	typ := castFor(c.Type)
	values := make([]string, len(r.Values))
	for i, v := range r.Values {
		s, err := sqlValue(c.Type, v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidQuery, r.Field, err)
		}
		values[i] = s
	}

	text := fmt.Sprintf("(data #>> %s)", w.arg(pathOf(r.Field)))
	expr := text
	if typ != "" {
		expr = text + "::" + typ
	}
	param := func(s string) string {
		p := w.arg(s)
		if typ != "" {
			p += "::" + typ
		}
		return p
	}
	list := func() string {
		elem := typ
		if elem == "" {
			elem = "text"
		}
		return w.arg(pq.Array(values)) + "::" + elem + "[]"
	}
	like := func(prefix, suffix string) string {
		return w.arg(prefix + escapeLike(values[0]) + suffix)
	}

	var clause string
	switch cmp.Key {
	case search.EqualTo.Key:
		clause = fmt.Sprintf("%s = %s", expr, param(values[0]))
	case search.NotEqualTo.Key:
		clause = fmt.Sprintf("%s IS DISTINCT FROM %s", expr, param(values[0]))
	case search.StartsWith.Key:
		clause = fmt.Sprintf("%s ILIKE %s", text, like("", "%"))
	case search.EndsWith.Key:
		clause = fmt.Sprintf("%s ILIKE %s", text, like("%", ""))
	case search.Contains.Key:
		clause = fmt.Sprintf("%s ILIKE %s", text, like("%", "%"))
	case search.NotContains.Key:
		clause = fmt.Sprintf("(%s IS NULL OR %s NOT ILIKE %s)", text, text, like("%", "%"))
	case search.GreaterThan.Key:
		clause = fmt.Sprintf("%s > %s", expr, param(values[0]))
	case search.GreaterThanOrEqualTo.Key:
		clause = fmt.Sprintf("%s >= %s", expr, param(values[0]))
	case search.LessThan.Key:
		clause = fmt.Sprintf("%s < %s", expr, param(values[0]))
	case search.LessThanOrEqualTo.Key:
		clause = fmt.Sprintf("%s <= %s", expr, param(values[0]))
	case search.Between.Key:
		clause = fmt.Sprintf("%s BETWEEN %s AND %s", expr, param(values[0]), param(values[1]))
	case search.NotBetween.Key:
		clause = fmt.Sprintf("%s NOT BETWEEN %s AND %s", expr, param(values[0]), param(values[1]))
	case search.In.Key:
		clause = fmt.Sprintf("%s = ANY(%s)", expr, list())
	case search.NotIn.Key:
		clause = fmt.Sprintf("(%s IS NULL OR %s <> ALL(%s))", text, expr, list())
	case search.Blank.Key:
		clause = fmt.Sprintf("COALESCE(%s, '') = ''", text)
	case search.NotBlank.Key:
		clause = fmt.Sprintf("COALESCE(%s, '') <> ''", text)
	case search.True.Key:
		clause = fmt.Sprintf("%s::boolean IS TRUE", text)
	case search.False.Key:
		clause = fmt.Sprintf("%s::boolean IS FALSE", text)
	default:
		return fmt.Errorf("%w: unsupported comparator %q", ErrInvalidQuery, cmp.Key)
	}
	w.clauses = append(w.clauses, clause)
	return nil
}

// sqlValue renders v as the text Postgres casts to the column type.
func sqlValue(t search.ValueType, v any) (string, error) {
	switch t {
	case search.TypeInteger, search.TypeDecimal:
		n, ok := form.ToNumber(v)
		if !ok {
			return "", fmt.Errorf("%v is not a number", v)
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	case search.TypeDate:
		ts, ok := form.ToTime(v)
		if !ok {
			return "", fmt.Errorf("%v is not a date", v)
		}
		return ts.Format(time.DateOnly), nil
	case search.TypeDateTime:
		ts, ok := form.ToTime(v)
		if !ok {
			return "", fmt.Errorf("%v is not a date", v)
		}
		return ts.Format(time.RFC3339), nil
	case search.TypeBoolean:
		switch b := v.(type) {
		case bool:
			return strconv.FormatBool(b), nil
		case string:
			p, err := strconv.ParseBool(b)
			if err != nil {
				return "", fmt.Errorf("%v is not a boolean", v)
			}
			return strconv.FormatBool(p), nil
		}
		return "", fmt.Errorf("%v is not a boolean", v)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	}
	if code := form.CodeOf(v); code != "" {
		return code, nil
	}
	return fmt.Sprint(v), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderBy renders ORDER BY for a sort on a column field. Unknown fields
// sort by creation time.
func (w *where) orderBy(columns search.Columns, s search.Sort) (string, error) {
	dir := "ASC"
	switch search.ParseDirection(string(s.Direction)) {
	case search.Desc:
		dir = "DESC"
	case search.Asc:
	default:
		if s.Direction != "" {
			return "", fmt.Errorf("%w: sort direction %q", ErrInvalidQuery, s.Direction)
		}
	}
	if s.Field == "" {
		return "created_at DESC, id", nil
	}
	c := columns.ByField(s.Field)
	if c == nil {
		return "", fmt.Errorf("%w: cannot sort by %q", ErrInvalidQuery, s.Field)
	}
	expr := fmt.Sprintf("(data #>> %s)", w.arg(pathOf(s.Field)))
	if typ := castFor(c.Type); typ != "" {
		expr += "::" + typ
	}
	return fmt.Sprintf("%s %s NULLS LAST, id", expr, dir), nil
}

// pageBounds clamps a page to LIMIT/OFFSET.
func pageBounds(p search.Page) (limit, offset int) {
	limit = p.Size
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	return limit, max(p.Number, 0) * limit
}

package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Where maps attribute names to the value, or slice of values, they must
// match.
type Where map[string]any

// Encoder converts a local attribute value to its wire form before it is
// placed in a filter.
type Encoder func(attribute string, value any) (any, error)

// Identity is the Encoder used when none is given.
func Identity(_ string, value any) (any, error) { return value, nil }

// Keys returns the attribute names in sorted order.
func (w Where) Keys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Compile turns where into a filter. Attributes are ANDed in sorted order
// and the values of a slice are ORed. An empty mapping compiles to MatchAny.
// Errors returned by encode are passed through.
func Compile(where Where, encode Encoder) (Filter, error) {
	if len(where) == 0 {
		return MatchAny, nil
	}
	if encode == nil {
		encode = Identity
	}

	clauses := make([]Filter, 0, len(where))
	for _, attr := range where.Keys() {
		clause, err := compileAttribute(attr, where[attr], encode)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}

	return And(clauses...), nil
}

// WithRequired ANDs the record type's required filter onto f. A MatchAny
// requirement leaves f as is.
func WithRequired(f, required Filter) Filter {
	if required == nil || IsMatchAny(required) {
		return f
	}
	if f == nil {
		return required
	}
	return And(f, required)
}

func compileAttribute(attr string, value any, encode Encoder) (Filter, error) {
	values, multi := asSlice(value)
	if !multi {
		return equalityFor(attr, stripBrackets(value), encode)
	}

	alternatives := make([]Filter, 0, len(values))
	for _, v := range values {
		f, err := equalityFor(attr, v, encode)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, f)
	}
	if len(alternatives) == 0 {
		return Eq(attr, ""), nil
	}
	return Or(alternatives...), nil
}

func equalityFor(attr string, value any, encode Encoder) (Filter, error) {
	encoded, err := encode(attr, value)
	if err != nil {
		return nil, err
	}

	// codecs mapping one local value to several wire values
	if values, ok := encoded.([]string); ok {
		alternatives := make([]Filter, 0, len(values))
		for _, v := range values {
			alternatives = append(alternatives, Eq(attr, v))
		}
		if len(alternatives) == 0 {
			return Eq(attr, ""), nil
		}
		return Or(alternatives...), nil
	}

	return Eq(attr, ValueString(encoded)), nil
}

// stripBrackets removes a leading "[" and a trailing "]" from string values.
func stripBrackets(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return s
}

func asSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, true
	case []int64:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}

// ValueString renders a value for use in a filter or an attribute write.
func ValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case interface{ DN() string }:
		return val.DN()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Package filter builds directory search filters. Filters are small trees
// rendered to RFC 4515 strings for the remote directory and evaluated in
// memory against raw entries by test doubles.
package filter

import (
	"errors"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/goliatone/go-directory-cache/directory"
)

// Filter is a boolean predicate over directory entries.
type Filter interface {
	// String renders the filter in RFC 4515 form with values escaped.
	String() string
	// Match evaluates the filter against an entry. Attribute names and
	// values compare case-insensitively.
	Match(entry *directory.Entry) bool
}

// MatchAny is the filter used when nothing narrows a search: it matches any
// entry carrying a common name.
var MatchAny Filter = Present("cn")

// IsMatchAny reports whether f is the match-any sentinel.
func IsMatchAny(f Filter) bool {
	p, ok := f.(presence)
	return ok && strings.EqualFold(p.attribute, "cn")
}

type equality struct {
	attribute string
	value     string
}

// Eq matches entries whose attribute holds value.
func Eq(attribute, value string) Filter {
	return equality{attribute: attribute, value: value}
}

func (f equality) String() string {
	return "(" + f.attribute + "=" + ldap.EscapeFilter(f.value) + ")"
}

func (f equality) Match(entry *directory.Entry) bool {
	values, _ := entry.Values(f.attribute)
	for _, v := range values {
		if strings.EqualFold(v, f.value) {
			return true
		}
	}
	return false
}

type presence struct {
	attribute string
}

// Present matches entries carrying attribute with at least one value.
func Present(attribute string) Filter {
	return presence{attribute: attribute}
}

func (f presence) String() string {
	return "(" + f.attribute + "=*)"
}

func (f presence) Match(entry *directory.Entry) bool {
	values, _ := entry.Values(f.attribute)
	return len(values) > 0
}

type conjunction struct {
	filters []Filter
}

// And matches entries matched by every filter. A single filter is returned
// unchanged.
func And(filters ...Filter) Filter {
	filters = compact(filters)
	if len(filters) == 1 {
		return filters[0]
	}
	return conjunction{filters: filters}
}

func (f conjunction) String() string {
	return group("&", f.filters)
}

func (f conjunction) Match(entry *directory.Entry) bool {
	for _, c := range f.filters {
		if !c.Match(entry) {
			return false
		}
	}
	return true
}

type disjunction struct {
	filters []Filter
}

// Or matches entries matched by at least one filter. A single filter is
// returned unchanged.
func Or(filters ...Filter) Filter {
	filters = compact(filters)
	if len(filters) == 1 {
		return filters[0]
	}
	return disjunction{filters: filters}
}

func (f disjunction) String() string {
	return group("|", f.filters)
}

func (f disjunction) Match(entry *directory.Entry) bool {
	for _, c := range f.filters {
		if c.Match(entry) {
			return true
		}
	}
	return false
}

type negation struct {
	filter Filter
}

// Not inverts f.
func Not(f Filter) Filter {
	return negation{filter: f}
}

func (f negation) String() string {
	return "(!" + f.filter.String() + ")"
}

func (f negation) Match(entry *directory.Entry) bool {
	return !f.filter.Match(entry)
}

func group(op string, filters []Filter) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(op)
	for _, f := range filters {
		b.WriteString(f.String())
	}
	b.WriteString(")")
	return b.String()
}

func compact(filters []Filter) []Filter {
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

var errNilFilter = errors.New("filter: nil filter")

// Validate checks that the rendered filter is accepted by the LDAP filter
// parser.
func Validate(f Filter) error {
	if f == nil {
		return errNilFilter
	}
	_, err := ldap.CompileFilter(f.String())
	return err
}

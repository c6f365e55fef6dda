package directorycache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-directory-cache/filter"
)

// Specifier selects between the first match and every match.
type Specifier int

const (
	First Specifier = iota
	All
)

func (s Specifier) String() string {
	switch s {
	case First:
		return "first"
	case All:
		return "all"
	default:
		return fmt.Sprintf("specifier(%d)", int(s))
	}
}

var errQueryConsumed = errors.New("query already called")

// Query is a chainable search builder. Invalid arguments are recorded as
// they are passed and reported by Call. A Query is consumed by Call and
// cannot be run twice.
type Query struct {
	repo       *Repository
	specifier  Specifier
	base       string
	where      filter.Where
	attributes []string
	only       bool
	errs       []error
	called     bool
}

func newQuery(repo *Repository) *Query {
	return &Query{
		repo:      repo,
		specifier: First,
		base:      repo.manager.settings.Base,
	}
}

// Where sets the attribute values to match. A nil mapping matches any
// entry.
func (q *Query) Where(where filter.Where) *Query {
	q.where = where
	return q
}

// Includes requests attributes on top of the type's default and configured
// ones.
func (q *Query) Includes(attributes ...string) *Query {
	if err := validateAttributes("includes", attributes); err != nil {
		q.errs = append(q.errs, err)
		return q
	}
	q.attributes = mergeAttributes(q.attributes, attributes)
	return q
}

// Only requests exactly the given attributes.
func (q *Query) Only(attributes ...string) *Query {
	if len(attributes) == 0 {
		q.errs = append(q.errs, errors.New("only: needs 1 or more attributes"))
		return q
	}
	if err := validateAttributes("only", attributes); err != nil {
		q.errs = append(q.errs, err)
		return q
	}
	q.attributes = append([]string(nil), attributes...)
	q.only = true
	return q
}

// In sets the search root.
func (q *Query) In(base string) *Query {
	err := validation.Validate(strings.TrimSpace(base), validation.Required)
	if err != nil {
		q.errs = append(q.errs, fmt.Errorf("in: base %w", err))
		return q
	}
	q.base = base
	return q
}

// For sets the specifier.
func (q *Query) For(spec Specifier) *Query {
	if err := validation.Validate(spec, validation.In(First, All)); err != nil {
		q.errs = append(q.errs, fmt.Errorf("for: %s %w", spec, err))
		return q
	}
	q.specifier = spec
	return q
}

// First is shorthand for For(First).
func (q *Query) First() *Query { return q.For(First) }

// All is shorthand for For(All).
func (q *Query) All() *Query { return q.For(All) }

// Err returns the builder misuse recorded so far.
func (q *Query) Err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return validationError("invalid query", q.errs...)
}

// Call runs the query. First returns at most one record.
func (q *Query) Call(ctx context.Context) ([]*Record, error) {
	if q.called {
		return nil, validationError("invalid query", errQueryConsumed)
	}
	q.called = true

	if err := q.Err(); err != nil {
		return nil, err
	}

	f := &finder{
		repo:       q.repo,
		base:       q.base,
		where:      q.where,
		attributes: q.attributes,
		only:       q.only,
	}
	return f.perform(ctx, q.specifier)
}

// String describes the query without running it.
func (q *Query) String() string {
	return fmt.Sprintf("%s [%s] filters: %d attributes: %d (%s)",
		q.repo.typ.Name, q.specifier, len(q.where), len(q.attributes), q.base)
}

func validateAttributes(op string, attributes []string) error {
	for i, a := range attributes {
		if err := validation.Validate(strings.TrimSpace(a), validation.Required); err != nil {
			return fmt.Errorf("%s: attribute %d %w", op, i, err)
		}
	}
	return nil
}

package directorycache

import (
	"github.com/goliatone/go-directory-cache/codec"
	"github.com/goliatone/go-directory-cache/filter"
)

// Type describes a kind of directory record: how to find it, what to fetch
// and what to add when creating one.
type Type struct {
	// Name identifies the type in the codec table and in resolver lookups.
	Name string
	// Tag is the key of the type in the attributes configuration.
	Tag string
	// Filter is ANDed onto every search for the type. MatchAny leaves
	// searches unconstrained.
	Filter filter.Filter
	// RequiredAttributes are merged into the attributes of created entries.
	RequiredAttributes map[string][]string
	// DefaultAttributes are always requested. An empty list, with nothing
	// configured or requested, fetches every attribute.
	DefaultAttributes []string
	// Abstract types match entries of any kind. Their records are never
	// cached.
	Abstract bool
}

var (
	// BaseType matches any entry.
	BaseType = Type{
		Name:     codec.TypeBase,
		Tag:      "base",
		Filter:   filter.MatchAny,
		Abstract: true,
	}

	// UserType matches user accounts, excluding computer accounts.
	UserType = Type{
		Name: codec.TypeUser,
		Tag:  "user",
		Filter: filter.And(
			filter.Eq("objectClass", "user"),
			filter.Not(filter.Eq("objectClass", "computer")),
		),
		RequiredAttributes: map[string][]string{
			"objectClass": {"top", "organizationalPerson", "person", "user"},
		},
		DefaultAttributes: []string{
			"userAccountControl",
			"lockoutTime",
			"directReports",
			"manager",
			"samaccountname",
			"mail",
			"givenname",
			"sn",
			"displayname",
		},
	}

	// GroupType matches groups.
	GroupType = Type{
		Name:   codec.TypeGroup,
		Tag:    "group",
		Filter: filter.Eq("objectClass", "group"),
		RequiredAttributes: map[string][]string{
			"objectClass": {"top", "group"},
		},
	}

	// ComputerType matches computer accounts.
	ComputerType = Type{
		Name:   codec.TypeComputer,
		Tag:    "computer",
		Filter: filter.Eq("objectClass", "computer"),
		RequiredAttributes: map[string][]string{
			"objectClass": {"top", "person", "organizationalPerson", "user", "computer"},
		},
		DefaultAttributes: []string{"dNSHostName", "name"},
	}
)

// DefaultTypes returns the predefined record types in registration order.
func DefaultTypes() []Type {
	return []Type{BaseType, UserType, GroupType, ComputerType}
}

func (t Type) requiredFilter() filter.Filter {
	if t.Filter == nil {
		return filter.MatchAny
	}
	return t.Filter
}

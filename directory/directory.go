// Package directory defines the protocol collaborator the directory cache
// talks to. The cache, codec and filter layers never speak LDAP directly;
// they go through the Directory interface, which the go-ldap adapter returned
// by di.NewLDAPDirectory implements.
package directory

import (
	"context"
	"errors"
	"sort"
	"strings"
)

//go:generate mockgen -destination=../internal/mocks/mock_directory.go -package=mocks github.com/goliatone/go-directory-cache/directory Directory

// Directory is the remote procedure surface of the directory service.
type Directory interface {
	// Search returns the entries under base matching filter. Zero matches is
	// an empty result, not an error. An empty attribute list requests all
	// attributes.
	Search(ctx context.Context, base, filter string, attributes []string) ([]*Entry, error)
	// Add creates a new entry.
	Add(ctx context.Context, dn string, attributes map[string][]string) error
	// Modify applies the given operations to an existing entry.
	Modify(ctx context.Context, dn string, mods []Modification) error
	// Delete removes an entry.
	Delete(ctx context.Context, dn string) error
	// IsConnected reports whether the directory is reachable, connecting
	// lazily on the first call.
	IsConnected(ctx context.Context) bool
}

// ErrInvalidCredentials is returned by an Authenticator when the directory
// rejects the credentials or the filter does not match exactly one entry.
var ErrInvalidCredentials = errors.New("directory: invalid credentials")

// Authenticator is implemented by directories able to verify credentials by
// binding as the entry matching filter.
type Authenticator interface {
	Authenticate(ctx context.Context, filter, password string) (*Entry, error)
}

// OpKind is the kind of a modify operation.
type OpKind int

const (
	OpAdd OpKind = iota
	OpReplace
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpReplace:
		return "replace"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Modification is a single (op, attribute, values) triple of a modify request.
type Modification struct {
	Op        OpKind
	Attribute string
	Values    []string
}

// Entry is a raw directory entry as returned by Search. Attribute values are
// kept in wire form; binary values are stored as their raw bytes.
type Entry struct {
	DN         string
	Attributes map[string][]string
}

// NewEntry returns an entry with the given DN and attributes. Attribute names
// keep their original case; lookups are case-insensitive.
func NewEntry(dn string, attributes map[string][]string) *Entry {
	if attributes == nil {
		attributes = map[string][]string{}
	}
	return &Entry{DN: dn, Attributes: attributes}
}

// Values returns the values of the named attribute and whether the entry
// carries it at all.
func (e *Entry) Values(name string) ([]string, bool) {
	if e == nil {
		return nil, false
	}
	if v, ok := e.Attributes[name]; ok {
		return v, true
	}
	for k, v := range e.Attributes {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	if strings.EqualFold(name, "distinguishedName") && e.DN != "" {
		return []string{e.DN}, true
	}
	return nil, false
}

// Value returns the first value of the named attribute, or "".
func (e *Entry) Value(name string) string {
	v, _ := e.Values(name)
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Has reports whether the entry carries the named attribute.
func (e *Entry) Has(name string) bool {
	_, ok := e.Values(name)
	return ok
}

// AttributeNames returns the lowercased attribute names, sorted.
func (e *Entry) AttributeNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		names = append(names, strings.ToLower(k))
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	attrs := make(map[string][]string, len(e.Attributes))
	for k, v := range e.Attributes {
		attrs[k] = append([]string(nil), v...)
	}
	return &Entry{DN: e.DN, Attributes: attrs}
}

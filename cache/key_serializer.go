package cache

import (
	"strings"

	"github.com/goliatone/go-directory-cache/dn"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// defaultKeySerializer keys entries by their normalized distinguished name,
// so "CN=Jane,DC=Example" and "cn=jane, dc=example" share one entry.
type defaultKeySerializer struct {
	prefix string
}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// NewPrefixedKeySerializer namespaces keys, for stores shared between
// record types.
func NewPrefixedKeySerializer(prefix string) KeySerializer {
	return &defaultKeySerializer{prefix: strings.ToLower(prefix)}
}

// SerializeKey builds the cache key for an identifier.
func (s *defaultKeySerializer) SerializeKey(identifier string) string {
	key := dn.Normalize(identifier)
	if s.prefix == "" {
		return key
	}
	return s.prefix + KeySeparator + key
}

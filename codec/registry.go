package codec

import (
	"context"
	"strings"
	"sync"
)

// Registry dispatches encode and decode calls to the codec registered for a
// (record type, attribute) pair. Lookups are case-insensitive on the
// attribute name; a miss passes the value through unchanged.
type Registry struct {
	mu     sync.RWMutex
	fields Fields
	codecs map[Tag]Codec
}

// NewRegistry builds a registry over fields. The resolver backs the
// distinguished name array codecs and may be nil when no such attribute is
// ever decoded.
func NewRegistry(fields Fields, resolver Resolver) *Registry {
	if fields == nil {
		fields = Fields{}
	}
	return &Registry{
		fields: fields.Clone(),
		codecs: map[Tag]Codec{
			Binary:        BinaryCodec{},
			Date:          DateCodec{},
			Timestamp:     TimestampCodec{},
			Password:      PasswordCodec{},
			DnArray:       NewDnArrayCodec(DnArray, resolver, TypeBase),
			UserDnArray:   NewDnArrayCodec(UserDnArray, resolver, TypeUser),
			GroupDnArray:  NewDnArrayCodec(GroupDnArray, resolver, TypeGroup),
			MemberDnArray: NewDnArrayCodec(MemberDnArray, resolver, TypeUser, TypeGroup),
		},
	}
}

// Register assigns tag to the attribute of the given record type.
func (r *Registry) Register(typeName, attribute string, tag Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fields[typeName] == nil {
		r.fields[typeName] = map[string]Tag{}
	}
	r.fields[typeName][strings.ToLower(attribute)] = tag
}

// Lookup returns the tag registered for the attribute, if any.
func (r *Registry) Lookup(typeName, attribute string) (Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tag, ok := r.fields[typeName][strings.ToLower(attribute)]
	return tag, ok
}

// Codec returns the implementation behind tag.
func (r *Registry) Codec(tag Tag) (Codec, bool) {
	c, ok := r.codecs[tag]
	return c, ok
}

// Attributes returns the attribute names with a codec for the record type.
func (r *Registry) Attributes(typeName string) map[string]Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Tag, len(r.fields[typeName]))
	for attr, tag := range r.fields[typeName] {
		out[attr] = tag
	}
	return out
}

// Encode converts a local value to its wire form.
func (r *Registry) Encode(ctx context.Context, typeName, attribute string, local any) (any, error) {
	c, ok := r.lookupCodec(typeName, attribute)
	if !ok {
		return local, nil
	}
	return c.Encode(ctx, local)
}

// Decode converts a wire value to its local form.
func (r *Registry) Decode(ctx context.Context, typeName, attribute string, wire any) (any, error) {
	c, ok := r.lookupCodec(typeName, attribute)
	if !ok {
		return wire, nil
	}
	return c.Decode(ctx, wire)
}

// Encoder returns a function encoding attributes of one record type, in the
// shape expected by the filter compiler.
func (r *Registry) Encoder(ctx context.Context, typeName string) func(attribute string, value any) (any, error) {
	return func(attribute string, value any) (any, error) {
		return r.Encode(ctx, typeName, attribute, value)
	}
}

func (r *Registry) lookupCodec(typeName, attribute string) (Codec, bool) {
	tag, ok := r.Lookup(typeName, attribute)
	if !ok {
		return nil, false
	}
	return r.Codec(tag)
}

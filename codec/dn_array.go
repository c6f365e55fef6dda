package codec

import (
	"context"
	"errors"
	"reflect"
)

var errNoResolver = errors.New("no resolver configured")

// DnArrayCodec stores references to other entries as distinguished names and
// resolves them back into records on decode. Resolution goes through the
// configured Resolver on every decode; nothing is resolved ahead of time.
type DnArrayCodec struct {
	tag      Tag
	resolver Resolver
	types    []string
}

// NewDnArrayCodec returns a codec resolving names among the given record
// types.
func NewDnArrayCodec(tag Tag, resolver Resolver, types ...string) *DnArrayCodec {
	return &DnArrayCodec{tag: tag, resolver: resolver, types: types}
}

// Types returns the record types names are resolved against.
func (c *DnArrayCodec) Types() []string {
	return append([]string(nil), c.types...)
}

// Encode maps records (or names) to a slice of distinguished names.
func (c *DnArrayCodec) Encode(_ context.Context, local any) (any, error) {
	switch v := local.(type) {
	case nil:
		return []string{}, nil
	case string:
		return []string{v}, nil
	case []string:
		return append([]string(nil), v...), nil
	case Identified:
		return []string{v.DN()}, nil
	case []Identified:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, item.DN())
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch it := item.(type) {
			case string:
				out = append(out, it)
			case Identified:
				out = append(out, it.DN())
			default:
				return nil, unsupported(c.tag, item)
			}
		}
		return out, nil
	default:
		if out, ok := identifiers(local); ok {
			return out, nil
		}
		return nil, unsupported(c.tag, local)
	}
}

// identifiers converts slices of any element type implementing Identified,
// such as record lists, into their distinguished names.
func identifiers(local any) ([]string, bool) {
	rv := reflect.ValueOf(local)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i)
		if (item.Kind() == reflect.Pointer || item.Kind() == reflect.Interface) && item.IsNil() {
			return nil, false
		}
		id, ok := item.Interface().(Identified)
		if !ok {
			return nil, false
		}
		out = append(out, id.DN())
	}
	return out, true
}

// Decode resolves the names into records. Names without a matching entry of
// the expected types are dropped.
func (c *DnArrayCodec) Decode(ctx context.Context, wire any) (any, error) {
	var dns []string
	switch v := wire.(type) {
	case nil:
	case string:
		if v != "" {
			dns = []string{v}
		}
	case []string:
		dns = v
	default:
		return nil, unsupported(c.tag, wire)
	}

	if len(dns) == 0 {
		return []Identified{}, nil
	}
	if c.resolver == nil {
		return nil, codecError(c.tag, dns, errNoResolver)
	}

	records, err := c.resolver.Resolve(ctx, dns, c.types...)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Identified{}
	}
	return records, nil
}

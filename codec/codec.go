// Package codec converts attribute values between their local Go form and
// the form stored by the directory. Codecs are dispatched per record type
// and lowercased attribute name through a Registry; attributes without a
// registered codec pass through unchanged.
package codec

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Tag names a codec.
type Tag string

const (
	Binary        Tag = "binary"
	Date          Tag = "date"
	Timestamp     Tag = "timestamp"
	Password      Tag = "password"
	DnArray       Tag = "dn_array"
	UserDnArray   Tag = "user_dn_array"
	GroupDnArray  Tag = "group_dn_array"
	MemberDnArray Tag = "member_dn_array"
)

// Record type names used by the default field table and by resolvers.
const (
	TypeBase     = "Base"
	TypeUser     = "User"
	TypeGroup    = "Group"
	TypeComputer = "Computer"
)

// Codec is an encode/decode pair for one wire representation.
type Codec interface {
	// Encode converts a local value into its wire form.
	Encode(ctx context.Context, local any) (any, error)
	// Decode converts a wire value into its local form.
	Decode(ctx context.Context, wire any) (any, error)
}

// Identified is anything that carries a distinguished name.
type Identified interface {
	DN() string
}

// Resolver looks up the records for a set of distinguished names, limited to
// the given record types. Names that do not resolve to an entry of one of
// those types are dropped from the result.
type Resolver interface {
	Resolve(ctx context.Context, dns []string, types ...string) ([]Identified, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, dns []string, types ...string) ([]Identified, error)

func (f ResolverFunc) Resolve(ctx context.Context, dns []string, types ...string) ([]Identified, error) {
	return f(ctx, dns, types...)
}

// TextCodeCodecFailure is attached to every error produced by a codec.
const TextCodeCodecFailure = "CODEC_FAILURE"

// IsCodecFailure reports whether err was produced by a codec rejecting a value.
func IsCodecFailure(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryBadInput)
}

func codecError(tag Tag, value any, source error) error {
	msg := fmt.Sprintf("%s codec: cannot convert value %v", tag, value)
	if source == nil {
		return goerrors.New(msg, goerrors.CategoryBadInput).WithTextCode(TextCodeCodecFailure)
	}
	return goerrors.Wrap(source, goerrors.CategoryBadInput, msg).WithTextCode(TextCodeCodecFailure)
}

func unsupported(tag Tag, value any) error {
	return codecError(tag, fmt.Sprintf("%T(%v)", value, value), nil)
}

// eachString applies fn to a string or to every element of a string slice,
// preserving the shape of the input.
func eachString(tag Tag, v any, fn func(string) (any, error)) (any, error) {
	switch val := v.(type) {
	case string:
		return fn(val)
	case []byte:
		return fn(string(val))
	case []string:
		out := make([]any, 0, len(val))
		for _, s := range val {
			r, err := fn(s)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	default:
		return nil, unsupported(tag, v)
	}
}

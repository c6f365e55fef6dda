package codec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedRecord string

func (n namedRecord) DN() string { return string(n) }

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry(DefaultFields(), nil)

	tests := []struct {
		typeName string
		attr     string
		want     Tag
		found    bool
	}{
		{TypeUser, "objectGUID", Binary, true},
		{TypeUser, "PWDLASTSET", Timestamp, true},
		{TypeUser, "memberOf", MemberDnArray, true},
		{TypeGroup, "memberOf", GroupDnArray, true},
		{TypeGroup, "member", MemberDnArray, true},
		{TypeBase, "memberof", DnArray, true},
		{TypeBase, "pwdlastset", "", false},
		{TypeComputer, "objectguid", "", false},
		{TypeUser, "description", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.typeName+"/"+tt.attr, func(t *testing.T) {
			tag, ok := r.Lookup(tt.typeName, tt.attr)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, tag)
		})
	}
}

func TestRegistry_MissIsIdentity(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(DefaultFields(), nil)

	values := []any{"plain", []string{"a", "b"}, 42, nil}
	for _, v := range values {
		enc, err := r.Encode(ctx, TypeComputer, "objectGUID", v)
		require.NoError(t, err)
		assert.Equal(t, v, enc)

		dec, err := r.Decode(ctx, TypeUser, "displayName", v)
		require.NoError(t, err)
		assert.Equal(t, v, dec)
	}
}

func TestRegistry_Dispatch(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(DefaultFields(), nil)

	dec, err := r.Decode(ctx, TypeUser, "WhenCreated", "20200102030405.0Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), dec)

	enc, err := r.Encode(ctx, TypeUser, "objectguid", "0102")
	require.NoError(t, err)
	assert.Equal(t, "\x01\x02", enc)

	encode := r.Encoder(ctx, TypeUser)
	enc, err = encode("accountExpires", int64(0))
	require.NoError(t, err)
	assert.Equal(t, "116444736000000000", enc)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(nil, nil)
	_, ok := r.Lookup(TypeComputer, "lastLogonTimestamp")
	require.False(t, ok)

	r.Register(TypeComputer, "lastLogonTimestamp", Timestamp)
	tag, ok := r.Lookup(TypeComputer, "lastlogontimestamp")
	require.True(t, ok)
	assert.Equal(t, Timestamp, tag)
	assert.Equal(t, map[string]Tag{"lastlogontimestamp": Timestamp}, r.Attributes(TypeComputer))
}

func TestRegistry_DoesNotShareFields(t *testing.T) {
	fields := DefaultFields()
	r := NewRegistry(fields, nil)
	r.Register(TypeUser, "extra", Binary)

	_, ok := fields[TypeUser]["extra"]
	assert.False(t, ok)
}

func TestFields_Merge(t *testing.T) {
	merged := DefaultFields().Merge(Fields{
		TypeComputer: {"WhenCreated": Date},
		TypeUser:     {"memberOf": DnArray},
	})

	assert.Equal(t, Date, merged[TypeComputer]["whencreated"])
	assert.Equal(t, DnArray, merged[TypeUser]["memberof"])
	assert.Equal(t, MemberDnArray, DefaultFields()[TypeUser]["memberof"])
}

func TestRegistry_DnArrayUsesResolver(t *testing.T) {
	ctx := context.Background()
	var gotTypes []string
	resolver := ResolverFunc(func(_ context.Context, dns []string, types ...string) ([]Identified, error) {
		gotTypes = types
		out := []Identified{}
		for _, dn := range dns {
			if dn != "cn=gone" {
				out = append(out, namedRecord(dn))
			}
		}
		return out, nil
	})
	r := NewRegistry(DefaultFields(), resolver)

	dec, err := r.Decode(ctx, TypeGroup, "member", []string{"cn=a", "cn=gone", "cn=b"})
	require.NoError(t, err)
	assert.Equal(t, []Identified{namedRecord("cn=a"), namedRecord("cn=b")}, dec)
	assert.Equal(t, []string{TypeUser, TypeGroup}, gotTypes)

	_, err = r.Decode(ctx, TypeBase, "memberOf", "cn=a")
	require.NoError(t, err)
	assert.Equal(t, []string{TypeBase}, gotTypes)
}

package codec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := BinaryCodec{}

	for _, h := range []string{"", "00", "ff", "0a1b2c3d", "d5b5c4a1e07f6f4a8b0c1d2e3f405162"} {
		t.Run(h, func(t *testing.T) {
			raw, err := c.Encode(ctx, h)
			require.NoError(t, err)
			assert.Len(t, raw.(string), len(h)/2)

			back, err := c.Decode(ctx, raw)
			require.NoError(t, err)
			assert.Equal(t, h, back)
		})
	}
}

func TestBinaryCodec_InvalidHex(t *testing.T) {
	_, err := BinaryCodec{}.Encode(context.Background(), "zz")
	require.Error(t, err)
	assert.True(t, IsCodecFailure(err))
}

func TestBinaryCodec_DecodeSlice(t *testing.T) {
	out, err := BinaryCodec{}.Decode(context.Background(), []string{"\x01", "\xab"})
	require.NoError(t, err)
	assert.Equal(t, []any{"01", "ab"}, out)
}

func TestDateCodec(t *testing.T) {
	ctx := context.Background()
	c := DateCodec{}
	at := time.Date(2023, 7, 14, 9, 30, 5, 0, time.UTC)

	wire, err := c.Encode(ctx, at)
	require.NoError(t, err)
	assert.Equal(t, "20230714093005.0Z", wire)

	local, err := c.Decode(ctx, wire)
	require.NoError(t, err)
	assert.True(t, at.Equal(local.(time.Time)))

	t.Run("non utc input is rendered in utc", func(t *testing.T) {
		zone := time.FixedZone("plus2", 2*60*60)
		wire, err := c.Encode(ctx, time.Date(2023, 7, 14, 11, 30, 5, 0, zone))
		require.NoError(t, err)
		assert.Equal(t, "20230714093005.0Z", wire)
	})

	t.Run("fraction and zone marker optional", func(t *testing.T) {
		for _, s := range []string{"20230714093005Z", "20230714093005", "20230714093005.123Z"} {
			got, err := ParseDate(s)
			require.NoError(t, err, s)
			assert.True(t, at.Equal(got), s)
		}
	})

	t.Run("garbage is a codec failure", func(t *testing.T) {
		_, err := c.Decode(ctx, "yesterday")
		require.Error(t, err)
		assert.True(t, IsCodecFailure(err))
	})
}

func TestTimestampCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := TimestampCodec{}

	for _, ts := range []int64{0, 1, 1700000000, -TimestampOffset, 253402300799} {
		wire, err := c.Encode(ctx, ts)
		require.NoError(t, err)

		local, err := c.Decode(ctx, wire)
		require.NoError(t, err)
		assert.Equal(t, ts, local.(time.Time).Unix())
	}
}

func TestTimestampCodec_Values(t *testing.T) {
	ctx := context.Background()
	c := TimestampCodec{}

	wire, err := c.Encode(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "116444736000000000", wire)

	// sub-second ticks are truncated
	local, err := c.Decode(ctx, "116444736019999999")
	require.NoError(t, err)
	assert.Equal(t, int64(1), local.(time.Time).Unix())

	local, err = c.Decode(ctx, int64(116444736000000000))
	require.NoError(t, err)
	assert.Equal(t, int64(0), local.(time.Time).Unix())

	_, err = c.Decode(ctx, "never")
	assert.True(t, IsCodecFailure(err))

	_, err = c.Encode(ctx, 3.5)
	assert.True(t, IsCodecFailure(err))
}

func TestTimestampCodec_EncodeString(t *testing.T) {
	ctx := context.Background()
	c := TimestampCodec{}

	tests := []struct {
		input string
		want  string
	}{
		{"0", "116444736000000000"},
		{" 1700000000 ", "133444736000000000"},
		{"-11644473600", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			wire, err := c.Encode(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wire)
		})
	}

	_, err := c.Encode(ctx, "yesterday")
	assert.True(t, IsCodecFailure(err))
}

func TestPasswordCodec(t *testing.T) {
	ctx := context.Background()
	c := PasswordCodec{}

	wire, err := c.Encode(ctx, "pw")
	require.NoError(t, err)
	assert.Equal(t, "\"\x00p\x00w\x00\"\x00", wire)

	local, err := c.Decode(ctx, wire)
	require.NoError(t, err)
	assert.Nil(t, local)
}

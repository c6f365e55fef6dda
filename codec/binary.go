package codec

import (
	"context"
	"encoding/hex"
)

// BinaryCodec stores binary attributes (GUIDs, SIDs) as raw bytes on the
// wire and as lowercase hex strings locally.
type BinaryCodec struct{}

// Encode turns a hex string into raw bytes, returned as a string.
func (BinaryCodec) Encode(_ context.Context, local any) (any, error) {
	return eachString(Binary, local, func(s string) (any, error) {
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, codecError(Binary, s, err)
		}
		return string(raw), nil
	})
}

// Decode turns raw bytes into a lowercase hex string.
func (BinaryCodec) Decode(_ context.Context, wire any) (any, error) {
	return eachString(Binary, wire, func(s string) (any, error) {
		return hex.EncodeToString([]byte(s)), nil
	})
}

package codec

import (
	"context"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// PasswordCodec produces the quoted UTF-16LE literal the directory expects
// in unicodePwd. Passwords cannot be decoded.
type PasswordCodec struct{}

// Encode quotes the plaintext and encodes it as UTF-16LE.
func (PasswordCodec) Encode(_ context.Context, local any) (any, error) {
	var plain string
	switch v := local.(type) {
	case string:
		plain = v
	case []byte:
		plain = string(v)
	default:
		return nil, unsupported(Password, local)
	}
	return EncodePassword(plain)
}

// Decode always returns nil.
func (PasswordCodec) Decode(context.Context, any) (any, error) {
	return nil, nil
}

// EncodePassword returns the wire form of plain.
func EncodePassword(plain string) (string, error) {
	out, err := utf16le.NewEncoder().String(`"` + plain + `"`)
	if err != nil {
		return "", codecError(Password, "<redacted>", err)
	}
	return out, nil
}

package codec

import (
	"context"
	"strings"
	"time"
)

const generalizedTimeLayout = "20060102150405"

// DateCodec handles generalized time attributes such as whenCreated, stored
// as YYYYMMDDHHMMSS.0Z. Times are always rendered and parsed in UTC.
type DateCodec struct{}

// Encode formats a time.Time. Strings are assumed to be encoded already.
func (DateCodec) Encode(_ context.Context, local any) (any, error) {
	switch v := local.(type) {
	case time.Time:
		return FormatDate(v), nil
	case *time.Time:
		if v == nil {
			return nil, unsupported(Date, local)
		}
		return FormatDate(*v), nil
	case string:
		return v, nil
	default:
		return nil, unsupported(Date, local)
	}
}

// Decode parses the wire string into a time.Time.
func (DateCodec) Decode(_ context.Context, wire any) (any, error) {
	return eachString(Date, wire, func(s string) (any, error) {
		return ParseDate(s)
	})
}

// FormatDate renders t in directory generalized time.
func FormatDate(t time.Time) string {
	return t.UTC().Format(generalizedTimeLayout) + ".0Z"
}

// ParseDate parses a generalized time value. The fraction and the trailing
// Z are optional.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if i := strings.IndexByte(v, '.'); i >= 0 {
		v = v[:i]
	}
	t, err := time.ParseInLocation(generalizedTimeLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, codecError(Date, s, err)
	}
	return t, nil
}

package codec

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const (
	// TimestampDivisor is the number of 100 nanosecond ticks in a second.
	TimestampDivisor int64 = 10_000_000
	// TimestampOffset is the number of seconds between 1601-01-01 and the
	// Unix epoch.
	TimestampOffset int64 = 11_644_473_600
)

// TimestampCodec handles interval attributes such as pwdLastSet, counted in
// 100 nanosecond ticks since 1601-01-01 and stored as a decimal string.
type TimestampCodec struct{}

// Encode accepts a time.Time or a number of Unix seconds, given as an
// integer or a decimal string.
func (TimestampCodec) Encode(_ context.Context, local any) (any, error) {
	var unix int64
	switch v := local.(type) {
	case time.Time:
		unix = v.Unix()
	case *time.Time:
		if v == nil {
			return nil, unsupported(Timestamp, local)
		}
		unix = v.Unix()
	case int:
		unix = int64(v)
	case int64:
		unix = v
	case int32:
		unix = int64(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, codecError(Timestamp, v, err)
		}
		unix = n
	default:
		return nil, unsupported(Timestamp, local)
	}
	return strconv.FormatInt(EncodeTimestamp(unix), 10), nil
}

// Decode accepts the decimal wire string or an integer tick count and
// returns a UTC time.Time.
func (TimestampCodec) Decode(_ context.Context, wire any) (any, error) {
	switch v := wire.(type) {
	case int64:
		return DecodeTimestamp(v), nil
	case int:
		return DecodeTimestamp(int64(v)), nil
	default:
		return eachString(Timestamp, wire, func(s string) (any, error) {
			ticks, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, codecError(Timestamp, s, err)
			}
			return DecodeTimestamp(ticks), nil
		})
	}
}

// EncodeTimestamp converts Unix seconds into ticks.
func EncodeTimestamp(unix int64) int64 {
	return (unix + TimestampOffset) * TimestampDivisor
}

// DecodeTimestamp converts ticks into a UTC time. Sub-second ticks are
// truncated toward zero.
func DecodeTimestamp(ticks int64) time.Time {
	return time.Unix(ticks/TimestampDivisor-TimestampOffset, 0).UTC()
}

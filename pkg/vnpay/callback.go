package vnpay

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

const timestampLayout = "20060102150405"

type Status string

const (
	StatusSucceed Status = "succeed"
	StatusFailed  Status = "failed"
)

// MapStatus maps a provider response code to a bill status.
func MapStatus(code string) Status {
	if code == ResponseSuccess {
		return StatusSucceed
	}
	return StatusFailed
}

// ConvertAmount converts a provider amount in minor units into the target
// currency: minor / (100 * rate).
func ConvertAmount(minor int64, rate float64) (float64, error) {
	if rate <= 0 {
		return 0, ErrInvalidExchRate
	}
	return float64(minor) / (100 * rate), nil
}

// ParseAmount parses a decimal minor-unit amount as sent in vnp_Amount.
func ParseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return n, nil
}

// FormatTimestamp renders t as YYYYMMDDHHmmss in loc.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timestampLayout)
}

// ParseTimestamp parses a YYYYMMDDHHmmss value interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(timestampLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t, nil
}

// NewTxnRef returns a globally unique, time-ordered transaction reference.
func NewTxnRef() string {
	return ksuid.New().String()
}

// ParseCallback splits a raw provider payload into parameters. Pairs are
// separated by '&' or '|'; keys and values are URL-decoded.
func ParseCallback(raw string) (Params, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedPayload)
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '&' || r == '|'
	})

	params := make(Params, len(fields))
	for _, field := range fields {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("%w: pair %q has no value", ErrMalformedPayload, field)
		}
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrMalformedPayload, k, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", ErrMalformedPayload, key, err)
		}
		if !strings.HasPrefix(key, "vnp_") {
			return nil, fmt.Errorf("%w: unexpected key %q", ErrMalformedPayload, key)
		}
		params[key] = value
	}
	return params, nil
}

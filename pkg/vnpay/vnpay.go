// Package vnpay implements the VNPay payment request signing and callback
// verification protocol.
//
// Parameters are signed with HMAC-SHA512 over the key-sorted, unescaped
// query string. The redirect URL carries the same pairs percent-encoded.
// Both directions must share a single Config.
package vnpay

import (
	"errors"
	"math"
	"time"
)

const (
	DefaultVersion   = "2.1.0"
	DefaultCommand   = "pay"
	DefaultCurrCode  = "VND"
	DefaultOrderType = "other"
	DefaultLocale    = "vn"
	DefaultTimezone  = "Asia/Ho_Chi_Minh"

	// ResponseSuccess is the provider code of a successful payment.
	ResponseSuccess = "00"

	// MaxAmount is the largest major-unit amount whose minor-unit form fits int64.
	MaxAmount = math.MaxInt64 / 100
)

var (
	ErrMisconfigured     = errors.New("vnpay: merchant not configured")
	ErrMissingSignature  = errors.New("vnpay: missing secure hash")
	ErrInvalidSignature  = errors.New("vnpay: invalid secure hash")
	ErrMalformedPayload  = errors.New("vnpay: malformed callback payload")
	ErrInvalidAmount     = errors.New("vnpay: invalid amount")
	ErrInvalidTimestamp  = errors.New("vnpay: invalid timestamp")
	ErrInvalidExchRate   = errors.New("vnpay: exchange rate must be positive")
	errMissingParameters = errors.New("vnpay: empty parameter set")
)

// Config is the merchant configuration shared by Signer and Verifier.
// It is loaded once at startup and must not be mutated afterwards.
type Config struct {
	TmnCode    string
	HashSecret string
	PaymentURL string
	ReturnURL  string
	Version    string
	Command    string
	CurrCode   string
	OrderType  string
	Locale     string
	Location   *time.Location
}

// Validate reports whether the fields required to sign are present.
func (c Config) Validate() error {
	if c.TmnCode == "" || c.HashSecret == "" || c.PaymentURL == "" || c.ReturnURL == "" {
		return ErrMisconfigured
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.CurrCode == "" {
		c.CurrCode = DefaultCurrCode
	}
	if c.OrderType == "" {
		c.OrderType = DefaultOrderType
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// LoadLocation resolves name, falling back to a fixed GMT+7 zone when the
// host has no tz database.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("GMT+7", 7*60*60)
	}
	return loc
}

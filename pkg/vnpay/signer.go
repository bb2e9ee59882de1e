package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Sign returns the lowercase hex HMAC-SHA512 of data keyed by secret.
func Sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignParams canonicalizes params and signs the unescaped form.
func SignParams(secret string, params Params) string {
	return Sign(secret, SignData(Canonicalize(params)))
}

// PaymentRequest describes one outbound payment initiation.
type PaymentRequest struct {
	// Amount in major currency units; sent multiplied by 100.
	Amount    int64
	BankCode  string
	Locale    string
	ClientIP  string
	TxnRef    string
	OrderInfo string
	CreatedAt time.Time
}

type Signer struct {
	cfg Config
}

func NewSigner(cfg Config) *Signer {
	return &Signer{cfg: cfg.withDefaults()}
}

// BuildParams assembles the unsigned request parameters.
func (s *Signer) BuildParams(req PaymentRequest) Params {
	locale := req.Locale
	if locale == "" {
		locale = s.cfg.Locale
	}
	orderInfo := req.OrderInfo
	if orderInfo == "" {
		orderInfo = "Thanh toan cho ma GD:" + req.TxnRef
	}

	params := Params{
		ParamVersion:    s.cfg.Version,
		ParamCommand:    s.cfg.Command,
		ParamTmnCode:    s.cfg.TmnCode,
		ParamLocale:     locale,
		ParamCurrCode:   s.cfg.CurrCode,
		ParamTxnRef:     req.TxnRef,
		ParamOrderInfo:  orderInfo,
		ParamOrderType:  s.cfg.OrderType,
		ParamAmount:     strconv.FormatInt(req.Amount*100, 10),
		ParamReturnURL:  s.cfg.ReturnURL,
		ParamIPAddr:     req.ClientIP,
		ParamCreateDate: FormatTimestamp(req.CreatedAt, s.cfg.Location),
	}
	if req.BankCode != "" {
		params[ParamBankCode] = req.BankCode
	}
	return params
}

// PaymentURL signs req and returns the provider redirect URL.
func (s *Signer) PaymentURL(req PaymentRequest) (string, error) {
	if err := s.cfg.Validate(); err != nil {
		return "", err
	}
	if req.Amount <= 0 || req.Amount > MaxAmount {
		return "", fmt.Errorf("%w: %d", ErrInvalidAmount, req.Amount)
	}

	pairs := Canonicalize(s.BuildParams(req))
	signature := Sign(s.cfg.HashSecret, SignData(pairs))
	pairs = append(pairs, Pair{Key: ParamSecureHash, Value: signature})

	return s.cfg.PaymentURL + "?" + EncodeQuery(pairs), nil
}

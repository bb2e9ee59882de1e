package vnpay

import (
	"net/url"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// Provider parameter names.
const (
	ParamVersion           = "vnp_Version"
	ParamCommand           = "vnp_Command"
	ParamTmnCode           = "vnp_TmnCode"
	ParamLocale            = "vnp_Locale"
	ParamCurrCode          = "vnp_CurrCode"
	ParamTxnRef            = "vnp_TxnRef"
	ParamOrderInfo         = "vnp_OrderInfo"
	ParamOrderType         = "vnp_OrderType"
	ParamAmount            = "vnp_Amount"
	ParamReturnURL         = "vnp_ReturnUrl"
	ParamIPAddr            = "vnp_IpAddr"
	ParamCreateDate        = "vnp_CreateDate"
	ParamBankCode          = "vnp_BankCode"
	ParamBankTranNo        = "vnp_BankTranNo"
	ParamCardType          = "vnp_CardType"
	ParamPayDate           = "vnp_PayDate"
	ParamResponseCode      = "vnp_ResponseCode"
	ParamTransactionNo     = "vnp_TransactionNo"
	ParamTransactionStatus = "vnp_TransactionStatus"
	ParamSecureHash        = "vnp_SecureHash"
	ParamSecureHashType    = "vnp_SecureHashType"
)

// Params is a set of provider parameters keyed by name.
type Params map[string]string

type Pair struct {
	Key   string
	Value string
}

// Get returns the value for key, or "" when absent.
func (p Params) Get(key string) string {
	return p[key]
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// FromValues flattens url.Values keeping the first value of each key.
func FromValues(values url.Values) Params {
	out := make(Params, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		out[k] = v[0]
	}
	return out
}

// Canonicalize returns the parameters ordered by key, ascending byte order.
// The signature is only valid over this ordering.
func Canonicalize(params Params) []Pair {
	keys := maps.Keys(params)
	slices.Sort(keys)
	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: params[k]})
	}
	return pairs
}

// SignData serializes canonical pairs into the unescaped form that is signed.
func SignData(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// EncodeQuery serializes canonical pairs as a percent-encoded query string.
// It is the transport encoding and must never be used as sign data.
func EncodeQuery(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

package vnpay

import (
	"crypto/hmac"
	"strings"
)

type Verifier struct {
	cfg Config
}

func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg.withDefaults()}
}

// Verify recomputes the signature over params without the secure hash fields
// and compares it to vnp_SecureHash. A nil error means the callback is authentic.
func (v *Verifier) Verify(params Params) error {
	if v.cfg.HashSecret == "" {
		return ErrMisconfigured
	}

	data := params.Clone()
	received := data[ParamSecureHash]
	delete(data, ParamSecureHash)
	delete(data, ParamSecureHashType)

	if received == "" {
		return ErrMissingSignature
	}
	if len(data) == 0 {
		return errMissingParameters
	}

	expected := SignParams(v.cfg.HashSecret, data)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(received))) {
		return ErrInvalidSignature
	}
	return nil
}

// Package signature checks the HMAC the gateway attaches to a completed
// checkout.
package signature

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	ErrSecretNotConfigured = errors.New("payment gateway secret not configured")
	ErrMissingField        = errors.New("missing required payment verification fields")
	ErrSignatureMismatch   = errors.New("invalid payment signature")
)

// Sign returns hex(HMAC-SHA256(secret, orderID|paymentID)).
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify returns nil only when signature matches the pair. Empty inputs fail
// closed with ErrMissingField.
func (v *Verifier) Verify(_ context.Context, orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrMissingField
	}
	if v.secret == "" {
		return ErrSecretNotConfigured
	}

	expected := Sign(v.secret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

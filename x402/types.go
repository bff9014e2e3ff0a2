// Package x402 implements the client side of the x402 payment-gated access
// protocol: it detects 402 payment challenges, selects an acceptable offer,
// builds a signed payment proof, and retries the request with the proof
// attached.
//
// The package never achieves on-chain settlement itself; it produces a
// facilitator-verifiable signed assertion and treats settlement confirmation
// as advisory.
package x402

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// X402Version is the protocol version this client speaks.
const X402Version = 1

// BaseUnitDecimals is the fixed decimal exponent used to convert
// human-readable ceiling amounts into base units.
const BaseUnitDecimals = 6

// Wire headers.
const (
	// PaymentHeader carries the encoded payment proof on the paid retry.
	PaymentHeader = "x-payment"

	// SettlementHeader optionally carries the settlement record on the
	// response to a paid retry.
	SettlementHeader = "x-payment-response"
)

// Payment schemes a server may offer.
const (
	SchemeExact = "exact"
	SchemeUpTo  = "upto"
)

// PaymentOffer is one acceptable payment option within a challenge.
type PaymentOffer struct {
	// Scheme is the payment scheme identifier ("exact" or "upto").
	Scheme string `json:"scheme"`

	// Network is the settlement network identifier.
	Network string `json:"network"`

	// Recipient is the address the payment must be sent to.
	Recipient string `json:"recipient"`

	// MaxAmountRequired is the amount demanded, as an unsigned integer in
	// base units encoded as a decimal string.
	MaxAmountRequired string `json:"maxAmountRequired"`

	// Token is the token mint or contract address. Empty means the
	// network's native asset.
	Token string `json:"token,omitempty"`

	// Extra carries scheme-specific additional data, passed through opaque.
	Extra map[string]any `json:"extra,omitempty"`
}

// PaymentChallenge is the decoded body of a 402 response. It exists only for
// the lifetime of a single call and is never persisted.
type PaymentChallenge struct {
	X402Version int            `json:"x402Version"`
	Accepts     []PaymentOffer `json:"accepts"`
	Message     string         `json:"message,omitempty"`
}

// PaymentProof is the canonical signed payment assertion submitted on the
// paid retry. It is transport-encoded into the x-payment header and exists
// only for the lifetime of one call.
type PaymentProof struct {
	X402Version int    `json:"x402Version"`
	Network     string `json:"network"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	Token       string `json:"token,omitempty"`
	Scheme      string `json:"scheme"`
	Timestamp   int64  `json:"timestamp"`
	Nonce       string `json:"nonce"`
	Payer       string `json:"payer"`
	Signature   string `json:"signature"`
}

// SettlementRecord is the advisory post-payment confirmation decoded from
// the x-payment-response header.
type SettlementRecord struct {
	TransactionID string `json:"transactionId"`
	Network       string `json:"network"`
	Amount        string `json:"amount"`
	Timestamp     int64  `json:"timestamp"`
}

// CeilingToBaseUnits converts a human-unit amount string (e.g. "1.5") into
// base units using the fixed 6-decimal exponent. The result is an exact
// arbitrary-precision integer; amounts with more than 6 fractional digits or
// negative amounts are rejected. Floating point is never used because
// base-unit magnitudes can exceed the safe float integer range.
func CeilingToBaseUnits(human string) (*big.Int, error) {
	d, err := decimal.NewFromString(human)
	if err != nil {
		return nil, NewProtocolError(ErrCodeInvalidChallenge,
			"spending ceiling is not a valid decimal amount", err)
	}
	if d.IsNegative() {
		return nil, NewProtocolError(ErrCodeInvalidChallenge,
			"spending ceiling must not be negative", nil)
	}

	scaled := d.Shift(BaseUnitDecimals)
	if !scaled.IsInteger() {
		return nil, NewProtocolError(ErrCodeInvalidChallenge,
			"spending ceiling has more precision than the base unit allows", nil)
	}
	return scaled.BigInt(), nil
}

// BaseUnitsToHuman renders a base-unit amount as a human-readable decimal
// string using the fixed 6-decimal exponent.
func BaseUnitsToHuman(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -BaseUnitDecimals).String()
}

// Package delegated implements a payment proof signer that forwards signing
// to an externally managed wallet agent. The wallet owns the key material;
// this signer only relays requests and awaits the result.
package delegated

import (
	"context"
	"fmt"

	"github.com/dexfra-fun/dexfra-agent/x402"
)

// Wallet is the minimal surface every delegate must provide.
type Wallet interface {
	// Address returns the payer address of the delegated wallet.
	Address() string
}

// MessageSigner is the optional signing capability of a delegate. Wallets
// that can sign arbitrary payloads implement it in addition to Wallet.
type MessageSigner interface {
	// SignMessage forwards the payload to the wallet and awaits the raw
	// signature. The call may block on user approval or a network round
	// trip; implementations must honor ctx cancellation.
	SignMessage(ctx context.Context, payload []byte) ([]byte, error)
}

// Signer adapts a Wallet delegate to the x402.Signer contract. The signing
// capability is resolved once at construction: a delegate that does not
// implement MessageSigner yields signer_capability_missing on every Sign
// call instead of silently doing nothing.
//
// Whether concurrent Sign calls are safe depends entirely on the delegate;
// callers that cannot guarantee it should serialize payments.
type Signer struct {
	wallet Wallet
	signer MessageSigner // nil when the delegate lacks the capability
}

var _ x402.Signer = (*Signer)(nil)

// NewSigner wraps a wallet delegate.
func NewSigner(wallet Wallet) (*Signer, error) {
	if wallet == nil {
		return nil, fmt.Errorf("wallet delegate is required")
	}

	s := &Signer{wallet: wallet}
	if ms, ok := wallet.(MessageSigner); ok {
		s.signer = ms
	}
	return s, nil
}

// Sign forwards the payload to the delegate and awaits the signature.
func (s *Signer) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	if s.signer == nil {
		return nil, x402.NewProtocolError(x402.ErrCodeSignerCapabilityMissing,
			"delegated wallet does not support message signing", nil).
			WithDetail("address", s.wallet.Address())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.signer.SignMessage(ctx, payload)
}

// Identity returns the delegated wallet's address.
func (s *Signer) Identity() string {
	return s.wallet.Address()
}

// Package evmkey implements a payment proof signer backed by a local
// secp256k1 private key for EVM networks. Signing is synchronous and
// requires no network access.
package evmkey

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/dexfra-fun/dexfra-agent/x402"
)

// Signer signs payment proofs with an in-process secp256k1 key using the
// EIP-191 personal message scheme.
type Signer struct {
	privateKey *ecdsa.PrivateKey
	address    string
}

var _ x402.Signer = (*Signer)(nil)

// NewSigner creates a signer from a hex-encoded private key, with or without
// a 0x prefix.
func NewSigner(privateKeyHex string) (*Signer, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewSignerFromKey(privateKey)
}

// NewSignerFromKey creates a signer from an existing ECDSA private key.
func NewSignerFromKey(key *ecdsa.PrivateKey) (*Signer, error) {
	if key == nil {
		return nil, fmt.Errorf("private key is required")
	}
	return &Signer{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}, nil
}

// Sign signs the payload under EIP-191. The context is unused; signing is
// purely local.
func (s *Signer) Sign(_ context.Context, payload []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(payload), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("secp256k1 signing failed: %w", err)
	}
	// Shift v into the Ethereum convention expected by verifiers.
	sig[64] += 27
	return sig, nil
}

// Identity returns the checksummed account address.
func (s *Signer) Identity() string {
	return s.address
}

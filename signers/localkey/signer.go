// Package localkey implements a payment proof signer backed by a local
// Solana ed25519 private key. Signing is synchronous and requires no
// network access.
package localkey

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"

	"github.com/dexfra-fun/dexfra-agent/x402"
)

// Signer signs payment proofs with an in-process ed25519 key.
type Signer struct {
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

var _ x402.Signer = (*Signer)(nil)

// NewSigner creates a signer from a base58-encoded private key.
func NewSigner(privateKeyBase58 string) (*Signer, error) {
	privateKey, err := solana.PrivateKeyFromBase58(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewSignerFromKey(privateKey)
}

// NewSignerFromKey creates a signer from an existing private key.
func NewSignerFromKey(key solana.PrivateKey) (*Signer, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("private key is required")
	}
	return &Signer{
		privateKey: key,
		publicKey:  key.PublicKey(),
	}, nil
}

// NewSignerFromKeygenFile creates a signer from a Solana keygen JSON file,
// which holds the 64-byte ed25519 key as a JSON byte array.
func NewSignerFromKeygenFile(path string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keygen file: %w", err)
	}

	var raw []int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("keygen file is not a JSON byte array: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("keygen file holds %d bytes, expected 64", len(raw))
	}

	keyBytes := make([]byte, len(raw))
	for i, b := range raw {
		if b < 0 || b > 255 {
			return nil, fmt.Errorf("keygen file entry %d is out of byte range", i)
		}
		keyBytes[i] = byte(b)
	}
	return NewSignerFromKey(solana.PrivateKey(keyBytes))
}

// Sign signs the payload with the local key. The context is unused; signing
// is purely local.
func (s *Signer) Sign(_ context.Context, payload []byte) ([]byte, error) {
	sig, err := s.privateKey.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("ed25519 signing failed: %w", err)
	}
	return sig[:], nil
}

// Identity returns the base58-encoded public key.
func (s *Signer) Identity() string {
	return s.publicKey.String()
}

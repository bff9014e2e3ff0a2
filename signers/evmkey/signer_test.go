package evmkey

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestSignerSignsVerifiably(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	signer, err := NewSignerFromKey(key)
	if err != nil {
		t.Fatalf("NewSignerFromKey() failed: %v", err)
	}

	payload := []byte(`{"amount":"1000","recipient":"r"}`)
	sig, err := signer.Sign(context.Background(), payload)
	if err != nil {
		t.Fatalf("Sign() failed: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("Expected a 65-byte signature, got %d", len(sig))
	}

	// Undo the Ethereum v offset to recover the public key.
	recoverable := make([]byte, len(sig))
	copy(recoverable, sig)
	recoverable[64] -= 27

	pub, err := crypto.SigToPub(accounts.TextHash(payload), recoverable)
	if err != nil {
		t.Fatalf("SigToPub() failed: %v", err)
	}
	if got := crypto.PubkeyToAddress(*pub).Hex(); got != signer.Identity() {
		t.Errorf("Recovered address %s, want %s", got, signer.Identity())
	}
}

func TestNewSignerFromHex(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	keyHex := hexutil.Encode(crypto.FromECDSA(key))

	signer, err := NewSigner(keyHex)
	if err != nil {
		t.Fatalf("NewSigner() with 0x prefix failed: %v", err)
	}
	want := crypto.PubkeyToAddress(key.PublicKey).Hex()
	if signer.Identity() != want {
		t.Errorf("Identity() = %q, want %q", signer.Identity(), want)
	}

	if _, err := NewSigner("zz"); err == nil {
		t.Error("Expected an error for an invalid hex key")
	}
}

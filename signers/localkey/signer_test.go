package localkey

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestSignerSignsVerifiably(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
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

	if !ed25519.Verify(ed25519.PublicKey(key.PublicKey().Bytes()), payload, sig) {
		t.Error("Signature does not verify against the signer's public key")
	}
	if signer.Identity() != key.PublicKey().String() {
		t.Errorf("Identity() = %q, want %q", signer.Identity(), key.PublicKey().String())
	}
}

func TestNewSignerFromBase58(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	signer, err := NewSigner(key.String())
	if err != nil {
		t.Fatalf("NewSigner() failed: %v", err)
	}
	if signer.Identity() != key.PublicKey().String() {
		t.Errorf("Identity mismatch after base58 round trip")
	}

	if _, err := NewSigner("not-a-key"); err == nil {
		t.Error("Expected an error for an invalid base58 key")
	}
}

func TestNewSignerFromKeygenFile(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	path := filepath.Join(t.TempDir(), "id.json")
	raw := make([]int, len(key))
	for i, b := range []byte(key) {
		raw[i] = int(b)
	}
	data, _ := json.Marshal(raw)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write keygen file: %v", err)
	}

	signer, err := NewSignerFromKeygenFile(path)
	if err != nil {
		t.Fatalf("NewSignerFromKeygenFile() failed: %v", err)
	}
	if signer.Identity() != key.PublicKey().String() {
		t.Error("Identity mismatch after keygen file round trip")
	}

	if _, err := NewSignerFromKeygenFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

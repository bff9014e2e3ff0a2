package delegated

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dexfra-fun/dexfra-agent/x402"
)

// readOnlyWallet exposes an address but cannot sign.
type readOnlyWallet struct{}

func (readOnlyWallet) Address() string { return "read-only-address" }

// signingWallet forwards signatures through a channel so tests can model a
// slow external agent.
type signingWallet struct {
	result chan []byte
}

func (signingWallet) Address() string { return "signing-address" }

func (w signingWallet) SignMessage(ctx context.Context, payload []byte) ([]byte, error) {
	select {
	case sig := <-w.result:
		return sig, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestSignerForwardsToDelegate(t *testing.T) {
	wallet := signingWallet{result: make(chan []byte, 1)}
	wallet.result <- []byte("remote-signature")

	signer, err := NewSigner(wallet)
	if err != nil {
		t.Fatalf("NewSigner() failed: %v", err)
	}

	sig, err := signer.Sign(context.Background(), []byte("payload"))
	if err != nil {
		t.Fatalf("Sign() failed: %v", err)
	}
	if string(sig) != "remote-signature" {
		t.Errorf("Expected the delegate's signature, got %q", sig)
	}
	if signer.Identity() != "signing-address" {
		t.Errorf("Identity() = %q, want signing-address", signer.Identity())
	}
}

func TestSignerWithoutCapabilityFails(t *testing.T) {
	signer, err := NewSigner(readOnlyWallet{})
	if err != nil {
		t.Fatalf("NewSigner() failed: %v", err)
	}

	_, err = signer.Sign(context.Background(), []byte("payload"))
	var perr *x402.ProtocolError
	if !errors.As(err, &perr) || perr.Code != x402.ErrCodeSignerCapabilityMissing {
		t.Fatalf("Expected signer_capability_missing, got %v", err)
	}
	if perr.Details["address"] != "read-only-address" {
		t.Errorf("Expected the wallet address in the details, got %v", perr.Details)
	}
}

func TestSignerHonorsCancellation(t *testing.T) {
	wallet := signingWallet{result: make(chan []byte)} // never delivers
	signer, err := NewSigner(wallet)
	if err != nil {
		t.Fatalf("NewSigner() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = signer.Sign(ctx, []byte("payload"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected context deadline error, got %v", err)
	}
}

func TestNewSignerRequiresWallet(t *testing.T) {
	if _, err := NewSigner(nil); err == nil {
		t.Error("Expected an error for a nil wallet")
	}
}

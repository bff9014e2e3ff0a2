package balance

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/dexfra-fun/dexfra-agent/logger"
)

const usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

// fakeRPC substitutes the Solana RPC surface.
type fakeRPC struct {
	lamports     uint64
	tokenAmount  *rpc.UiTokenAmount
	balanceErr   error
	tokenErr     error
	tokenAccount solana.PublicKey
}

func (f *fakeRPC) GetBalance(_ context.Context, _ solana.PublicKey, _ rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return &rpc.GetBalanceResult{Value: f.lamports}, nil
}

func (f *fakeRPC) GetTokenAccountBalance(_ context.Context, account solana.PublicKey, _ rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	f.tokenAccount = account
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return &rpc.GetTokenAccountBalanceResult{Value: f.tokenAmount}, nil
}

func testOwner(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key.PublicKey()
}

func TestGetNativeBalance(t *testing.T) {
	reader, err := NewReader(&fakeRPC{lamports: 2500000000}, testOwner(t), logger.NoopLogger{})
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	b, err := reader.Get(context.Background(), "")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if b.TokenIdentifier != "SOL" {
		t.Errorf("Expected SOL identifier, got %q", b.TokenIdentifier)
	}
	if b.Amount != "2500000000" {
		t.Errorf("Expected 2500000000 lamports, got %q", b.Amount)
	}
	if b.Formatted != "2.5" {
		t.Errorf("Expected 2.5 formatted, got %q", b.Formatted)
	}
	if b.Decimals != 9 {
		t.Errorf("Expected 9 decimals, got %d", b.Decimals)
	}
}

func TestGetTokenBalance(t *testing.T) {
	owner := testOwner(t)
	fake := &fakeRPC{
		tokenAmount: &rpc.UiTokenAmount{
			Amount:         "1500000",
			Decimals:       6,
			UiAmountString: "1.5",
		},
	}
	reader, err := NewReader(fake, owner, logger.NoopLogger{})
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	b, err := reader.Get(context.Background(), usdcMint)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if b.Amount != "1500000" || b.Formatted != "1.5" || b.Decimals != 6 {
		t.Errorf("Unexpected balance: %+v", b)
	}
	if b.TokenIdentifier != usdcMint {
		t.Errorf("Expected the mint as identifier, got %q", b.TokenIdentifier)
	}

	// The reader must query the derived associated token account.
	mint := solana.MustPublicKeyFromBase58(usdcMint)
	want, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("FindAssociatedTokenAddress() failed: %v", err)
	}
	if !fake.tokenAccount.Equals(want) {
		t.Errorf("Queried account %s, want the associated token account %s", fake.tokenAccount, want)
	}
}

func TestGetTokenBalanceNonexistentAccountIsZero(t *testing.T) {
	fake := &fakeRPC{tokenErr: errors.New("rpc error: could not find account")}
	reader, err := NewReader(fake, testOwner(t), logger.NoopLogger{})
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	b, err := reader.Get(context.Background(), usdcMint)
	if err != nil {
		t.Fatalf("A missing token account must not be an error, got %v", err)
	}
	if b.Amount != "0" || b.Formatted != "0" {
		t.Errorf("Expected a zero balance, got %+v", b)
	}
	if b.TokenIdentifier != usdcMint {
		t.Errorf("Expected the mint as identifier, got %q", b.TokenIdentifier)
	}
}

func TestGetTokenBalanceTransportError(t *testing.T) {
	fake := &fakeRPC{tokenErr: errors.New("connection refused")}
	reader, err := NewReader(fake, testOwner(t), logger.NoopLogger{})
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	if _, err := reader.Get(context.Background(), usdcMint); err == nil {
		t.Error("Expected a transport failure to propagate")
	}
}

func TestGetInvalidMint(t *testing.T) {
	reader, err := NewReader(&fakeRPC{}, testOwner(t), logger.NoopLogger{})
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	if _, err := reader.Get(context.Background(), "not-a-mint"); err == nil {
		t.Error("Expected an error for an invalid mint address")
	}
}

// Package balance reads native SOL and SPL token balances for the agent's
// wallet. Lookups are plain read queries; a wallet that never received a
// token simply has a zero balance, not an error.
package balance

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	"github.com/dexfra-fun/dexfra-agent/logger"
)

// solDecimals is the lamport exponent of the native asset.
const solDecimals = 9

// RPCClient is the subset of the Solana RPC surface the reader needs,
// injected so tests can substitute a fake.
type RPCClient interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
}

// Balance is the result of a lookup.
type Balance struct {
	// Amount is the balance in base units as a decimal string.
	Amount string `json:"balance"`

	// TokenIdentifier is the mint address queried, or "SOL" for the
	// native asset.
	TokenIdentifier string `json:"tokenIdentifier"`

	// Formatted is the balance in human units.
	Formatted string `json:"formatted"`

	// Decimals is the token's decimal exponent.
	Decimals int `json:"decimals"`
}

// Reader looks up balances for a single wallet.
type Reader struct {
	client RPCClient
	owner  solana.PublicKey
	log    logger.Logger
}

// NewReader creates a balance reader for the given wallet.
func NewReader(client RPCClient, owner solana.PublicKey, log logger.Logger) (*Reader, error) {
	if client == nil {
		return nil, fmt.Errorf("rpc client is required")
	}
	if owner.IsZero() {
		return nil, fmt.Errorf("owner public key is required")
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Reader{client: client, owner: owner, log: log}, nil
}

// NewReaderForEndpoint creates a reader backed by a real RPC endpoint.
func NewReaderForEndpoint(endpoint string, owner solana.PublicKey, log logger.Logger) (*Reader, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("rpc endpoint is required")
	}
	return NewReader(rpc.New(endpoint), owner, log)
}

// Get returns the wallet's balance for the given token mint. An empty
// tokenMint reads the native SOL balance.
func (r *Reader) Get(ctx context.Context, tokenMint string) (Balance, error) {
	if tokenMint == "" {
		return r.getNative(ctx)
	}
	return r.getToken(ctx, tokenMint)
}

func (r *Reader) getNative(ctx context.Context) (Balance, error) {
	result, err := r.client.GetBalance(ctx, r.owner, rpc.CommitmentConfirmed)
	if err != nil {
		return Balance{}, fmt.Errorf("failed to read native balance: %w", err)
	}

	lamports := decimal.NewFromBigInt(new(big.Int).SetUint64(result.Value), 0)
	return Balance{
		Amount:          lamports.String(),
		TokenIdentifier: "SOL",
		Formatted:       lamports.Shift(-solDecimals).String(),
		Decimals:        solDecimals,
	}, nil
}

func (r *Reader) getToken(ctx context.Context, tokenMint string) (Balance, error) {
	mint, err := solana.PublicKeyFromBase58(tokenMint)
	if err != nil {
		return Balance{}, fmt.Errorf("invalid token mint %q: %w", tokenMint, err)
	}

	account, _, err := solana.FindAssociatedTokenAddress(r.owner, mint)
	if err != nil {
		return Balance{}, fmt.Errorf("failed to derive token account: %w", err)
	}

	result, err := r.client.GetTokenAccountBalance(ctx, account, rpc.CommitmentConfirmed)
	if err != nil {
		if isAccountNotFound(err) {
			// Never holding the token is a zero balance, not a failure.
			r.log.Debug("token account does not exist", map[string]any{
				"mint":    tokenMint,
				"account": account.String(),
			})
			return Balance{
				Amount:          "0",
				TokenIdentifier: tokenMint,
				Formatted:       "0",
			}, nil
		}
		return Balance{}, fmt.Errorf("failed to read token balance: %w", err)
	}

	b := Balance{
		Amount:          result.Value.Amount,
		TokenIdentifier: tokenMint,
		Formatted:       result.Value.UiAmountString,
		Decimals:        int(result.Value.Decimals),
	}
	if b.Formatted == "" {
		b.Formatted = b.Amount
	}
	return b, nil
}

// isAccountNotFound matches the RPC error returned for a token account that
// was never created.
func isAccountNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not find account") ||
		strings.Contains(msg, "account not found")
}

// Package config loads the agent toolkit configuration from the
// environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config is the environment-driven configuration for the agent toolkit.
type Config struct {
	// RPCURL is the Solana RPC endpoint used for balance lookups.
	RPCURL string `env:"DEXFRA_RPC_URL" envDefault:"https://api.mainnet-beta.solana.com" validate:"url"`

	// MarketplaceURL is the base URL of the service catalog API.
	MarketplaceURL string `env:"DEXFRA_MARKETPLACE_URL" envDefault:"https://api.dexfra.fun" validate:"url"`

	// MarketplaceAPIKey optionally authenticates catalog queries.
	MarketplaceAPIKey string `env:"DEXFRA_API_KEY"`

	// PrivateKey is the base58-encoded local signing key. Leave empty when
	// a delegated wallet signer is wired in instead.
	PrivateKey string `env:"DEXFRA_PRIVATE_KEY"`

	// PreferredNetwork biases offer selection toward a network.
	PreferredNetwork string `env:"DEXFRA_PREFERRED_NETWORK" envDefault:"solana"`

	// SpendingCeiling is the per-call payment ceiling in human units.
	// Empty means unrestricted spending.
	SpendingCeiling string `env:"DEXFRA_SPENDING_CEILING"`

	// LogLevel controls the zap logger (debug, info, warn, error).
	LogLevel string `env:"DEXFRA_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return Config{}, fmt.Errorf("invalid configuration field %s: failed %s validation",
				verrs[0].Field(), verrs[0].Tag())
		}
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

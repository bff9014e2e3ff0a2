package x402

import (
	"math/big"
	"strings"
)

// SelectOffer picks one payment offer from a challenge. The network match is
// case-insensitive and the first match in list order wins; absent a match,
// the first offer is used. An empty offer list is a protocol violation and
// fails closed.
func SelectOffer(offers []PaymentOffer, preferredNetwork string) (PaymentOffer, error) {
	if len(offers) == 0 {
		return PaymentOffer{}, NewInvalidChallengeError("challenge contains no payment offers", nil)
	}

	if preferredNetwork != "" {
		for _, offer := range offers {
			if strings.EqualFold(offer.Network, preferredNetwork) {
				return offer, nil
			}
		}
	}

	return offers[0], nil
}

// GuardCeiling enforces the configured spending ceiling against the selected
// offer. It must complete, and pass, strictly before any signing is
// attempted. A nil ceiling passes unconditionally; configuring no ceiling is
// an explicit operator decision to allow unrestricted spending.
//
// Amounts are compared as arbitrary-precision integers in base units.
func GuardCeiling(offer PaymentOffer, ceiling *big.Int) error {
	required, ok := new(big.Int).SetString(offer.MaxAmountRequired, 10)
	if !ok || required.Sign() < 0 {
		return NewInvalidChallengeError("offer amount is not an unsigned base-unit integer", nil).
			WithDetail("maxAmountRequired", offer.MaxAmountRequired)
	}

	if ceiling == nil {
		return nil
	}

	if required.Cmp(ceiling) > 0 {
		return NewCeilingExceededError(required.String(), ceiling.String())
	}
	return nil
}

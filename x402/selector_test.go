package x402

import (
	"errors"
	"math/big"
	"testing"
)

func TestSelectOffer(t *testing.T) {
	offerA := PaymentOffer{Network: "A", MaxAmountRequired: "1"}
	offerB := PaymentOffer{Network: "B", MaxAmountRequired: "2"}

	tests := []struct {
		name      string
		offers    []PaymentOffer
		preferred string
		want      string
	}{
		{"preferred network wins", []PaymentOffer{offerA, offerB}, "B", "B"},
		{"preferred wins irrespective of order", []PaymentOffer{offerB, offerA}, "B", "B"},
		{"match is case-insensitive", []PaymentOffer{offerA, offerB}, "b", "B"},
		{"first offer when no preference", []PaymentOffer{offerA, offerB}, "", "A"},
		{"fallback to first when no match", []PaymentOffer{offerA, offerB}, "C", "A"},
		{"first match in list order wins", []PaymentOffer{offerB, {Network: "b", MaxAmountRequired: "3"}}, "B", "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectOffer(tt.offers, tt.preferred)
			if err != nil {
				t.Fatalf("SelectOffer() failed: %v", err)
			}
			if got.Network != tt.want {
				t.Errorf("SelectOffer() picked network %q, want %q", got.Network, tt.want)
			}
		})
	}
}

func TestSelectOfferEmptyListFailsClosed(t *testing.T) {
	_, err := SelectOffer(nil, "solana")
	var perr *ProtocolError
	if !errors.As(err, &perr) || perr.Code != ErrCodeInvalidChallenge {
		t.Fatalf("Expected invalid_challenge for empty offers, got %v", err)
	}
}

func TestGuardCeiling(t *testing.T) {
	offer := func(amount string) PaymentOffer {
		return PaymentOffer{Network: "solana", MaxAmountRequired: amount}
	}

	t.Run("nil ceiling passes unconditionally", func(t *testing.T) {
		if err := GuardCeiling(offer("999999999999999999999999"), nil); err != nil {
			t.Errorf("Expected nil ceiling to pass, got %v", err)
		}
	})

	t.Run("amount at the ceiling passes", func(t *testing.T) {
		if err := GuardCeiling(offer("1000000"), big.NewInt(1000000)); err != nil {
			t.Errorf("Expected amount equal to ceiling to pass, got %v", err)
		}
	})

	t.Run("amount above the ceiling fails with details", func(t *testing.T) {
		err := GuardCeiling(offer("2000000"), big.NewInt(1000000))
		var perr *ProtocolError
		if !errors.As(err, &perr) || perr.Code != ErrCodeCeilingExceeded {
			t.Fatalf("Expected ceiling_exceeded, got %v", err)
		}
		if perr.Details["required"] != "2000000" {
			t.Errorf("Expected required detail 2000000, got %v", perr.Details["required"])
		}
		if perr.Details["max"] != "1000000" {
			t.Errorf("Expected max detail 1000000, got %v", perr.Details["max"])
		}
	})

	t.Run("amounts beyond float precision compare exactly", func(t *testing.T) {
		ceiling, ok := new(big.Int).SetString("9007199254740993", 10)
		if !ok {
			t.Fatal("failed to build ceiling")
		}
		// One base unit above the ceiling; indistinguishable under float64.
		if err := GuardCeiling(offer("9007199254740994"), ceiling); err == nil {
			t.Error("Expected exact integer comparison to catch the overflow")
		}
		if err := GuardCeiling(offer("9007199254740993"), ceiling); err != nil {
			t.Errorf("Expected amount equal to the large ceiling to pass, got %v", err)
		}
	})

	t.Run("malformed amount is a protocol violation", func(t *testing.T) {
		for _, bad := range []string{"", "1.5", "-5", "0x10", "lots"} {
			err := GuardCeiling(offer(bad), big.NewInt(1))
			var perr *ProtocolError
			if !errors.As(err, &perr) || perr.Code != ErrCodeInvalidChallenge {
				t.Errorf("Amount %q: expected invalid_challenge, got %v", bad, err)
			}
		}
	})
}

func TestCeilingToBaseUnits(t *testing.T) {
	tests := []struct {
		human   string
		want    string
		wantErr bool
	}{
		{"1.0", "1000000", false},
		{"0.01", "10000", false},
		{"0", "0", false},
		{"1500.123456", "1500123456", false},
		{"0.0000001", "", true}, // more precision than the base unit
		{"-1", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.human, func(t *testing.T) {
			got, err := CeilingToBaseUnits(tt.human)
			if tt.wantErr {
				if err == nil {
					t.Errorf("CeilingToBaseUnits(%q) expected error, got %s", tt.human, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("CeilingToBaseUnits(%q) failed: %v", tt.human, err)
			}
			if got.String() != tt.want {
				t.Errorf("CeilingToBaseUnits(%q) = %s, want %s", tt.human, got, tt.want)
			}
		})
	}
}

func TestBaseUnitsToHuman(t *testing.T) {
	if got := BaseUnitsToHuman(big.NewInt(1500000)); got != "1.5" {
		t.Errorf("BaseUnitsToHuman(1500000) = %q, want 1.5", got)
	}
	if got := BaseUnitsToHuman(nil); got != "0" {
		t.Errorf("BaseUnitsToHuman(nil) = %q, want 0", got)
	}
}

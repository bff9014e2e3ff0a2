package x402

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// BuildProof assembles the canonical payment record for the selected offer,
// delegates signing to the Signer, and encodes the signed record for the
// x-payment header. Any failure is wrapped as payment_construction_failed.
//
// The proof is a self-describing signed record, not an on-chain instruction;
// its contract ends at producing an assertion the facilitator can verify.
func BuildProof(ctx context.Context, signer Signer, challengeVersion int, offer PaymentOffer) (string, error) {
	proof := PaymentProof{
		X402Version: challengeVersion,
		Network:     offer.Network,
		Recipient:   offer.Recipient,
		Amount:      offer.MaxAmountRequired,
		Token:       offer.Token,
		Scheme:      offer.Scheme,
		Timestamp:   time.Now().Unix(),
		Nonce:       uuid.NewString(),
		Payer:       signer.Identity(),
	}

	payload, err := json.Marshal(proof)
	if err != nil {
		return "", NewConstructionError(err)
	}

	signature, err := signer.Sign(ctx, payload)
	if err != nil {
		var perr *ProtocolError
		if errors.As(err, &perr) && perr.Code == ErrCodeSignerCapabilityMissing {
			return "", perr
		}
		return "", NewConstructionError(err)
	}
	proof.Signature = base64.StdEncoding.EncodeToString(signature)

	return EncodeProofHeader(proof)
}

// EncodeProofHeader encodes a payment proof as base64 JSON for the x-payment
// header. The encoding is reversible; nothing is truncated.
func EncodeProofHeader(proof PaymentProof) (string, error) {
	data, err := json.Marshal(proof)
	if err != nil {
		return "", NewConstructionError(err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeProofHeader reverses EncodeProofHeader.
func DecodeProofHeader(encoded string) (PaymentProof, error) {
	var proof PaymentProof
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return proof, NewInvalidChallengeError("payment header is not valid base64", err)
	}
	if err := json.Unmarshal(data, &proof); err != nil {
		return proof, NewInvalidChallengeError("payment header is not a valid proof record", err)
	}
	return proof, nil
}

package x402

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// EncodeSettlementHeader encodes a settlement record as base64 JSON for the
// x-payment-response header.
func EncodeSettlementHeader(record SettlementRecord) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal settlement record: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ParseSettlementHeader decodes the x-payment-response header. Settlement
// confirmation is advisory: an empty header returns (nil, nil) and a
// malformed one returns an error the caller is expected to log and tolerate,
// never to fail the call on.
func ParseSettlementHeader(encoded string) (*SettlementRecord, error) {
	if encoded == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("settlement header is not valid base64: %w", err)
	}

	var record SettlementRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("settlement header is not a valid record: %w", err)
	}
	if record.TransactionID == "" {
		return nil, fmt.Errorf("settlement record is missing a transaction id")
	}
	return &record, nil
}

package x402

import "fmt"

// Error codes for protocol-level failures.
const (
	ErrCodeInvalidChallenge          = "invalid_challenge"
	ErrCodeCeilingExceeded           = "ceiling_exceeded"
	ErrCodePaymentConstructionFailed = "payment_construction_failed"
	ErrCodePaymentRejected           = "payment_rejected"
	ErrCodeSignerCapabilityMissing   = "signer_capability_missing"
)

// Error codes for collaborator failures.
const (
	ErrCodeAPISearchFailed     = "api_search_failed"
	ErrCodeAPINotFound         = "api_not_found"
	ErrCodeNetworkNotSupported = "network_not_supported"
)

// ProtocolError is the structured error type for payment operations.
type ProtocolError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// NewProtocolError creates a ProtocolError with the given code and message.
func NewProtocolError(code, message string, err error) *ProtocolError {
	return &ProtocolError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetail attaches a structured detail to the error.
func (e *ProtocolError) WithDetail(key string, value any) *ProtocolError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewInvalidChallengeError reports a malformed 402 challenge body.
func NewInvalidChallengeError(message string, err error) *ProtocolError {
	return NewProtocolError(ErrCodeInvalidChallenge, message, err)
}

// NewCeilingExceededError reports an offer that demands more than the
// configured spending ceiling. Both amounts are base-unit decimal strings.
func NewCeilingExceededError(required, max string) *ProtocolError {
	e := NewProtocolError(ErrCodeCeilingExceeded,
		fmt.Sprintf("payment of %s base units exceeds ceiling of %s", required, max), nil)
	return e.WithDetail("required", required).WithDetail("max", max)
}

// NewPaymentRejectedError reports a paid retry that was answered with a
// second 402.
func NewPaymentRejectedError(message string) *ProtocolError {
	if message == "" {
		message = "server rejected the payment proof"
	}
	return NewProtocolError(ErrCodePaymentRejected, message, nil)
}

// NewConstructionError wraps a proof-building failure.
func NewConstructionError(err error) *ProtocolError {
	return NewProtocolError(ErrCodePaymentConstructionFailed, "failed to construct payment proof", err)
}

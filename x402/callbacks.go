package x402

import (
	"github.com/dexfra-fun/dexfra-agent/logger"
)

// Callbacks receives payment lifecycle notifications. Each callback is
// invoked at most once per call, in the order required -> (success | error).
// Callbacks run synchronously on the calling goroutine; a panicking callback
// is recovered and logged, never aborting the payment flow.
type Callbacks struct {
	// OnPaymentRequired fires after an offer has been selected and passed
	// the ceiling guard, before signing. The amount is in base units.
	OnPaymentRequired func(amount string)

	// OnPaymentSuccess fires when the paid retry succeeded and the server
	// returned a well-formed settlement record.
	OnPaymentSuccess func(settlement SettlementRecord)

	// OnPaymentError fires exactly once for any protocol-level failure,
	// before the error propagates to the caller.
	OnPaymentError func(err error)
}

// fireRequired invokes OnPaymentRequired, swallowing panics.
func (cb *Callbacks) fireRequired(log logger.Logger, amount string) {
	if cb == nil || cb.OnPaymentRequired == nil {
		return
	}
	defer recoverCallback(log, "onPaymentRequired")
	cb.OnPaymentRequired(amount)
}

// fireSuccess invokes OnPaymentSuccess, swallowing panics.
func (cb *Callbacks) fireSuccess(log logger.Logger, settlement SettlementRecord) {
	if cb == nil || cb.OnPaymentSuccess == nil {
		return
	}
	defer recoverCallback(log, "onPaymentSuccess")
	cb.OnPaymentSuccess(settlement)
}

// fireError invokes OnPaymentError, swallowing panics.
func (cb *Callbacks) fireError(log logger.Logger, err error) {
	if cb == nil || cb.OnPaymentError == nil {
		return
	}
	defer recoverCallback(log, "onPaymentError")
	cb.OnPaymentError(err)
}

func recoverCallback(log logger.Logger, name string) {
	if r := recover(); r != nil {
		log.Warn("payment callback panicked", map[string]any{
			"callback": name,
			"panic":    r,
		})
	}
}

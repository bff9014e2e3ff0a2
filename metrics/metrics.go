// Package metrics defines the instrumentation surface for payment operations.
package metrics

import "time"

// Recorder receives payment lifecycle counters and latency observations.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// Counter names emitted by the payment client.
const (
	CounterPaymentRequired = "payment_required"
	CounterPaymentSuccess  = "payment_success"
	CounterPaymentRejected = "payment_rejected"
	CounterPaymentError    = "payment_error"
)

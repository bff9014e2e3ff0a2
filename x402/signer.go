package x402

import "context"

// Signer produces payment proof signatures. Implementations hold either
// local key material (signing synchronously) or a delegation to an external
// wallet agent (awaiting asynchronously); both present the same surface to
// the proof builder and are selected once at client construction.
//
// The client performs no locking around Sign. If an implementation is not
// safe under concurrent invocation, serializing calls is the caller's
// responsibility.
type Signer interface {
	// Sign signs the canonical proof payload and returns the raw signature
	// bytes.
	Sign(ctx context.Context, payload []byte) ([]byte, error)

	// Identity returns the payer address the signature is attributable to.
	Identity() string
}

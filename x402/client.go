package x402

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/dexfra-fun/dexfra-agent/logger"
	"github.com/dexfra-fun/dexfra-agent/metrics"
)

// maxChallengeBodySize bounds how much of a 402 body is read when decoding
// the payment challenge.
const maxChallengeBodySize = 1 << 20

// Client is the payment-gated fetch orchestrator. It issues a request, and
// when the server answers 402 it selects an offer, enforces the spending
// ceiling, builds a signed proof and retries the request exactly once with
// the proof attached.
//
// A Client is safe for concurrent use as long as its Signer is; each call
// allocates its own challenge, offer and proof state.
type Client struct {
	httpClient       *http.Client
	signer           Signer
	preferredNetwork string
	ceiling          *big.Int
	callbacks        *Callbacks
	log              logger.Logger
	rec              metrics.Recorder
}

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient sets the underlying HTTP client. Timeouts and cancellation
// are whatever this transport provides; the orchestrator adds none of its
// own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithPreferredNetwork sets the network preferred during offer selection.
func WithPreferredNetwork(network string) Option {
	return func(c *Client) error {
		c.preferredNetwork = network
		return nil
	}
}

// WithCeiling sets the per-call spending ceiling from a human-unit decimal
// string (e.g. "0.10"), converted with the fixed 6-decimal exponent. Without
// this option the client spends without restriction.
func WithCeiling(human string) Option {
	return func(c *Client) error {
		ceiling, err := CeilingToBaseUnits(human)
		if err != nil {
			return err
		}
		c.ceiling = ceiling
		return nil
	}
}

// WithCeilingBaseUnits sets the spending ceiling directly in base units.
func WithCeilingBaseUnits(ceiling *big.Int) Option {
	return func(c *Client) error {
		if ceiling != nil && ceiling.Sign() < 0 {
			return fmt.Errorf("spending ceiling must not be negative")
		}
		c.ceiling = ceiling
		return nil
	}
}

// WithCallbacks sets the payment lifecycle callbacks.
func WithCallbacks(cb *Callbacks) Option {
	return func(c *Client) error {
		c.callbacks = cb
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) error {
		if log == nil {
			return fmt.Errorf("logger must not be nil")
		}
		c.log = log
		return nil
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec metrics.Recorder) Option {
	return func(c *Client) error {
		if rec == nil {
			return fmt.Errorf("metrics recorder must not be nil")
		}
		c.rec = rec
		return nil
	}
}

// New creates a payment-gated fetch client backed by the given signer.
func New(signer Signer, opts ...Option) (*Client, error) {
	if signer == nil {
		return nil, fmt.Errorf("signer is required")
	}

	c := &Client{
		httpClient: http.DefaultClient,
		signer:     signer,
		log:        logger.NoopLogger{},
		rec:        metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RequestOptions describes the request to issue. The body is held as bytes
// so the paid retry can replay it unchanged.
type RequestOptions struct {
	// Method defaults to GET.
	Method string

	// Header entries are merged onto the request for both the probe and
	// the paid retry.
	Header http.Header

	// Body is the request body, replayed verbatim on the paid retry.
	Body []byte
}

// Fetch performs a payment-gated request against url.
//
// A non-402 initial response is returned verbatim with no side effects. On a
// 402, the challenge is parsed, one offer is selected and guarded against
// the ceiling, a proof is signed and the request is retried exactly once
// with the proof attached; a second 402 fails with payment_rejected. The
// retry response is returned as-is even when it carries a business-level
// error status.
//
// Every protocol-level failure fires OnPaymentError exactly once before
// propagating. At most two network round-trips occur per call.
func (c *Client) Fetch(ctx context.Context, url string, opts *RequestOptions) (*http.Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	resp, err := c.issue(ctx, url, opts, "")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusPaymentRequired {
		return resp, nil
	}

	start := time.Now()
	retryResp, err := c.payAndRetry(ctx, url, opts, resp)
	if err != nil {
		c.rec.IncCounter(metrics.CounterPaymentError, map[string]string{})
		c.callbacks.fireError(c.log, err)
		return nil, err
	}
	c.rec.ObserveLatency("paid_fetch", time.Since(start), map[string]string{})
	return retryResp, nil
}

// payAndRetry handles the 402 leg: parse, select, guard, sign, retry,
// settle. The initial 402 response body is consumed here.
func (c *Client) payAndRetry(ctx context.Context, url string, opts *RequestOptions, resp *http.Response) (*http.Response, error) {
	challenge, err := decodeChallenge(resp)
	if err != nil {
		return nil, err
	}

	offer, err := SelectOffer(challenge.Accepts, c.preferredNetwork)
	if err != nil {
		return nil, err
	}

	// The ceiling guard must pass before any signing is attempted.
	if err := GuardCeiling(offer, c.ceiling); err != nil {
		return nil, err
	}

	c.rec.IncCounter(metrics.CounterPaymentRequired, map[string]string{"network": offer.Network})
	c.callbacks.fireRequired(c.log, offer.MaxAmountRequired)

	proofHeader, err := BuildProof(ctx, c.signer, challenge.X402Version, offer)
	if err != nil {
		return nil, err
	}

	retryResp, err := c.issue(ctx, url, opts, proofHeader)
	if err != nil {
		return nil, err
	}

	if retryResp.StatusCode == http.StatusPaymentRequired {
		// No third attempt, ever.
		rejection := readChallengeMessage(retryResp)
		retryResp.Body.Close()
		c.rec.IncCounter(metrics.CounterPaymentRejected, map[string]string{"network": offer.Network})
		return nil, NewPaymentRejectedError(rejection)
	}

	if record, perr := ParseSettlementHeader(retryResp.Header.Get(SettlementHeader)); perr != nil {
		// Advisory only: log and carry on without the success callback.
		c.log.Warn("failed to parse settlement header", map[string]any{
			"url":   url,
			"error": perr.Error(),
		})
	} else if record != nil {
		c.rec.IncCounter(metrics.CounterPaymentSuccess, map[string]string{"network": record.Network})
		c.callbacks.fireSuccess(c.log, *record)
	}

	return retryResp, nil
}

// issue builds and sends one request. The proof header is attached only on
// the paid retry.
func (c *Client) issue(ctx context.Context, url string, opts *RequestOptions, proofHeader string) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if proofHeader != "" {
		req.Header.Set(PaymentHeader, proofHeader)
	}

	return c.httpClient.Do(req)
}

// decodeChallenge parses and validates a 402 response body, consuming it.
func decodeChallenge(resp *http.Response) (*PaymentChallenge, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxChallengeBodySize))
	if err != nil {
		return nil, NewInvalidChallengeError("failed to read challenge body", err)
	}

	var challenge PaymentChallenge
	if err := json.Unmarshal(data, &challenge); err != nil {
		return nil, NewInvalidChallengeError("challenge body is not valid JSON", err)
	}
	if challenge.X402Version == 0 {
		return nil, NewInvalidChallengeError("challenge is missing x402Version", nil)
	}
	if len(challenge.Accepts) == 0 {
		return nil, NewInvalidChallengeError("challenge contains no payment offers", nil)
	}
	return &challenge, nil
}

// readChallengeMessage best-effort extracts the server message from a second
// 402 so the rejection error can carry it.
func readChallengeMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxChallengeBodySize))
	if err != nil {
		return ""
	}
	var challenge PaymentChallenge
	if err := json.Unmarshal(data, &challenge); err != nil {
		return ""
	}
	return challenge.Message
}

// Package gateway wraps embedding and generation providers with input
// validation, per-call timeouts and retries.
package gateway

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docbot"
)

// Defaults for Policy.
const (
	DefaultMaxRetries     = 3
	DefaultTimeout        = 30 * time.Second
	DefaultMaxInputLength = 8000
)

// DefaultRetryDelays returns the backoff delays between attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Policy controls how a provider call is retried.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// Delays are waited between attempts. The last delay is reused when
	// there are more retries than delays. Empty means no wait.
	Delays []time.Duration

	// Timeout bounds each attempt. Zero disables the per-call timeout.
	Timeout time.Duration
}

// DefaultPolicy returns 3 retries with 1s, 2s, 4s backoff and a 30s timeout.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		Delays:     DefaultRetryDelays(),
		Timeout:    DefaultTimeout,
	}
}

func (p Policy) delay(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if attempt < len(p.Delays) {
		return p.Delays[attempt]
	}
	return p.Delays[len(p.Delays)-1]
}

type options struct {
	policy         Policy
	maxInputLength int
	logger         *slog.Logger
}

// Option configures a gateway.
type Option func(*options)

// WithPolicy sets the retry and timeout policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMaxInputLength caps the length in characters of each input. Zero
// disables the check.
func WithMaxInputLength(n int) Option {
	return func(o *options) {
		o.maxInputLength = n
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(maxInputLength int, opts []Option) options {
	o := options{
		policy:         DefaultPolicy(),
		maxInputLength: maxInputLength,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// retry calls fn until it succeeds, the attempts are exhausted, or fn
// returns an error that must not be retried. Caller errors and index
// integrity errors are returned as is. Timeouts count as ordinary failures.
// Returns the number of attempts made and the last error.
func retry(ctx context.Context, o options, op string, fn func(ctx context.Context) error) (int, error) {
	maxAttempts := o.policy.MaxRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := call(ctx, o.policy.Timeout, fn)
		if err == nil {
			return attempt + 1, nil
		}
		if docbot.ErrorCode(err) == docbot.EINVALID || docbot.IsIntegrityError(err) {
			return attempt + 1, err
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return attempt + 1, ctx.Err()
		}

		o.logger.Warn("retrying provider call", "op", op, "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return attempt + 1, ctx.Err()
		case <-time.After(o.policy.delay(attempt)):
		}
	}
	return maxAttempts, lastErr
}

func call(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}

package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/leofalp/aicall/core/call"
	"github.com/leofalp/aicall/providers/observability"
)

// ErrExhausted is returned by [Do] when every attempt has been consumed
// without a success. It is wrapped together with the last operation error so
// callers can use [errors.Is] / [errors.As] to inspect the root cause.
//
// Example:
//
//	if errors.Is(err, retry.ErrExhausted) {
//	    // all attempts failed
//	}
var ErrExhausted = errors.New("aicall: all retry attempts exhausted")

// maxServerDelay caps how long a Retry-After header can push a single wait.
// Servers occasionally send absurd values; beyond this the computed backoff
// is used instead.
const maxServerDelay = 60 * time.Second

// Config holds the tuning parameters for [Do]. Zero values are replaced with
// the defaults documented below.
type Config struct {
	// MaxRetries is the maximum number of retry attempts after the first
	// failure. A value of 3 means the operation runs at most 4 times
	// (1 original + 3 retries). Negative values disable retries entirely.
	// Default: 3.
	MaxRetries int

	// InitialBackoff is the wait duration before the first retry attempt.
	// Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff so it never exceeds this value.
	// Default: 30s.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential growth multiplier applied to
	// InitialBackoff on successive retries
	// (backoff = min(InitialBackoff * BackoffFactor^attempt, MaxBackoff)).
	// Default: 2.0.
	BackoffFactor float64

	// JitterFraction adds random noise to the computed backoff in the range
	// [0, JitterFraction * backoff] to avoid thundering-herd problems.
	// Default: 0.1 (10% jitter).
	JitterFraction float64

	// RetryableFunc returns true when an error should trigger a retry.
	// Default: [DefaultRetryable].
	RetryableFunc func(error) bool
}

// DefaultConfig returns the configuration [Do] uses when fields are left at
// their zero values.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
		JitterFraction: 0.1,
		RetryableFunc:  DefaultRetryable,
	}
}

// DefaultRetryable reports whether err is worth retrying: an API error that
// declares itself retryable (rate limits, 5xx responses, connectivity
// failures). Context cancellation is never retryable, even when wrapped.
func DefaultRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return call.IsRetryable(err)
}

// applyDefaults fills in zero-valued fields in config with the defaults from
// [DefaultConfig].
func applyDefaults(config *Config) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}

	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}

	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}

	if config.BackoffFactor == 0 {
		config.BackoffFactor = 2.0
	}

	if config.JitterFraction == 0 {
		config.JitterFraction = 0.1
	}

	if config.RetryableFunc == nil {
		config.RetryableFunc = DefaultRetryable
	}
}

// computeBackoff returns the backoff duration for the given attempt (0-indexed).
// backoff = min(InitialBackoff * BackoffFactor^attempt, MaxBackoff) + jitter
func computeBackoff(config Config, attempt int) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}

	jitter := base * config.JitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter is intentional
	return time.Duration(base + jitter)
}

// retryDelay returns the wait before the next attempt. When the failed
// attempt carries a Retry-After header demanding a longer wait than the
// computed backoff, the server wins, up to [maxServerDelay].
func retryDelay(err error, computed time.Duration) time.Duration {
	apiErr, ok := call.AsError(err)
	if !ok || apiErr.ResponseHeader == nil {
		return computed
	}

	demanded, ok := parseRetryAfter(apiErr.ResponseHeader)
	if !ok || demanded <= computed {
		return computed
	}
	if demanded > maxServerDelay {
		return computed
	}
	return demanded
}

// parseRetryAfter reads the Retry-After header in both of its legal forms:
// a delay in seconds or an HTTP date.
func parseRetryAfter(header http.Header) (time.Duration, bool) {
	value := header.Get("Retry-After")
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), true
	}

	if at, err := http.ParseTime(value); err == nil {
		return time.Until(at), true
	}

	return 0, false
}

// Do runs op until it succeeds, fails with a non-retryable error, or exhausts
// config.MaxRetries. Between attempts it sleeps with exponential backoff and
// jitter, honoring the server's Retry-After when one was sent. A context
// cancellation during the wait aborts promptly and returns ctx.Err().
//
// Streaming responses cannot be transparently retried once consumption has
// started; wrap only the call that opens the stream.
//
// On exhaustion the returned error wraps both [ErrExhausted] and the last
// operation error, allowing callers to unwrap either.
func Do[T any](ctx context.Context, config Config, op func(context.Context) (T, error)) (T, error) {
	applyDefaults(&config)

	var zero T
	var lastErr error

	span := observability.SpanFromContext(ctx)

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryDelay(lastErr, computeBackoff(config, attempt-1))
			if span != nil {
				span.AddEvent(observability.EventRetryBackoff,
					observability.Int(observability.AttrRetryAttempt, attempt),
					observability.Int(observability.AttrRetryMaxRetries, config.MaxRetries),
					observability.Duration(observability.AttrRetryBackoff, backoff),
				)
			}

			// Respect context cancellation between attempts.
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}

		value, err := op(ctx)
		if err == nil {
			return value, nil
		}

		lastErr = err

		if !config.RetryableFunc(err) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w after %d retries: %w", ErrExhausted, config.MaxRetries, lastErr)
}

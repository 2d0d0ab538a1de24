// Package retry runs an operation with exponential backoff until it succeeds
// or the attempts are exhausted. It is the caller-side companion to
// [github.com/leofalp/aicall/core/call]: the transport classifies each
// failure as retryable or not, and this package acts on that classification.
//
// # Usage
//
//	result, err := retry.Do(ctx, retry.Config{MaxRetries: 5},
//	    func(ctx context.Context) (*Completion, error) {
//	        return call.PostJSON(ctx, client, url, nil, req, onError, onSuccess)
//	    })
//	if errors.Is(err, retry.ErrExhausted) {
//	    // every attempt failed; errors.As(err, &apiErr) reaches the last one
//	}
//
// Zero-valued [Config] fields get defaults (3 retries, 1s initial backoff
// doubling to a 30s cap, 10% jitter, [DefaultRetryable] classification).
// A Retry-After header on the failed response extends the wait when it
// demands more than the computed backoff.
//
// Retries re-run the whole operation. Do not wrap work that must not repeat,
// and do not wrap stream consumption; only the call that opens a stream can
// be usefully retried.
package retry

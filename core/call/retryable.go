package call

import "net/http"

// DefaultRetryable classifies a response by status code alone: request
// timeouts, rate limits, and transient server-side failures are retryable,
// everything else is not. It is the classification used by
// [NewJSONErrorResponseHandler] when no isRetryable predicate is supplied.
func DefaultRetryable(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	switch resp.StatusCode {
	case http.StatusRequestTimeout, // 408
		http.StatusTooEarly,            // 425
		http.StatusTooManyRequests,     // 429
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout:      // 504
		return true
	}
	return false
}

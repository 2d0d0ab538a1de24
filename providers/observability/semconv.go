package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- Call Attributes ---

const (
	// AttrCallRetryable indicates whether the failed call may be retried
	AttrCallRetryable = "call.retryable"

	// AttrCallErrorMessage is the normalized error message of a failed call
	AttrCallErrorMessage = "call.error.message"

	// AttrCallRequestID is the request identifier stamped on the call
	AttrCallRequestID = "call.request.id"
)

// --- Retry Attributes ---

const (
	// AttrRetryAttempt is the zero-based attempt number
	AttrRetryAttempt = "retry.attempt"

	// AttrRetryBackoff is the backoff delay before the next attempt
	AttrRetryBackoff = "retry.backoff"

	// AttrRetryMaxRetries is the configured retry budget
	AttrRetryMaxRetries = "retry.max_retries"
)

// --- SSE Attributes ---

const (
	// AttrSSEEventType is the event name of a Server-Sent Event
	AttrSSEEventType = "sse.event.type"

	// AttrSSEEventCount is the number of events consumed from a stream
	AttrSSEEventCount = "sse.event.count"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrErrorType is the error type/class
	AttrErrorType = "error.type"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanCall is the span name for a single API call
	SpanCall = "call.request"

	// SpanRetry is the span name wrapping a retried operation
	SpanRetry = "call.retry"
)

// --- Event Names ---

const (
	// EventHTTPRequestPrepared marks a request ready to be sent
	EventHTTPRequestPrepared = "http.request.prepared"

	// EventHTTPResponseReceived marks a response fully received
	EventHTTPResponseReceived = "http.response.received"

	// EventHTTPRequestError marks a transport-level failure
	EventHTTPRequestError = "http.request.error"

	// EventHTTPStreamStarted marks a streaming response handed to the caller
	EventHTTPStreamStarted = "http.stream_response.started"

	// EventRetryBackoff marks a backoff pause between attempts
	EventRetryBackoff = "retry.backoff"
)

// --- Metric Names ---

const (
	// MetricRequestCount is the counter for issued calls
	MetricRequestCount = "aicall.request.count"

	// MetricRequestDuration is the histogram for call duration
	MetricRequestDuration = "aicall.request.duration"

	// MetricRequestErrors is the counter for failed calls
	MetricRequestErrors = "aicall.request.errors"
)

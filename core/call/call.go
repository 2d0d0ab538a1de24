package call

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/leofalp/aicall/providers/observability"
)

// Body carries a request payload in both forms the call needs: the serialized
// bytes that go on the wire and the pre-serialization values that get attached
// to errors for context.
type Body struct {
	Content []byte
	Values  any
}

// Exchange bundles what a [ResponseHandler] needs to interpret a response:
// the request URL and values for error context, and the response itself.
type Exchange struct {
	URL         string
	RequestBody any
	Response    *http.Response
}

// ResponseHandler interprets an HTTP response. The invoked handler owns the
// response body: handlers that read it must close it, and handlers that
// return a lazy consumer (such as an event stream) transfer ownership to it.
type ResponseHandler[T any] func(ctx context.Context, ex Exchange) (T, error)

// PostJSON marshals values as the JSON request body, sets
// Content-Type: application/json, and performs the call via [Post].
func PostJSON[T any](ctx context.Context, client *http.Client, url string, header http.Header, values any, onError ResponseHandler[*Error], onSuccess ResponseHandler[T]) (T, error) {
	var zero T

	content, err := json.Marshal(values)
	if err != nil {
		return zero, fmt.Errorf("error marshaling body: %w", err)
	}

	h := cloneHeader(header)
	h.Set("Content-Type", "application/json")

	return Post(ctx, client, url, h, Body{Content: content, Values: values}, onError, onSuccess)
}

// PostForm URL-encodes form as the request body, sets
// Content-Type: application/x-www-form-urlencoded, and performs the call via
// [Post].
func PostForm[T any](ctx context.Context, client *http.Client, url string, header http.Header, form neturl.Values, onError ResponseHandler[*Error], onSuccess ResponseHandler[T]) (T, error) {
	h := cloneHeader(header)
	h.Set("Content-Type", "application/x-www-form-urlencoded")

	return Post(ctx, client, url, h, Body{Content: []byte(form.Encode()), Values: form}, onError, onSuccess)
}

// Post performs a single POST request and normalizes every failure mode.
//
//   - A transport-level failure caused by the caller's own context returns
//     ctx.Err() verbatim; any other transport failure returns a retryable
//     [Error] with the message "Cannot connect to API: <cause>".
//   - A non-2xx status invokes onError; the *Error it returns is the call's
//     error.
//   - A 2xx status invokes onSuccess and returns its value.
//   - A handler that itself fails has its error wrapped as an [Error] unless
//     it already is one, or is a context cancellation, which both pass
//     through unchanged.
//
// Exactly one of these outcomes occurs per call; Post never retries.
func Post[T any](ctx context.Context, client *http.Client, url string, header http.Header, body Body, onError ResponseHandler[*Error], onSuccess ResponseHandler[T]) (T, error) {
	return roundTrip(ctx, client, http.MethodPost, url, header, body, onError, onSuccess)
}

// Get performs a GET request with the same response-handling contract as
// [Post].
func Get[T any](ctx context.Context, client *http.Client, url string, header http.Header, onError ResponseHandler[*Error], onSuccess ResponseHandler[T]) (T, error) {
	return roundTrip(ctx, client, http.MethodGet, url, header, Body{}, onError, onSuccess)
}

func roundTrip[T any](ctx context.Context, client *http.Client, method, url string, header http.Header, body Body, onError ResponseHandler[*Error], onSuccess ResponseHandler[T]) (T, error) {
	var zero T

	// Get observer from context if available
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPRequestPrepared,
			observability.String(observability.AttrHTTPMethod, method),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(body.Content)),
		)
	}

	var bodyReader io.Reader
	if body.Content != nil {
		bodyReader = bytes.NewReader(body.Content)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return zero, fmt.Errorf("error creating request: %w", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	requestStart := time.Now()
	resp, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent(observability.EventHTTPRequestError,
				observability.Error(err),
				observability.Duration(observability.AttrDuration, requestDuration),
			)
		}
		// The caller's own signal takes precedence over any transport
		// classification. Timeouts configured on the http.Client are not the
		// caller's signal and fall through to the connectivity error.
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, &Error{
			Message:     "Cannot connect to API: " + rootCause(err).Error(),
			URL:         url,
			RequestBody: body.Values,
			Retryable:   true,
			Cause:       err,
		}
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPResponseReceived,
			observability.Int(observability.AttrHTTPStatusCode, resp.StatusCode),
			observability.Duration(observability.AttrDuration, requestDuration),
		)
	}

	ex := Exchange{URL: url, RequestBody: body.Values, Response: resp}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr, handlerErr := onError(ctx, ex)
		if handlerErr != nil {
			return zero, wrapHandlerError(handlerErr, "failed to process error response", ex)
		}
		if apiErr == nil {
			// A handler returning (nil, nil) has nothing to say; degrade to
			// the status text rather than reporting success.
			apiErr = &Error{
				Message:        statusMessage(resp.StatusCode),
				URL:            url,
				RequestBody:    body.Values,
				StatusCode:     resp.StatusCode,
				ResponseHeader: resp.Header,
			}
		}
		return zero, apiErr
	}

	value, handlerErr := onSuccess(ctx, ex)
	if handlerErr != nil {
		return zero, wrapHandlerError(handlerErr, "failed to process successful response", ex)
	}

	return value, nil
}

// wrapHandlerError normalizes a handler failure. Context cancellation and
// errors that already are *Error pass through unchanged; anything else is
// wrapped so the caller still gets the exchange context.
func wrapHandlerError(err error, message string, ex Exchange) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return &Error{
		Message:        message,
		URL:            ex.URL,
		RequestBody:    ex.RequestBody,
		StatusCode:     ex.Response.StatusCode,
		ResponseHeader: ex.Response.Header,
		Cause:          err,
	}
}

// rootCause unwraps the url.Error envelope the http package puts around
// transport failures, so connectivity messages name the actual cause.
func rootCause(err error) error {
	var urlErr *neturl.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func cloneHeader(header http.Header) http.Header {
	if header == nil {
		return make(http.Header)
	}
	return header.Clone()
}

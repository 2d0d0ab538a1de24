package call

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/leofalp/aicall/core/codec"
	"github.com/leofalp/aicall/core/sse"
	"github.com/leofalp/aicall/internal/utils"
	"github.com/leofalp/aicall/providers/observability"
)

// maxResponseBodySize is the maximum response body size (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// readResponseBody drains the response body as text and closes it. Handlers
// that read the body own it, so the close happens here regardless of outcome.
func readResponseBody(resp *http.Response) (string, error) {
	defer utils.CloseWithLog(resp.Body)
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}
	return string(data), nil
}

// NewJSONErrorResponseHandler builds an error handler for APIs that report
// failures as a JSON envelope. The schema describes the envelope,
// errorToMessage extracts the human-readable message from a decoded envelope,
// and isRetryable classifies the failure (nil means [DefaultRetryable]).
//
// The handler never fails on a bad body. An empty body or one that does not
// decode against the schema degrades to a status-text [Error] without Data.
// In both of those branches isRetryable receives a nil decoded payload: "no
// payload" and "unusable payload" are deliberately indistinguishable to the
// predicate.
func NewJSONErrorResponseHandler[T any](schema codec.Schema[T], errorToMessage func(T) string, isRetryable func(resp *http.Response, decoded *T) bool) ResponseHandler[*Error] {
	return func(ctx context.Context, ex Exchange) (*Error, error) {
		resp := ex.Response
		bodyText, err := readResponseBody(resp)
		if err != nil {
			return nil, err
		}

		retryable := func(decoded *T) bool {
			if isRetryable != nil {
				return isRetryable(resp, decoded)
			}
			return DefaultRetryable(resp)
		}

		if strings.TrimSpace(bodyText) == "" {
			return &Error{
				Message:        statusMessage(resp.StatusCode),
				URL:            ex.URL,
				RequestBody:    ex.RequestBody,
				StatusCode:     resp.StatusCode,
				ResponseHeader: resp.Header,
				ResponseBody:   bodyText,
				Retryable:      retryable(nil),
			}, nil
		}

		result := codec.SafeParseJSON(bodyText, schema)
		if !result.Success {
			return &Error{
				Message:        statusMessage(resp.StatusCode),
				URL:            ex.URL,
				RequestBody:    ex.RequestBody,
				StatusCode:     resp.StatusCode,
				ResponseHeader: resp.Header,
				ResponseBody:   bodyText,
				Retryable:      retryable(nil),
			}, nil
		}

		return &Error{
			Message:        errorToMessage(result.Value),
			URL:            ex.URL,
			RequestBody:    ex.RequestBody,
			StatusCode:     resp.StatusCode,
			ResponseHeader: resp.Header,
			ResponseBody:   bodyText,
			Data:           result.Value,
			Retryable:      retryable(&result.Value),
		}, nil
	}
}

// NewStatusCodeErrorResponseHandler builds an error handler that ignores the
// body's structure entirely: the message is the HTTP status text and the raw
// body is attached for debugging.
func NewStatusCodeErrorResponseHandler() ResponseHandler[*Error] {
	return func(ctx context.Context, ex Exchange) (*Error, error) {
		resp := ex.Response
		bodyText, err := readResponseBody(resp)
		if err != nil {
			return nil, err
		}

		return &Error{
			Message:        statusMessage(resp.StatusCode),
			URL:            ex.URL,
			RequestBody:    ex.RequestBody,
			StatusCode:     resp.StatusCode,
			ResponseHeader: resp.Header,
			ResponseBody:   bodyText,
			Retryable:      DefaultRetryable(resp),
		}, nil
	}
}

// NewTextErrorResponseHandler builds an error handler for APIs that report
// failures as plain text: the body itself becomes the message. HTML error
// pages (the usual shape of gateway and load-balancer failures) are converted
// to readable text first, and long bodies are truncated. An empty body falls
// back to the status text.
func NewTextErrorResponseHandler() ResponseHandler[*Error] {
	return func(ctx context.Context, ex Exchange) (*Error, error) {
		resp := ex.Response
		bodyText, err := readResponseBody(resp)
		if err != nil {
			return nil, err
		}

		message := strings.TrimSpace(bodyText)
		switch {
		case message == "":
			message = statusMessage(resp.StatusCode)
		case isHTMLBody(resp.Header, message):
			if converted, convErr := htmltomarkdown.ConvertString(message); convErr == nil {
				message = strings.TrimSpace(converted)
			}
			message = utils.TruncateStringDefault(message)
		default:
			message = utils.TruncateStringDefault(message)
		}

		return &Error{
			Message:        message,
			URL:            ex.URL,
			RequestBody:    ex.RequestBody,
			StatusCode:     resp.StatusCode,
			ResponseHeader: resp.Header,
			ResponseBody:   bodyText,
			Retryable:      DefaultRetryable(resp),
		}, nil
	}
}

func isHTMLBody(header http.Header, body string) bool {
	if strings.Contains(header.Get("Content-Type"), "text/html") {
		return true
	}
	head := strings.ToLower(body)
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// NewJSONResponseHandler builds a success handler that decodes the body
// against schema. A body that fails to decode or validate is reported as an
// [Error] with the message "Invalid JSON response" and the raw body attached,
// so callers can always see what the API actually sent.
func NewJSONResponseHandler[T any](schema codec.Schema[T]) ResponseHandler[T] {
	return func(ctx context.Context, ex Exchange) (T, error) {
		var zero T
		resp := ex.Response
		bodyText, err := readResponseBody(resp)
		if err != nil {
			return zero, err
		}

		result := codec.SafeParseJSON(bodyText, schema)
		if !result.Success {
			return zero, &Error{
				Message:        "Invalid JSON response",
				URL:            ex.URL,
				RequestBody:    ex.RequestBody,
				StatusCode:     resp.StatusCode,
				ResponseHeader: resp.Header,
				ResponseBody:   bodyText,
				Cause:          result.Err,
			}
		}

		return result.Value, nil
	}
}

// NewEventStreamResponseHandler builds a success handler that hands the
// response body to an [sse.Stream] without reading it. Ownership of the body
// transfers to the stream: the caller must drain or Close it. Events are
// decoded lazily in a single pass and their contents are not validated.
func NewEventStreamResponseHandler(opts ...sse.DecoderOption) ResponseHandler[*sse.Stream] {
	return func(ctx context.Context, ex Exchange) (*sse.Stream, error) {
		if span := observability.SpanFromContext(ctx); span != nil {
			span.AddEvent(observability.EventHTTPStreamStarted,
				observability.Int(observability.AttrHTTPStatusCode, ex.Response.StatusCode),
			)
		}
		return sse.NewStream(ex.Response.Body, opts...), nil
	}
}

// NewTextResponseHandler builds a success handler that returns the body as a
// string.
func NewTextResponseHandler() ResponseHandler[string] {
	return func(ctx context.Context, ex Exchange) (string, error) {
		return readResponseBody(ex.Response)
	}
}

// NewBinaryResponseHandler builds a success handler that returns the raw body
// bytes.
func NewBinaryResponseHandler() ResponseHandler[[]byte] {
	return func(ctx context.Context, ex Exchange) ([]byte, error) {
		defer utils.CloseWithLog(ex.Response.Body)
		data, err := io.ReadAll(io.LimitReader(ex.Response.Body, maxResponseBodySize))
		if err != nil {
			return nil, fmt.Errorf("error reading response body: %w", err)
		}
		return data, nil
	}
}

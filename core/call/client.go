package call

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/leofalp/aicall/core/codec"
	"github.com/leofalp/aicall/core/sse"
	"github.com/leofalp/aicall/internal/utils"
	"github.com/leofalp/aicall/providers/observability"
)

// Client binds the transport functions to one API: a base URL, shared
// headers, an error-handling policy, and optional per-request IDs and
// observability. Methods decode JSON responses into an out pointer; callers
// that need typed generic handlers use the package-level functions directly.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	header       http.Header
	requestID    func() string
	errorHandler ResponseHandler[*Error]
	observer     observability.Provider
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// NewClient creates a Client. Without options it uses http.DefaultClient, no
// base URL, and [NewStatusCodeErrorResponseHandler] for non-2xx responses.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:   http.DefaultClient,
		header:       make(http.Header),
		errorHandler: NewStatusCodeErrorResponseHandler(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBaseURL sets the URL that request paths are resolved against. A
// trailing slash is trimmed.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHeader sets a header sent on every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.header.Set("User-Agent", userAgent)
	}
}

// WithAPIKey sets a Bearer Authorization header. An empty key is ignored, so
// the result of [LoadAPIKey] can be passed straight through.
func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) {
		if apiKey != "" {
			c.header.Set("Authorization", "Bearer "+apiKey)
		}
	}
}

// WithRequestID stamps every request with an X-Request-Id header. A nil
// generator uses uuid.NewString.
func WithRequestID(generate func() string) ClientOption {
	return func(c *Client) {
		if generate == nil {
			generate = uuid.NewString
		}
		c.requestID = generate
	}
}

// WithErrorHandler sets the handler invoked for non-2xx responses.
func WithErrorHandler(handler ResponseHandler[*Error]) ClientOption {
	return func(c *Client) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithObserver attaches an observability provider. Each call gets a span,
// a request counter, and a duration histogram; handlers further down see the
// span through the context.
func WithObserver(observer observability.Provider) ClientOption {
	return func(c *Client) {
		c.observer = observer
	}
}

// PostJSON sends values as a JSON body to path and decodes the JSON response
// into out. A nil out drains and discards the response body.
func (c *Client) PostJSON(ctx context.Context, path string, values any, out any) error {
	url := c.resolveURL(path)
	ctx, finish := c.instrument(ctx, http.MethodPost, url)
	_, err := PostJSON(ctx, c.httpClient, url, c.requestHeader(), values, c.errorHandler, decodeInto(out))
	finish(err)
	return err
}

// Post sends a prepared body to path and decodes the JSON response into out.
// The body's Content-Type comes from the client headers.
func (c *Client) Post(ctx context.Context, path string, body Body, out any) error {
	url := c.resolveURL(path)
	ctx, finish := c.instrument(ctx, http.MethodPost, url)
	_, err := Post(ctx, c.httpClient, url, c.requestHeader(), body, c.errorHandler, decodeInto(out))
	finish(err)
	return err
}

// PostForm sends form as a URL-encoded body to path and decodes the JSON
// response into out.
func (c *Client) PostForm(ctx context.Context, path string, form neturl.Values, out any) error {
	url := c.resolveURL(path)
	ctx, finish := c.instrument(ctx, http.MethodPost, url)
	_, err := PostForm(ctx, c.httpClient, url, c.requestHeader(), form, c.errorHandler, decodeInto(out))
	finish(err)
	return err
}

// Get requests path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	url := c.resolveURL(path)
	ctx, finish := c.instrument(ctx, http.MethodGet, url)
	_, err := Get(ctx, c.httpClient, url, c.requestHeader(), c.errorHandler, decodeInto(out))
	finish(err)
	return err
}

// Stream posts values as JSON to path and returns the response as a lazily
// decoded event stream. Ownership of the stream passes to the caller, who
// must drain or Close it.
func (c *Client) Stream(ctx context.Context, path string, values any, opts ...sse.DecoderOption) (*sse.Stream, error) {
	url := c.resolveURL(path)
	ctx, finish := c.instrument(ctx, http.MethodPost, url)

	header := c.requestHeader()
	header.Set("Accept", "text/event-stream")

	stream, err := PostJSON(ctx, c.httpClient, url, header, values, c.errorHandler, NewEventStreamResponseHandler(opts...))
	finish(err)
	return stream, err
}

func (c *Client) resolveURL(path string) string {
	if c.baseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) requestHeader() http.Header {
	header := c.header.Clone()
	if c.requestID != nil {
		header.Set("X-Request-Id", c.requestID())
	}
	return header
}

// instrument opens a span and request metrics around one call when an
// observer is configured. The returned finish records the outcome; it must be
// called exactly once.
func (c *Client) instrument(ctx context.Context, method, url string) (context.Context, func(error)) {
	if c.observer == nil {
		return ctx, func(error) {}
	}

	ctx = observability.ContextWithObserver(ctx, c.observer)
	ctx, span := c.observer.StartSpan(ctx, observability.SpanCall,
		observability.String(observability.AttrHTTPMethod, method),
		observability.String(observability.AttrHTTPURL, url),
	)
	ctx = observability.ContextWithSpan(ctx, span)

	timer := utils.NewTimer()
	return ctx, func(err error) {
		duration := timer.Stop()

		c.observer.Histogram(observability.MetricRequestDuration).Record(ctx, duration.Seconds(),
			observability.String(observability.AttrHTTPMethod, method),
		)
		c.observer.Counter(observability.MetricRequestCount).Add(ctx, 1)

		if err != nil {
			c.observer.Counter(observability.MetricRequestErrors).Add(ctx, 1)
			span.RecordError(err)
			span.SetStatus(observability.StatusError, err.Error())
			if apiErr, ok := AsError(err); ok {
				span.SetAttributes(
					observability.Int(observability.AttrHTTPStatusCode, apiErr.StatusCode),
					observability.Bool(observability.AttrCallRetryable, apiErr.Retryable),
				)
			}
		} else {
			span.SetStatus(observability.StatusOK, "")
		}
		span.End()
	}
}

// decodeInto adapts an out pointer to a ResponseHandler. A nil out means the
// caller does not care about the body; it is drained so the connection can be
// reused, then discarded.
func decodeInto(out any) ResponseHandler[any] {
	return func(ctx context.Context, ex Exchange) (any, error) {
		if out == nil {
			defer utils.CloseWithLog(ex.Response.Body)
			if _, err := io.Copy(io.Discard, io.LimitReader(ex.Response.Body, maxResponseBodySize)); err != nil {
				return nil, fmt.Errorf("error reading response body: %w", err)
			}
			return nil, nil
		}

		bodyText, err := readResponseBody(ex.Response)
		if err != nil {
			return nil, err
		}
		if parseErr := codec.ParseJSONInto(bodyText, out); parseErr != nil {
			return nil, &Error{
				Message:        "Invalid JSON response",
				URL:            ex.URL,
				RequestBody:    ex.RequestBody,
				StatusCode:     ex.Response.StatusCode,
				ResponseHeader: ex.Response.Header,
				ResponseBody:   bodyText,
				Cause:          parseErr,
			}
		}
		return nil, nil
	}
}

// LoadAPIKey resolves an API key: an explicit value wins, otherwise the
// environment variable is consulted. The description names the service in the
// error when neither is set.
func LoadAPIKey(explicit, envVar, description string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if fromEnv := os.Getenv(envVar); fromEnv != "" {
		return fromEnv, nil
	}
	return "", fmt.Errorf("%s API key is missing: pass it explicitly or set the %s environment variable", description, envVar)
}

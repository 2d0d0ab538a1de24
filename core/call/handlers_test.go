package call

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leofalp/aicall/core/codec"
)

// apiErrorPayload is the JSON error envelope used across handler tests,
// shaped like the {"error": {...}} envelopes most JSON APIs return.
type apiErrorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func rateLimitMessage(payload apiErrorPayload) string {
	return "rate limited: " + payload.Error.Code
}

// trackedBody wraps a body and records whether Close was called, so tests can
// verify handler body ownership.
type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

func newExchange(status int, header http.Header, body string) (Exchange, *trackedBody) {
	if header == nil {
		header = make(http.Header)
	}
	tracked := &trackedBody{Reader: strings.NewReader(body)}
	return Exchange{
		URL:         "https://api.example.com/v1/items",
		RequestBody: map[string]any{"q": "test"},
		Response: &http.Response{
			StatusCode: status,
			Header:     header,
			Body:       tracked,
		},
	}, tracked
}

// ---- NewJSONErrorResponseHandler ---------------------------------------------

// TestNewJSONErrorResponseHandler_DecodesEnvelope verifies the happy path: a
// 429 with a JSON error envelope produces an *Error with the extracted
// message, the decoded payload, and default retryability for the status.
func TestNewJSONErrorResponseHandler_DecodesEnvelope(t *testing.T) {
	handler := NewJSONErrorResponseHandler(codec.Any[apiErrorPayload](), rateLimitMessage, nil)

	header := http.Header{"Retry-After": []string{"2"}}
	ex, body := newExchange(429, header, `{"error":{"code":"rate_limited","message":"slow down"}}`)

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if apiErr.Message != "rate limited: rate_limited" {
		t.Errorf("expected extracted message, got %q", apiErr.Message)
	}
	if apiErr.StatusCode != 429 {
		t.Errorf("expected status 429, got %d", apiErr.StatusCode)
	}
	if !apiErr.Retryable {
		t.Error("expected 429 to be retryable by default")
	}
	if apiErr.ResponseBody != `{"error":{"code":"rate_limited","message":"slow down"}}` {
		t.Errorf("expected raw body preserved, got %q", apiErr.ResponseBody)
	}
	if apiErr.ResponseHeader.Get("Retry-After") != "2" {
		t.Error("expected response headers captured")
	}
	var want apiErrorPayload
	want.Error.Code = "rate_limited"
	want.Error.Message = "slow down"
	if diff := cmp.Diff(want, apiErr.Data); diff != "" {
		t.Errorf("decoded payload mismatch (-want +got):\n%s", diff)
	}
	if !body.closed {
		t.Error("expected the handler to close the response body")
	}
}

// TestNewJSONErrorResponseHandler_EmptyBody verifies graceful degradation: an
// empty body yields the status text with no Data, and never a failure.
func TestNewJSONErrorResponseHandler_EmptyBody(t *testing.T) {
	handler := NewJSONErrorResponseHandler(codec.Any[apiErrorPayload](), rateLimitMessage, nil)

	ex, _ := newExchange(500, nil, "")

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if apiErr.Message != "Internal Server Error" {
		t.Errorf("expected status text message, got %q", apiErr.Message)
	}
	if apiErr.Data != nil {
		t.Errorf("expected no Data for an empty body, got %v", apiErr.Data)
	}
	if !apiErr.Retryable {
		t.Error("expected 500 to be retryable by default")
	}
}

// TestNewJSONErrorResponseHandler_WhitespaceBody verifies that a body of only
// whitespace counts as empty.
func TestNewJSONErrorResponseHandler_WhitespaceBody(t *testing.T) {
	handler := NewJSONErrorResponseHandler(codec.Any[apiErrorPayload](), rateLimitMessage, nil)

	ex, _ := newExchange(503, nil, "  \n\t ")

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if apiErr.Message != "Service Unavailable" {
		t.Errorf("expected status text message, got %q", apiErr.Message)
	}
	if apiErr.Data != nil {
		t.Error("expected no Data for a whitespace body")
	}
}

// TestNewJSONErrorResponseHandler_MalformedBody verifies that an unparseable
// body degrades exactly like an empty one: status text, no Data, raw body
// still attached for debugging.
func TestNewJSONErrorResponseHandler_MalformedBody(t *testing.T) {
	handler := NewJSONErrorResponseHandler(codec.Any[apiErrorPayload](), rateLimitMessage, nil)

	ex, _ := newExchange(400, nil, "<oops, not json")

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if apiErr.Message != "Bad Request" {
		t.Errorf("expected status text message, got %q", apiErr.Message)
	}
	if apiErr.Data != nil {
		t.Error("expected no Data for a malformed body")
	}
	if apiErr.ResponseBody != "<oops, not json" {
		t.Errorf("expected raw body preserved, got %q", apiErr.ResponseBody)
	}
	if apiErr.Retryable {
		t.Error("expected 400 to not be retryable by default")
	}
}

// TestNewJSONErrorResponseHandler_SchemaMismatchDegrades verifies that valid
// JSON failing schema validation takes the same degraded path as malformed
// JSON.
func TestNewJSONErrorResponseHandler_SchemaMismatchDegrades(t *testing.T) {
	type strictPayload struct {
		Code string `json:"code"`
	}
	handler := NewJSONErrorResponseHandler(codec.StructSchema[strictPayload](), func(p strictPayload) string {
		return p.Code
	}, nil)

	// Valid JSON, but missing the required "code" field.
	ex, _ := newExchange(422, nil, `{"unexpected":"shape"}`)

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if apiErr.Message != "Unprocessable Entity" {
		t.Errorf("expected status text message, got %q", apiErr.Message)
	}
	if apiErr.Data != nil {
		t.Error("expected no Data when schema validation fails")
	}
}

// TestNewJSONErrorResponseHandler_NilPayloadInDegradedBranches pins the
// isRetryable contract: the predicate sees a nil payload both when the body
// is empty and when it fails to decode, and the decoded payload otherwise.
func TestNewJSONErrorResponseHandler_NilPayloadInDegradedBranches(t *testing.T) {
	var seen []*apiErrorPayload
	predicate := func(resp *http.Response, decoded *apiErrorPayload) bool {
		seen = append(seen, decoded)
		return false
	}
	handler := NewJSONErrorResponseHandler(codec.Any[apiErrorPayload](), rateLimitMessage, predicate)

	bodies := []string{"", "not json at all", `{"error":{"code":"bad_request"}}`}
	for _, body := range bodies {
		ex, _ := newExchange(400, nil, body)
		if _, err := handler(context.Background(), ex); err != nil {
			t.Fatalf("body %q: unexpected handler error %v", body, err)
		}
	}

	if len(seen) != 3 {
		t.Fatalf("expected the predicate to run once per response, got %d", len(seen))
	}
	if seen[0] != nil {
		t.Error("expected nil payload for the empty body")
	}
	if seen[1] != nil {
		t.Error("expected nil payload for the malformed body")
	}
	if seen[2] == nil {
		t.Fatal("expected the decoded payload for the valid envelope")
	}
	if seen[2].Error.Code != "bad_request" {
		t.Errorf("expected decoded code, got %+v", seen[2])
	}
}

// TestNewJSONErrorResponseHandler_CustomPredicateOverridesDefault verifies a
// supplied isRetryable wins over the status-code classification.
func TestNewJSONErrorResponseHandler_CustomPredicateOverridesDefault(t *testing.T) {
	alwaysRetry := func(resp *http.Response, decoded *apiErrorPayload) bool { return true }
	handler := NewJSONErrorResponseHandler(codec.Any[apiErrorPayload](), rateLimitMessage, alwaysRetry)

	// 400 is not retryable by default.
	ex, _ := newExchange(400, nil, "")

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if !apiErr.Retryable {
		t.Error("expected the custom predicate to mark the error retryable")
	}
}

// ---- other error handlers ------------------------------------------------------

// TestNewStatusCodeErrorResponseHandler verifies the schema-free handler:
// status text message with the raw body attached.
func TestNewStatusCodeErrorResponseHandler(t *testing.T) {
	handler := NewStatusCodeErrorResponseHandler()

	ex, body := newExchange(404, nil, `{"detail":"gone"}`)

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if apiErr.Message != "Not Found" {
		t.Errorf("expected status text, got %q", apiErr.Message)
	}
	if apiErr.ResponseBody != `{"detail":"gone"}` {
		t.Errorf("expected raw body attached, got %q", apiErr.ResponseBody)
	}
	if !body.closed {
		t.Error("expected the handler to close the response body")
	}
}

// TestNewTextErrorResponseHandler_PlainText verifies the body text becomes
// the message.
func TestNewTextErrorResponseHandler_PlainText(t *testing.T) {
	handler := NewTextErrorResponseHandler()

	ex, _ := newExchange(403, nil, "quota exhausted for this billing period")

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if apiErr.Message != "quota exhausted for this billing period" {
		t.Errorf("expected body as message, got %q", apiErr.Message)
	}
}

// TestNewTextErrorResponseHandler_EmptyBodyFallsBack verifies the status text
// fallback.
func TestNewTextErrorResponseHandler_EmptyBodyFallsBack(t *testing.T) {
	handler := NewTextErrorResponseHandler()

	ex, _ := newExchange(502, nil, "")

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if apiErr.Message != "Bad Gateway" {
		t.Errorf("expected status text fallback, got %q", apiErr.Message)
	}
	if !apiErr.Retryable {
		t.Error("expected 502 to be retryable")
	}
}

// TestNewTextErrorResponseHandler_HTMLBodyConverted verifies that an HTML
// error page is converted to readable text instead of being used raw.
func TestNewTextErrorResponseHandler_HTMLBodyConverted(t *testing.T) {
	handler := NewTextErrorResponseHandler()

	header := http.Header{"Content-Type": []string{"text/html; charset=utf-8"}}
	page := "<html><head><title>error</title></head><body><h1>502 Bad Gateway</h1><p>nginx</p></body></html>"
	ex, _ := newExchange(502, header, page)

	apiErr, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no handler error, got %v", err)
	}
	if !strings.Contains(apiErr.Message, "502 Bad Gateway") {
		t.Errorf("expected converted text to keep the page content, got %q", apiErr.Message)
	}
	if strings.Contains(apiErr.Message, "<h1>") {
		t.Errorf("expected HTML tags stripped, got %q", apiErr.Message)
	}
	if apiErr.ResponseBody != page {
		t.Error("expected the raw HTML preserved on ResponseBody")
	}
}

// ---- success handlers ----------------------------------------------------------

// TestNewJSONResponseHandler_ValidPayload verifies decode and validation of a
// successful response.
func TestNewJSONResponseHandler_ValidPayload(t *testing.T) {
	type completion struct {
		ID     string `json:"id"`
		Output string `json:"output"`
	}
	handler := NewJSONResponseHandler(codec.StructSchema[completion]())

	ex, body := newExchange(200, nil, `{"id":"cmpl_1","output":"hello"}`)

	value, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if value.ID != "cmpl_1" || value.Output != "hello" {
		t.Errorf("expected decoded payload, got %+v", value)
	}
	if !body.closed {
		t.Error("expected the handler to close the response body")
	}
}

// TestNewJSONResponseHandler_InvalidJSON verifies the contract for a 2xx
// response that is not JSON: an *Error with the message "Invalid JSON
// response" carrying the raw body.
func TestNewJSONResponseHandler_InvalidJSON(t *testing.T) {
	type completion struct {
		ID string `json:"id"`
	}
	handler := NewJSONResponseHandler(codec.StructSchema[completion]())

	ex, _ := newExchange(200, nil, "not json")

	_, err := handler(context.Background(), ex)
	if err == nil {
		t.Fatal("expected an error for a non-JSON body")
	}
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected an *Error, got %T", err)
	}
	if apiErr.Message != "Invalid JSON response" {
		t.Errorf("expected 'Invalid JSON response', got %q", apiErr.Message)
	}
	if apiErr.ResponseBody != "not json" {
		t.Errorf("expected raw body preserved, got %q", apiErr.ResponseBody)
	}
	var parseErr *codec.ParseError
	if !errors.As(err, &parseErr) {
		t.Error("expected the cause chain to contain the parse error")
	}
}

// TestNewJSONResponseHandler_SchemaViolation verifies that structurally valid
// JSON failing validation is also reported as an invalid JSON response.
func TestNewJSONResponseHandler_SchemaViolation(t *testing.T) {
	type completion struct {
		ID string `json:"id"`
	}
	handler := NewJSONResponseHandler(codec.StructSchema[completion]())

	ex, _ := newExchange(200, nil, `{"unrelated":true}`)

	_, err := handler(context.Background(), ex)
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected an *Error, got %v", err)
	}
	if apiErr.Message != "Invalid JSON response" {
		t.Errorf("expected 'Invalid JSON response', got %q", apiErr.Message)
	}
}

// TestNewEventStreamResponseHandler verifies the body is handed to a lazy
// stream without being read, and that draining the stream closes it.
func TestNewEventStreamResponseHandler(t *testing.T) {
	handler := NewEventStreamResponseHandler()

	raw := "data: {\"n\":1}\n\ndata: {\"n\":2}\n\n"
	ex, body := newExchange(200, nil, raw)

	stream, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if body.closed {
		t.Fatal("expected the body to stay open until the stream is consumed")
	}

	events, err := stream.Collect()
	if err != nil {
		t.Fatalf("expected clean stream end, got %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Data != `{"n":1}` || events[1].Data != `{"n":2}` {
		t.Errorf("expected event payloads in order, got %+v", events)
	}
	if !body.closed {
		t.Error("expected the stream to close the body after consumption")
	}
}

// TestNewTextResponseHandler verifies the body comes back as a string.
func TestNewTextResponseHandler(t *testing.T) {
	handler := NewTextResponseHandler()

	ex, body := newExchange(200, nil, "plain text result")

	value, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if value != "plain text result" {
		t.Errorf("expected body text, got %q", value)
	}
	if !body.closed {
		t.Error("expected the handler to close the response body")
	}
}

// TestNewBinaryResponseHandler verifies raw bytes pass through untouched.
func TestNewBinaryResponseHandler(t *testing.T) {
	handler := NewBinaryResponseHandler()

	ex, body := newExchange(200, nil, "\x89PNG\r\n")

	value, err := handler(context.Background(), ex)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(value) != "\x89PNG\r\n" {
		t.Errorf("expected raw bytes, got %q", value)
	}
	if !body.closed {
		t.Error("expected the handler to close the response body")
	}
}

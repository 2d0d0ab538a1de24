// Package call wraps HTTP POST calls to JSON and event-stream APIs with
// uniform error handling.
//
// The transport functions [Post], [PostJSON], [Get], and [PostForm] perform a
// single request and delegate response interpretation to a pair of
// [ResponseHandler] values: one for non-2xx responses, one for success. Every
// failure surfaces as a single error type, [Error], regardless of whether it
// came from the network, the HTTP status, the response payload, or a handler
// itself. Context cancellation is the one exception: the caller's own
// ctx.Err() is always returned verbatim so that cancellation never masquerades
// as an API failure.
//
// Error handlers are built with [NewJSONErrorResponseHandler], which decodes a
// provider's error envelope and degrades gracefully when the body is empty or
// malformed. Success handlers include [NewJSONResponseHandler] for
// schema-validated JSON payloads and [NewEventStreamResponseHandler] for
// server-sent event streams.
//
// [Client] layers base-URL resolution, shared headers, API-key loading,
// request IDs, and observability on top of the transport functions for
// callers that talk to one API repeatedly.
package call

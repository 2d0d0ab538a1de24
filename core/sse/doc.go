// Package sse frames Server-Sent-Events from a continuous text stream.
//
// [Decoder] turns any io.Reader into discrete [Event] values following the
// SSE wire format: "data:", "event:" and "id:" fields, ":" comment lines, and
// blank-line event boundaries. Multi-line data fields are joined with
// newlines. [Stream] layers a single-pass, forward-only view over a response
// body, exposing both a pull API ([Stream.Next]) and a range-over-func
// iterator ([Stream.Events]), and owns the release of the underlying
// connection via [Stream.Close].
package sse

package sse

// Event is a single Server-Sent Event as framed from the wire.
//
// Type carries the "event:" field and is empty for unnamed events. Data
// carries the "data:" payload; when an event spans multiple data lines they
// are joined with "\n". ID carries the "id:" field when the server sets one.
// "retry:" fields and comment lines are consumed by the decoder and never
// surface here. No interpretation is applied to Data; decoding payloads is a
// caller concern layered on top.
type Event struct {
	Type string
	Data string
	ID   string
}

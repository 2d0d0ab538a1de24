package sse

import (
	"io"
	"iter"
	"sync"
)

// Stream is a single-pass, forward-only sequence of Server-Sent Events read
// from a live response body. It is not restartable: once consumed (or closed)
// the underlying connection is gone. Consumption may block once per event for
// the lifetime of the connection.
//
// Important: callers must either drain the stream or call Close. The stream
// holds the HTTP response body open, and the connection is only released when
// the body is exhausted or closed. Close is safe to call multiple times and
// safe to combine with a deferred call around an Events loop.
type Stream struct {
	dec  *Decoder
	body io.ReadCloser

	closeOnce sync.Once
	closeErr  error
}

// NewStream wraps body in a Stream. The Stream takes ownership of body and
// releases it on Close or when iteration ends.
func NewStream(body io.ReadCloser, opts ...DecoderOption) *Stream {
	return &Stream{dec: NewDecoder(body, opts...), body: body}
}

// Next returns the next event. It returns io.EOF once the stream is
// exhausted; any other error is a transport or framing failure.
func (s *Stream) Next() (*Event, error) {
	event, err := s.dec.Next()
	if err != nil {
		// The stream is done, successfully or not; release the connection.
		_ = s.Close()
		return nil, err
	}
	return event, nil
}

// Events returns a range-over-func iterator over the remaining events.
// Normal end of stream terminates the loop without yielding io.EOF; any other
// failure is yielded once with a zero Event, then the loop ends. Breaking out
// of the loop early closes the stream.
func (s *Stream) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		defer func() { _ = s.Close() }()
		for {
			event, err := s.dec.Next()
			if err != nil {
				if err != io.EOF {
					yield(Event{}, err)
				}
				return
			}
			if !yield(*event, nil) {
				return
			}
		}
	}
}

// Collect drains the stream and returns all remaining events. On failure it
// returns the events read so far together with the error.
func (s *Stream) Collect() ([]Event, error) {
	var events []Event
	for event, err := range s.Events() {
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
	return events, nil
}

// Close releases the underlying response body. It is idempotent; repeated
// calls return the first close error.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

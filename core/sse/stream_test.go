package sse

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// trackedBody wraps a reader and records whether Close was called, standing
// in for an HTTP response body.
type trackedBody struct {
	io.Reader
	closes int
}

func (b *trackedBody) Close() error {
	b.closes++
	return nil
}

// TestStream_NextThenEOF verifies pull-style consumption and that exhausting
// the stream releases the body.
func TestStream_NextThenEOF(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader("data: one\n\ndata: two\n\n")}
	stream := NewStream(body)

	first, err := stream.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if first.Data != "one" {
		t.Errorf("first.Data = %q", first.Data)
	}

	second, err := stream.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if second.Data != "two" {
		t.Errorf("second.Data = %q", second.Data)
	}

	if _, err := stream.Next(); err != io.EOF {
		t.Fatalf("Next() = %v, want io.EOF", err)
	}
	if body.closes == 0 {
		t.Error("exhausting the stream should close the body")
	}
}

// TestStream_EventsIteration verifies the range-over-func iterator yields all
// events and closes the body when the loop completes.
func TestStream_EventsIteration(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader("data: a\n\ndata: b\n\ndata: c\n\n")}
	stream := NewStream(body)

	var got []string
	for event, err := range stream.Events() {
		if err != nil {
			t.Fatalf("iteration error = %v", err)
		}
		got = append(got, event.Data)
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if body.closes == 0 {
		t.Error("completed iteration should close the body")
	}
}

// TestStream_BreakClosesBody verifies that abandoning the loop early still
// releases the underlying connection.
func TestStream_BreakClosesBody(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader("data: a\n\ndata: b\n\n")}
	stream := NewStream(body)

	for range stream.Events() {
		break
	}

	if body.closes == 0 {
		t.Error("breaking out of iteration should close the body")
	}
}

// TestStream_Collect verifies that Collect drains the stream in order.
func TestStream_Collect(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader("event: x\ndata: 1\n\ndata: 2\n\n")}
	stream := NewStream(body)

	events, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	want := []Event{{Type: "x", Data: "1"}, {Data: "2"}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}
}

// TestStream_CloseIdempotent verifies that repeated Close calls are safe and
// close the body exactly once.
func TestStream_CloseIdempotent(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader("data: a\n\n")}
	stream := NewStream(body)

	if err := stream.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if body.closes != 1 {
		t.Errorf("body closed %d times, want exactly once", body.closes)
	}
}

// TestStream_SentinelOption verifies that decoder options flow through
// NewStream.
func TestStream_SentinelOption(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader("data: a\n\ndata: [DONE]\n\n")}
	stream := NewStream(body, WithEndSentinel("[DONE]"))

	events, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(events) != 1 || events[0].Data != "a" {
		t.Errorf("Collect() = %+v, want single event before sentinel", events)
	}
}

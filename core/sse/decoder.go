package sse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// defaultMaxLineSize is the maximum size of a single SSE line (1 MB).
// The default bufio.Scanner limit is 64 KiB, which is too small for large
// events such as tool-call arguments or long completions. If a line exceeds
// the limit the decoder returns a wrapped bufio.ErrTooLong from Next.
const defaultMaxLineSize = 1 * 1024 * 1024

// DecoderOption customizes a Decoder.
type DecoderOption func(*decoderConfig)

type decoderConfig struct {
	maxLineSize int
	endSentinel string
}

// WithMaxLineSize overrides the per-line size limit. Values below the bufio
// default of 64 KiB are raised to it.
func WithMaxLineSize(n int) DecoderOption {
	return func(c *decoderConfig) {
		if n > 0 {
			c.maxLineSize = n
		}
	}
}

// WithEndSentinel treats a data line equal to sentinel as the end of the
// stream: the decoder returns io.EOF instead of emitting it. OpenAI-style
// APIs terminate their streams with "[DONE]". No sentinel is configured by
// default.
func WithEndSentinel(sentinel string) DecoderOption {
	return func(c *decoderConfig) {
		c.endSentinel = sentinel
	}
}

// Decoder reads Server-Sent Events from an io.Reader. It handles multi-line
// data fields, named events, event IDs, and comment lines, and optionally
// recognizes an end-of-stream sentinel.
type Decoder struct {
	scanner     *bufio.Scanner
	endSentinel string
}

// NewDecoder creates a Decoder reading SSE events from reader.
func NewDecoder(reader io.Reader, opts ...DecoderOption) *Decoder {
	cfg := decoderConfig{maxLineSize: defaultMaxLineSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxLineSize < 64*1024 {
		cfg.maxLineSize = 64 * 1024
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), cfg.maxLineSize)
	return &Decoder{scanner: scanner, endSentinel: cfg.endSentinel}
}

// Next returns the next event from the stream. It returns io.EOF when the
// stream ends or when the configured end sentinel is seen. Events with no
// fields (comment-only or empty blocks) are skipped rather than emitted.
//
// A blank line terminates the pending event. When the underlying stream ends
// with fields accumulated but no trailing blank line, those fields are
// emitted as a final event before io.EOF.
func (d *Decoder) Next() (*Event, error) {
	var event Event
	var dataLines []string
	seenField := false

	flush := func() *Event {
		event.Data = strings.Join(dataLines, "\n")
		return &event
	}

	for d.scanner.Scan() {
		line := d.scanner.Text()

		// Blank line marks the end of an event block.
		if line == "" {
			if seenField {
				return flush(), nil
			}
			continue
		}

		// Comment lines start with a colon and carry no data.
		if strings.HasPrefix(line, ":") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if d.endSentinel != "" && data == d.endSentinel {
				return nil, io.EOF
			}
			dataLines = append(dataLines, data)
			seenField = true

		case strings.HasPrefix(line, "event:"):
			event.Type = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			seenField = true

		case strings.HasPrefix(line, "id:"):
			event.ID = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
			seenField = true
		}
		// Other fields (retry: and unknown names) are ignored.
	}

	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("SSE decode error: %w", err)
	}

	if seenField {
		return flush(), nil
	}
	return nil, io.EOF
}

// Command aicall posts JSON to an HTTP API and prints the response, either as
// a decoded JSON document or as a live Server-Sent-Events stream. It is a
// debugging companion for the library: the same handlers, error shapes, and
// retry behavior, driven from flags.
//
//	aicall -url https://api.openai.com/v1/chat/completions \
//	    -H "Content-Type: application/json" \
//	    -d '{"model":"gpt-4o-mini","messages":[{"role":"user","content":"hi"}]}'
//
// An AICALL_API_KEY environment variable (also read from .env) becomes a
// bearer token unless an Authorization header is given explicitly.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/leofalp/aicall/core/call"
	"github.com/leofalp/aicall/core/codec"
	"github.com/leofalp/aicall/core/retry"
	"github.com/leofalp/aicall/core/sse"
	"github.com/leofalp/aicall/internal/utils"

	_ "github.com/joho/godotenv/autoload"
)

// headerFlags collects repeatable -H "Key: Value" flags.
type headerFlags []string

func (h *headerFlags) String() string { return strings.Join(*h, "; ") }

func (h *headerFlags) Set(value string) error {
	if !strings.Contains(value, ":") {
		return fmt.Errorf("header %q is not in Key: Value form", value)
	}
	*h = append(*h, value)
	return nil
}

func main() {
	var headers headerFlags
	var (
		url      = flag.String("url", "", "Request URL (required)")
		data     = flag.String("d", "", "JSON request body; empty sends a GET instead")
		stream   = flag.Bool("stream", false, "Consume the response as a Server-Sent-Events stream")
		sentinel = flag.String("sentinel", "[DONE]", "Data payload that ends a stream; empty disables")
		timeout  = flag.Duration("timeout", 2*time.Minute, "Overall request timeout")
		retries  = flag.Int("retries", 0, "Retry attempts for retryable failures")
	)
	flag.Var(&headers, "H", "Request header in Key: Value form (repeatable)")
	flag.Parse()

	if *url == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	header := make(http.Header)
	for _, raw := range headers {
		key, value, _ := strings.Cut(raw, ":")
		header.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if apiKey := os.Getenv("AICALL_API_KEY"); apiKey != "" && header.Get("Authorization") == "" {
		header.Set("Authorization", "Bearer "+apiKey)
	}

	if *stream {
		if err := runStream(ctx, *url, header, *data, *sentinel); err != nil {
			log.Fatalf("stream failed: %v", err)
		}
		return
	}

	if err := runCall(ctx, *url, header, *data, *retries); err != nil {
		log.Fatalf("request failed: %v", err)
	}
}

// runCall performs a single JSON request and pretty-prints the decoded
// response. The -d payload is sent as-is, so it must already be valid JSON.
func runCall(ctx context.Context, url string, header http.Header, data string, retries int) error {
	onError := call.NewStatusCodeErrorResponseHandler()
	onSuccess := call.NewJSONResponseHandler(codec.Any[any]())

	op := func(ctx context.Context) (any, error) {
		if data == "" {
			return call.Get(ctx, http.DefaultClient, url, header, onError, onSuccess)
		}
		return call.PostJSON(ctx, http.DefaultClient, url, header, json.RawMessage(data), onError, onSuccess)
	}

	var value any
	var err error
	if retries > 0 {
		value, err = retry.Do(ctx, retry.Config{MaxRetries: retries}, op)
	} else {
		value, err = op(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Println(utils.JSONToString(value, true))
	return nil
}

// runStream performs the request and prints each event as it arrives.
func runStream(ctx context.Context, url string, header http.Header, data, sentinel string) error {
	header = header.Clone()
	header.Set("Accept", "text/event-stream")

	var opts []sse.DecoderOption
	if sentinel != "" {
		opts = append(opts, sse.WithEndSentinel(sentinel))
	}

	onError := call.NewStatusCodeErrorResponseHandler()
	onSuccess := call.NewEventStreamResponseHandler(opts...)

	var stream *sse.Stream
	var err error
	if data == "" {
		stream, err = call.Get(ctx, http.DefaultClient, url, header, onError, onSuccess)
	} else {
		stream, err = call.PostJSON(ctx, http.DefaultClient, url, header, json.RawMessage(data), onError, onSuccess)
	}
	if err != nil {
		return err
	}

	count := 0
	for event, err := range stream.Events() {
		if err != nil {
			return err
		}
		count++
		if event.Type != "" {
			fmt.Printf("[%s] %s\n", event.Type, event.Data)
		} else {
			fmt.Println(event.Data)
		}
	}

	fmt.Fprintf(os.Stderr, "stream closed after %d events\n", count)
	return nil
}

package codec

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/aicall/internal/utils"
)

// maxErrorTextPreview bounds how much of the offending text is embedded in a
// ParseError message. The full text stays available on the Text field.
const maxErrorTextPreview = 200

// ParseError reports that a piece of text could not be decoded into the
// requested type, either because it is not valid JSON or because the decoded
// value failed schema validation. It always carries the original text and the
// underlying cause.
type ParseError struct {
	// Text is the complete original input, untruncated.
	Text string
	// Cause is the JSON syntax error or the schema validation error.
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode JSON: %v (text: %s)", e.Cause, utils.TruncateString(e.Text, maxErrorTextPreview))
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Result is the outcome of a non-failing decode attempt. Exactly one of the
// two arms is populated: Success true with Value, or Success false with Err.
// Raw always carries the original text so failure handlers can preserve it.
type Result[T any] struct {
	Success bool
	Value   T
	Err     error
	Raw     string
}

// ParseJSON decodes text as JSON into T and validates the result against
// schema. Any failure returns a [*ParseError] carrying the original text and
// the underlying cause. An empty string is not special-cased: it fails JSON
// parsing like any other malformed input, so callers that need empty-body
// handling must check before decoding.
func ParseJSON[T any](text string, schema Schema[T]) (T, error) {
	var value T
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return value, &ParseError{Text: text, Cause: err}
	}
	if schema != nil {
		if err := schema.Validate(value); err != nil {
			return value, &ParseError{Text: text, Cause: err}
		}
	}
	return value, nil
}

// SafeParseJSON is the non-failing variant of [ParseJSON]. It always returns
// a [Result]; it never panics and never reports the failure out-of-band.
func SafeParseJSON[T any](text string, schema Schema[T]) Result[T] {
	value, err := ParseJSON(text, schema)
	if err != nil {
		return Result[T]{Success: false, Err: err, Raw: text}
	}
	return Result[T]{Success: true, Value: value, Raw: text}
}

// ParseJSONInto decodes text into out, which must be a non-nil pointer. It is
// the reflection-free counterpart of [ParseJSON] for callers whose target type
// is only known at runtime; no schema validation is applied. Failures are
// reported as a [*ParseError] carrying the original text.
func ParseJSONInto(text string, out any) error {
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &ParseError{Text: text, Cause: err}
	}
	return nil
}

// ParseJSONLenient decodes like [ParseJSON] but, when the text fails JSON
// parsing, repairs common syntax damage (single quotes, trailing commas,
// unquoted keys) with jsonrepair and retries once. Schema validation is never
// relaxed. The returned [*ParseError] on failure carries the original,
// unrepaired text.
func ParseJSONLenient[T any](text string, schema Schema[T]) (T, error) {
	var value T
	err := json.Unmarshal([]byte(text), &value)
	if err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return value, &ParseError{Text: text, Cause: fmt.Errorf("unmarshal error: %w, repair error: %v", err, repairErr)}
		}
		if err = json.Unmarshal([]byte(repaired), &value); err != nil {
			return value, &ParseError{Text: text, Cause: err}
		}
	}
	if schema != nil {
		if err := schema.Validate(value); err != nil {
			return value, &ParseError{Text: text, Cause: err}
		}
	}
	return value, nil
}

// RepairJSON fixes common JSON syntax damage in text and returns the repaired
// document. It is a thin wrapper around jsonrepair, exposed for callers that
// want the repaired text itself rather than a decoded value.
func RepairJSON(text string) (string, error) {
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return "", fmt.Errorf("failed to repair JSON: %w", err)
	}
	return repaired, nil
}

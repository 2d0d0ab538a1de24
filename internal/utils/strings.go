package utils

import (
	"encoding/json"
	"fmt"
)

// DefaultMaxStringLength bounds payload previews embedded in error messages
// and log attributes when no explicit limit is given.
const DefaultMaxStringLength = 500

// JSONToString renders object as JSON for logs and CLI output. Pass true to
// pretty-print with two-space indentation. A marshalling failure comes back
// as a small JSON error document instead of panicking, so the result is
// always printable.
func JSONToString(object any, indent ...bool) string {
	pretty := len(indent) > 0 && indent[0]

	var encoded []byte
	var err error
	if pretty {
		encoded, err = json.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = json.Marshal(object)
	}
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, "failed to marshal to JSON: "+err.Error())
	}
	return string(encoded)
}

// ToString is shorthand for [JSONToString] without indentation.
func ToString(object any) string {
	return JSONToString(object)
}

// TruncateString caps s at maxLen bytes for embedding in error messages and
// span attributes. Longer inputs are cut and suffixed with the original
// length so readers know how much was dropped. A maxLen of zero or less
// falls back to [DefaultMaxStringLength].
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}

// TruncateStringDefault truncates s at [DefaultMaxStringLength].
func TruncateStringDefault(s string) string {
	return TruncateString(s, DefaultMaxStringLength)
}

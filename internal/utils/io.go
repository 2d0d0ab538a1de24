package utils

import (
	"io"
	"log/slog"
)

// CloseWithLog closes c and logs a warning when the close fails. It exists so
// that deferred response-body closes do not silently drop errors and do not
// override the primary error already being returned by the caller.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}

package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog.LevelDebug and is used by Observer.Trace for
// very verbose output such as full request and response bodies.
const LevelTrace = slog.LevelDebug - 4

// levelEnvVars are consulted in order by GetLogLevelFromEnv.
var levelEnvVars = []string{"AICALL_LOG_LEVEL", "LOG_LEVEL"}

// levelNames maps the accepted spellings to levels. Parsing is
// case-insensitive; WARNING is an alias for WARN.
var levelNames = map[string]slog.Level{
	"TRACE":   LevelTrace,
	"DEBUG":   slog.LevelDebug,
	"INFO":    slog.LevelInfo,
	"WARN":    slog.LevelWarn,
	"WARNING": slog.LevelWarn,
	"ERROR":   slog.LevelError,
}

// GetLogLevelFromEnv resolves the minimum log level from AICALL_LOG_LEVEL,
// then LOG_LEVEL, defaulting to INFO when neither is set.
func GetLogLevelFromEnv() slog.Level {
	for _, name := range levelEnvVars {
		if value := os.Getenv(name); value != "" {
			return ParseLogLevel(value)
		}
	}
	return slog.LevelInfo
}

// ParseLogLevel converts a level name (TRACE, DEBUG, INFO, WARN, WARNING,
// ERROR; any case, surrounding space ignored) to its slog.Level. Unknown
// names fall back to INFO with a warning on stderr; an empty string is INFO
// without the warning.
func ParseLogLevel(level string) slog.Level {
	normalized := strings.ToUpper(strings.TrimSpace(level))
	if normalized == "" {
		return slog.LevelInfo
	}
	if parsed, ok := levelNames[normalized]; ok {
		return parsed
	}

	fmt.Fprintf(os.Stderr, "Warning: Unknown log level '%s', using INFO\n", level)
	return slog.LevelInfo
}

// LogLevelString names a level for display, including the custom TRACE.
func LogLevelString(level slog.Level) string {
	switch level {
	case LevelTrace:
		return "TRACE"
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

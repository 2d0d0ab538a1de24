// Package slogobs provides an observability.Provider implementation backed by
// Go's standard library log/slog package.
// Spans are logged as start/end event pairs with their accumulated attributes,
// metrics are kept in memory and logged on every update, and log calls map
// directly to slog levels (with Trace below Debug).
// The main entry point is [New]; behaviour can be tuned with [WithLogger],
// [WithLevel], and [WithOutput]. The minimum level defaults to the
// AICALL_LOG_LEVEL environment variable, read by [GetLogLevelFromEnv].
package slogobs

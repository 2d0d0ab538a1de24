// Package utils provides shared low-level helpers used throughout the aicall
// internals. It covers resource cleanup, generic pointer and string
// utilities, and a simple elapsed-time timer.
//
// Key entry points: [CloseWithLog] for closing response bodies without losing
// close failures, [TruncateString] for bounding raw payloads embedded in
// errors and log output, [Ptr] for converting values to pointers, and [Timer]
// for measuring latency.
package utils

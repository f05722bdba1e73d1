// Package logx wraps zerolog behind a small structured logging API with
// hot-swappable sinks (console, file, and a rate-limited Telegram chat).
//
// Loggers derived from a Service stay "live": Service.Apply() can change
// level and outputs at runtime without re-wiring callers.
package logx

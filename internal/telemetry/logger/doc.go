// Package logger provides structured logging for civ7save.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler setup and dynamic level
//   - context.go: context-carried loggers and request IDs
//   - redact.go: shortening of byte payloads and masking of secrets
//
// Decoded saves carry large opaque byte ranges; the redaction hook keeps
// them out of log lines.
package logger

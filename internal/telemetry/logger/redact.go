package logger

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// MaxBytesAttr is the longest byte slice logged verbatim. Longer slices
// are replaced by their length.
const MaxBytesAttr = 64

// sensitiveKeys are attribute keys whose values are never logged.
var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"authorization",
	"credential",
}

const redactedValue = "***REDACTED***"

// redact rewrites one attribute before it reaches the handler.
func redact(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if a.Value.String() != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindAny:
		if n, ok := byteLen(a.Value.Any()); ok && n > MaxBytesAttr {
			return slog.String(a.Key, fmt.Sprintf("<%d bytes>", n))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redact(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// byteLen reports the length of v if it is a byte slice, including named
// byte slice types.
func byteLen(v any) (int, bool) {
	if b, ok := v.([]byte); ok {
		return len(b), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Len(), true
	}
	return 0, false
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeys {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// Bytes returns an attribute for a byte payload, shortened when longer than
// MaxBytesAttr.
func Bytes(key string, b []byte) slog.Attr {
	if len(b) > MaxBytesAttr {
		return slog.String(key, fmt.Sprintf("<%d bytes>", len(b)))
	}
	return slog.Any(key, b)
}

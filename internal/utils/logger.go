package utils

import (
	"context"
	"fmt"
	"log"
	"strings"
)

type requestIDKey struct{}

// WithRequestID stores the request id so service-level logs can carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}

// LogEventf is LogEvent with the request id taken from ctx and a formatted message.
func LogEventf(ctx context.Context, module, action, format string, args ...any) {
	LogEvent(RequestID(ctx), module, action, fmt.Sprintf(format, args...))
}

package logger

import "context"

type contextKey string

// contextFields are the keys WithContext copies from a context, in order.
var contextFields = []string{FieldRequestID, FieldTraceID, FieldSpanID}

// ContextWithField stores value under key for WithContext. Only
// FieldRequestID, FieldTraceID and FieldSpanID are read back.
func ContextWithField(ctx context.Context, key, value string) context.Context {
	return context.WithValue(ctx, contextKey(key), value)
}

// FieldFromContext returns the value stored under key, or "".
func FieldFromContext(ctx context.Context, key string) string {
	v, _ := ctx.Value(contextKey(key)).(string)
	return v
}

// WithContext returns a logger carrying the request and trace identifiers
// stored in ctx. Empty values are skipped.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.logger.With()
	for _, key := range contextFields {
		if v := FieldFromContext(ctx, key); v != "" {
			zc = zc.Str(key, v)
		}
	}
	return &Logger{logger: zc.Logger(), service: l.service}
}

// Package requestcontext carries request-scoped values (request id, client IP,
// request time) so services can read them without importing net/http.
// Middleware sets them; tests set them directly with the With* functions.
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	requestIDKey key = iota
	clientIPKey
	requestTimeKey
)

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// Now is the time the request started, so every timestamp written while
// serving one request agrees. Outside a request it is the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}

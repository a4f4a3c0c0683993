// Package requesttime captures one timestamp per request so review and upload
// timestamps written during a request agree with each other.
package requesttime

import (
	"net/http"
	"time"

	"kycflow/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

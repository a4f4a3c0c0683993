package testutil

import (
	"net/http"
	"time"

	"kycflow/pkg/requestcontext"
)

// WithRequestTime pins requestcontext.Now for the request, which is what the
// requesttime middleware would do with the wall clock.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithRequestID sets the request id the RequestID middleware would assign.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

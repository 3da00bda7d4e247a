package llm

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const requestIDContextKey contextKey = "llm_request_id"

// requestIDHeader is the header carrying the per-call request identifier to
// the provider, for correlating provider-side logs with wrapper logs.
const requestIDHeader = "X-Request-Id"

// WithRequestID returns a context carrying a request identifier that the
// provider transport attaches to outgoing HTTP calls.
func WithRequestID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

// RequestIDFromContext retrieves the request identifier, if present.
func RequestIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(requestIDContextKey).(uuid.UUID)
	return id, ok
}

// requestIDTransport injects the request identifier header when the request
// context holds one. Requests without an identifier pass through untouched.
type requestIDTransport struct {
	base http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if id, ok := RequestIDFromContext(req.Context()); ok {
		req = req.Clone(req.Context())
		req.Header.Set(requestIDHeader, id.String())
	}
	return t.base.RoundTrip(req)
}

package portalapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/okian/recruitportal/pkg/metrics"
)

// RequestIDHeader correlates client calls with backend logs.
const RequestIDHeader = "X-Request-ID"

type endpointKey struct{}

// withEndpoint labels a request with its route template so metrics stay low-cardinality.
func withEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, endpointKey{}, endpoint)
}

func endpointOf(r *http.Request) string {
	if v, ok := r.Context().Value(endpointKey{}).(string); ok && v != "" {
		return v
	}
	return r.URL.Path
}

// instrumentedTransport stamps request ids and records call metrics.
type instrumentedTransport struct {
	next http.RoundTripper
}

func newInstrumentedTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &instrumentedTransport{next: next}
}

func (t *instrumentedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get(RequestIDHeader) == "" {
		r = r.Clone(r.Context())
		r.Header.Set(RequestIDHeader, uuid.NewString())
	}
	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	durationMs := float64(time.Since(start).Milliseconds())

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "transport_error"
	case resp.StatusCode >= http.StatusBadRequest:
		outcome = "server_error"
	}
	metrics.RecordAPIRequest(endpointOf(r), r.Method, outcome, durationMs)
	return resp, err
}

package stubserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/recruitportal/pkg/logger"
	"github.com/okian/recruitportal/pkg/metrics"
)

// instrument applies the configured latency and records request metrics.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		s.latMu.RLock()
		delay := s.latency[endpoint]
		s.latMu.RUnlock()
		if delay > 0 {
			if err := sleep(r.Context(), delay); err != nil {
				return
			}
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		metrics.RecordHTTPRequest(endpoint, r.Method, statusText(wrapped.statusCode), durationMs)
		s.log.Debug(r.Context(), "stub request",
			logger.String("endpoint", endpoint),
			logger.String("method", r.Method),
			logger.Int("status", wrapped.statusCode),
			logger.String("requestID", middleware.GetReqID(r.Context())),
		)
	}
}

// csrf hands out the token cookie and rejects mutating requests without the header.
func (s *Server) csrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.csrfToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: csrfCookie, Value: url.QueryEscape(s.csrfToken), Path: "/"})
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if r.Header.Get(csrfHeader) != s.csrfToken {
				fail(w, r, ErrCSRF)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type userKey struct{}

// requireRole rejects requests without a session of the given role.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := s.currentUser(r)
			switch {
			case !ok:
				fail(w, r, ErrUnauthorized)
				return
			case u.Role != role:
				fail(w, r, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
		})
	}
}

func (s *Server) currentUser(r *http.Request) (user, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return user{}, false
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	email, ok := s.store.sessions[c.Value]
	if !ok {
		return user{}, false
	}
	u, ok := s.store.users[email]
	return u, ok
}

func userFrom(r *http.Request) user {
	u, _ := r.Context().Value(userKey{}).(user)
	return u
}


// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}

func statusText(code int) string { return strconv.Itoa(code) }

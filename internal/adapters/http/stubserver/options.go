package stubserver

import (
	"time"

	"github.com/okian/recruitportal/pkg/logger"
)

// Option configures a Server.
type Option func(*Server)

// WithOTPCode sets the code every challenge accepts.
func WithOTPCode(code string) Option {
	return func(s *Server) {
		if code != "" {
			s.otpCode = code
		}
	}
}

// WithCSRFToken requires X-CSRF-Token on mutating requests and hands the
// token out in a "csrf" cookie.
func WithCSRFToken(token string) Option {
	return func(s *Server) {
		s.csrfToken = token
	}
}

// WithLatency delays every request to the route pattern, e.g. "/api/auth/verify".
func WithLatency(pattern string, d time.Duration) Option {
	return func(s *Server) {
		s.latency[pattern] = d
	}
}

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithUser seeds a registered account.
func WithUser(email, password, name, role string) Option {
	return func(s *Server) {
		s.store.users[email] = user{Email: email, Password: password, Name: name, Role: role}
	}
}

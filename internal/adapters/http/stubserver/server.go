// Package stubserver is an in-memory development backend speaking the portal's
// REST contract. It issues a fixed OTP, keeps everything in process memory and
// can delay individual routes to reproduce out-of-order completions.
package stubserver

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/okian/recruitportal/pkg/logger"
	"github.com/okian/recruitportal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// SessionCookie carries the signed-in session id.
	SessionCookie = "portal_session"
	csrfCookie    = "csrf"
	csrfHeader    = "X-CSRF-Token"

	maxUploadBytes = 8 << 20
	defaultOTPCode = "123456"
)

// Server is the stub backend.
type Server struct {
	router    chi.Router
	store     *store
	otpCode   string
	csrfToken string
	log       logger.Logger

	latMu   sync.RWMutex
	latency map[string]time.Duration
}

// New creates a Server with its routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		store:   newStore(),
		otpCode: defaultOTPCode,
		latency: make(map[string]time.Duration),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// OTPCode returns the code every challenge accepts.
func (s *Server) OTPCode() string { return s.otpCode }

// SetLatency changes the delay of a route pattern while the server runs.
func (s *Server) SetLatency(pattern string, d time.Duration) {
	s.latMu.Lock()
	defer s.latMu.Unlock()
	s.latency[pattern] = d
}

// Outbox returns the recruiter emails captured so far.
func (s *Server) Outbox() []SentEmail {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return append([]SentEmail(nil), s.store.outbox...)
}

// Stats reports how many records the stub holds, keyed by kind.
func (s *Server) Stats() map[string]int {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return map[string]int{
		"users":        len(s.store.users),
		"jobs":         len(s.store.jobs),
		"applications": len(s.store.apps),
		"sessions":     len(s.store.sessions),
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.csrf)

	r.Get("/healthz", s.instrument("/healthz", s.handleHealth))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	r.Get("/openapi.yaml", handleOpenAPI)
	r.Get("/api-docs", handleDocs)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/start", s.instrument("/api/auth/start", s.handleAuthStart))
		r.Post("/auth/verify", s.instrument("/api/auth/verify", s.handleAuthVerify))
		r.Get("/jobs", s.instrument("/api/jobs", s.handleJobs))

		r.With(s.requireRole("candidate")).
			Post("/candidate/apply", s.instrument("/api/candidate/apply", s.handleApply))

		r.Route("/recruiter", func(r chi.Router) {
			r.Use(s.requireRole("recruiter"))
			r.Get("/jobs", s.instrument("/api/recruiter/jobs", s.handleRecruiterJobs))
			r.Post("/jobs", s.instrument("/api/recruiter/jobs", s.handleCreateJob))
			r.Delete("/jobs/{id}", s.instrument("/api/recruiter/jobs/{id}", s.handleDeleteJob))
			r.Get("/applications", s.instrument("/api/recruiter/applications", s.handleApplications))
			r.Get("/applications/{id}", s.instrument("/api/recruiter/applications/{id}", s.handleApplication))
			r.Post("/send-email", s.instrument("/api/recruiter/send-email", s.handleSendEmail))
			r.Get("/stats", s.instrument("/api/recruiter/stats", s.handleStats))
			r.Get("/ranking", s.instrument("/api/recruiter/ranking", s.handleRanking))
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok(w, r, render.M{"status": "healthy"})
}

// parseForm accepts multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		return r.ParseMultipartForm(maxUploadBytes)
	}
	return r.ParseForm()
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func ok(w http.ResponseWriter, r *http.Request, body render.M) {
	if body == nil {
		body = render.M{}
	}
	body["ok"] = true
	render.Status(r, http.StatusOK)
	render.JSON(w, r, body)
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"
	var re *replyError
	if errors.As(err, &re) {
		status, msg = re.status, re.message
	}
	render.Status(r, status)
	render.JSON(w, r, render.M{"ok": false, "error": msg})
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

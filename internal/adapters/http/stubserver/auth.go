package stubserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/okian/recruitportal/pkg/logger"
)

func normalizeRole(role string) string {
	if strings.EqualFold(strings.TrimSpace(role), "recruiter") {
		return "recruiter"
	}
	return "candidate"
}

// handleAuthStart opens an OTP challenge for a login or a signup.
func (s *Server) handleAuthStart(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		fail(w, r, ErrBadForm)
		return
	}
	mode := formValue(r, "mode")
	email := strings.ToLower(formValue(r, "email"))
	password := formValue(r, "password")
	if email == "" || password == "" {
		fail(w, r, ErrMissingCredentials)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	u, exists := s.store.users[email]
	if mode == "signup" {
		if exists {
			fail(w, r, ErrAccountExists)
			return
		}
		s.store.pending[email] = pending{
			Mode:     "signup",
			Role:     normalizeRole(formValue(r, "role")),
			Name:     formValue(r, "name"),
			Password: password,
		}
	} else {
		if !exists || u.Password != password {
			fail(w, r, ErrBadCredentials)
			return
		}
		s.store.pending[email] = pending{Mode: "login"}
	}
	s.log.Info(r.Context(), "otp issued", logger.String("email", email), logger.String("mode", mode))
	ok(w, r, render.M{"message": "OTP sent to your email"})
}

// handleAuthVerify completes a challenge and signs the user in. The reply's
// role is the registered account's, whatever the client asked for.
func (s *Server) handleAuthVerify(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		fail(w, r, ErrBadForm)
		return
	}
	email := strings.ToLower(formValue(r, "email"))
	code := formValue(r, "code")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, found := s.store.pending[email]
	if !found || code != s.otpCode {
		fail(w, r, ErrInvalidOTP)
		return
	}
	if p.Mode == "signup" {
		s.store.users[email] = user{Email: email, Password: p.Password, Name: p.Name, Role: p.Role}
	}
	u, exists := s.store.users[email]
	if !exists {
		fail(w, r, ErrBadCredentials)
		return
	}
	delete(s.store.pending, email)

	sid := uuid.NewString()
	s.store.sessions[sid] = email
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: sid, Path: "/", HttpOnly: true})
	s.log.Info(r.Context(), "user signed in", logger.String("email", email), logger.String("role", u.Role))
	ok(w, r, render.M{"role": u.Role, "name": u.Name})
}

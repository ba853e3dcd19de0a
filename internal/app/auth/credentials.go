package auth

import (
	"sync"

	"github.com/okian/recruitportal/internal/domain/model"
)

// CredentialStore holds the login and signup form values. Nothing is
// validated here; controllers read the values at submit time.
type CredentialStore struct {
	mu     sync.RWMutex
	login  model.Credentials
	signup model.Credentials
}

// SetLogin replaces the login panel email and password.
func (s *CredentialStore) SetLogin(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.login = model.Credentials{Email: email, Password: password}
}

// SetSignup replaces every signup panel field.
func (s *CredentialStore) SetSignup(name, email, password, passwordConfirm string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signup = model.Credentials{Name: name, Email: email, Password: password, PasswordConfirm: passwordConfirm}
}

// Login returns the trimmed login panel values.
func (s *CredentialStore) Login() model.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.login.Trimmed()
}

// Signup returns the trimmed signup panel values.
func (s *CredentialStore) Signup() model.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signup.Trimmed()
}

// Clear empties both panels.
func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.login = model.Credentials{}
	s.signup = model.Credentials{}
}

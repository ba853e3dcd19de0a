package stubserver

import "net/http"

// replyError is a failure reported to the client as {"ok":false,"error":...}.
// The text mirrors the real backend's user-facing messages.
type replyError struct {
	status  int
	message string
}

func (e *replyError) Error() string { return e.message }

func newReplyError(status int, message string) *replyError {
	return &replyError{status: status, message: message}
}

// Sentinel kinds for stub backend failures.
var (
	ErrBadForm            = newReplyError(http.StatusBadRequest, "Invalid form data")
	ErrMissingCredentials = newReplyError(http.StatusBadRequest, "Email and password required")
	ErrAccountExists      = newReplyError(http.StatusConflict, "Account already exists")
	ErrBadCredentials     = newReplyError(http.StatusUnauthorized, "Invalid email or password")
	ErrInvalidOTP         = newReplyError(http.StatusBadRequest, "Invalid or expired OTP")
	ErrUnauthorized       = newReplyError(http.StatusUnauthorized, "Unauthorized")
	ErrForbidden          = newReplyError(http.StatusForbidden, "Forbidden")
	ErrCSRF               = newReplyError(http.StatusForbidden, "CSRF token missing or invalid")
	ErrJobFields          = newReplyError(http.StatusBadRequest, "Company name, title and description are required")
	ErrJobNotFound        = newReplyError(http.StatusNotFound, "Job not found")
	ErrApplicationMissing = newReplyError(http.StatusNotFound, "Application not found")
	ErrApplyFields        = newReplyError(http.StatusBadRequest, "Full name, email and resume are required")
	ErrEmailFields        = newReplyError(http.StatusBadRequest, "application_id, subject and message are required")
)

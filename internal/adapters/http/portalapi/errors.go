package portalapi

import (
	"errors"
	"fmt"

	"github.com/okian/recruitportal/internal/domain/model"
)

// Sentinel kinds for client errors.
var (
	// ErrValidation marks input rejected before any request was sent.
	ErrValidation = errors.New("validation failed")
	// ErrServer marks a response that decoded but reported ok:false.
	ErrServer = errors.New("server rejected request")
	// ErrTransport marks failures to reach the backend or read its reply.
	ErrTransport = errors.New("transport failure")
)

// Error carries the operation, the kind and an optional user-facing message.
type Error struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind creates an Error of the given kind.
func NewKind(op string, kind error) *Error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind creates an Error of the given kind wrapping err.
func WrapKind(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func serverError(op, message string) *Error {
	return &Error{Op: op, Kind: ErrServer, Message: message}
}

// Validation converts a model validation failure into a client error.
func Validation(op string, err error) *Error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return &Error{Op: op, Kind: ErrValidation, Message: verr.Message, Err: err}
	}
	return WrapKind(op, ErrValidation, err)
}

// Message picks the text shown to the user for err: the validation or server
// message verbatim when present, otherwise the per-action fallback for the kind.
func Message(err error, serverFallback, networkFallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return verr.Message
		}
		return networkFallback
	}
	switch {
	case errors.Is(e.Kind, ErrTransport):
		return networkFallback
	case e.Message != "":
		return e.Message
	case errors.Is(e.Kind, ErrServer):
		return serverFallback
	}
	return networkFallback
}

package portalapi

import (
	"context"
	"strings"

	"github.com/okian/recruitportal/internal/domain/model"
)

// AuthRequest holds the fields posted to both auth endpoints.
type AuthRequest struct {
	Mode     model.AuthMode
	Role     model.Role
	Email    string
	Password string
	Name     string
	// Code is only sent on verify.
	Code string
}

func (r AuthRequest) fields() [][2]string {
	f := [][2]string{
		{"mode", string(r.Mode)},
		{"role", string(r.Role)},
		{"email", r.Email},
		{"password", r.Password},
	}
	if r.Name != "" {
		f = append(f, [2]string{"name", r.Name})
	}
	return f
}

// VerifyResult is the server-confirmed identity after a successful verify.
type VerifyResult struct {
	Role string `json:"role"`
}

// Destination is the dashboard chosen by the server-declared role.
func (v VerifyResult) Destination() string {
	return model.Destination(v.Role)
}

// AuthStart asks the backend to send an OTP. Email and password are required.
func (c *Client) AuthStart(ctx context.Context, r AuthRequest) error {
	const op = "portalapi.AuthStart"
	if strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.Password) == "" {
		return Validation(op, model.NewValidationError("Enter email and password to send OTP"))
	}
	return c.postForm(ctx, op, "/api/auth/start", r.fields(), nil, nil)
}

// AuthVerify submits the OTP and returns the role the server assigned.
func (c *Client) AuthVerify(ctx context.Context, r AuthRequest) (VerifyResult, error) {
	const op = "portalapi.AuthVerify"
	if !ValidCode(r.Code) {
		return VerifyResult{}, Validation(op, model.NewValidationError("Enter full 6-digit OTP"))
	}
	var out VerifyResult
	fields := append(r.fields(), [2]string{"code", r.Code})
	if err := c.postForm(ctx, op, "/api/auth/verify", fields, nil, &out); err != nil {
		return VerifyResult{}, err
	}
	return out, nil
}

// CodeLength is the number of OTP digits.
const CodeLength = 6

// ValidCode reports whether code is exactly six decimal digits.
func ValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

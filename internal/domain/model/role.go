// Package model contains the portal's domain types shared between layers.
package model

import "strings"

// Role is the account type that gates dashboards and endpoints.
type Role string

// Known roles.
const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// Dashboard paths chosen after a verified login.
const (
	CandidateDashboard = "/candidate/dashboard"
	RecruiterDashboard = "/recruiter/dashboard"
)

// ParseRole maps a free-form role string onto a Role. Unknown values report false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCandidate:
		return RoleCandidate, true
	case RoleRecruiter:
		return RoleRecruiter, true
	}
	return "", false
}

// RoleOrDefault returns r when it is known and RoleCandidate otherwise.
func RoleOrDefault(r Role) Role {
	if parsed, ok := ParseRole(string(r)); ok {
		return parsed
	}
	return RoleCandidate
}

// Destination returns the dashboard for a server-declared role string.
// Anything other than "recruiter" lands on the candidate dashboard.
func Destination(serverRole string) string {
	if r, _ := ParseRole(serverRole); r == RoleRecruiter {
		return RecruiterDashboard
	}
	return CandidateDashboard
}

// AuthMode selects the login or signup panel.
type AuthMode string

// Auth modes.
const (
	ModeLogin  AuthMode = "login"
	ModeSignup AuthMode = "signup"
)

// ParseAuthMode treats anything but "signup" as login.
func ParseAuthMode(s string) AuthMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeSignup)) {
		return ModeSignup
	}
	return ModeLogin
}

// OtpStatus is the lifecycle state of an OTP challenge.
type OtpStatus string

// OTP statuses.
const (
	OtpIdle      OtpStatus = "idle"
	OtpSent      OtpStatus = "sent"
	OtpVerifying OtpStatus = "verifying"
	OtpVerified  OtpStatus = "verified"
	OtpFailed    OtpStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s OtpStatus) Terminal() bool { return s == OtpVerified }

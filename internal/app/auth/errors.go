package auth

import "errors"

// Sentinel kinds for the auth controller.
var (
	// ErrStale marks a completion superseded by a newer request for the same operation.
	ErrStale = errors.New("stale response discarded")
	// ErrVerified marks an action attempted after the challenge already succeeded.
	ErrVerified = errors.New("challenge already verified")
	// ErrNoChallenge marks a verify attempted before any OTP was sent.
	ErrNoChallenge = errors.New("no otp challenge in progress")
)

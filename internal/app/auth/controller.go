// Package auth implements the authentication modal: role and mode intent,
// the OTP input group and the send/resend/verify/signup cycle.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/recruitportal/internal/adapters/http/portalapi"
	"github.com/okian/recruitportal/internal/app/ui"
	"github.com/okian/recruitportal/internal/domain/model"
	"github.com/okian/recruitportal/internal/domain/sequence"
	"github.com/okian/recruitportal/pkg/logger"
	"github.com/okian/recruitportal/pkg/metrics"
)

// Backend is the part of the portal API the modal drives.
type Backend interface {
	AuthStart(ctx context.Context, r portalapi.AuthRequest) error
	AuthVerify(ctx context.Context, r portalapi.AuthRequest) (portalapi.VerifyResult, error)
}

// Logical operations for sequence tokens. Send, resend and signup all start a challenge.
const (
	opSend   = "auth.otp.send"
	opVerify = "auth.otp.verify"
)

// challenge is the OTP session created by a successful send.
type challenge struct {
	email    string
	password string
	name     string
	mode     model.AuthMode
	role     model.Role
	status   model.OtpStatus
}

// Controller is the authentication modal. Methods may be called from several
// goroutines; network calls run without holding the lock so requests can overlap.
type Controller struct {
	mu          sync.Mutex
	api         Backend
	creds       *CredentialStore
	otp         *OtpInput
	intent      Intent
	open        bool
	otpVisible  bool
	ch          *challenge
	epoch       uint64
	serverRole  string
	destination string

	seq       sequence.Tracker
	notifier  ui.Notifier
	navigator ui.Navigator
	log       logger.Logger
}

// New creates a closed modal with the candidate role intended.
func New(api Backend, opts ...Option) *Controller {
	c := &Controller{
		api:       api,
		creds:     &CredentialStore{},
		otp:       &OtpInput{},
		intent:    newIntent(),
		notifier:  ui.Discard{},
		navigator: ui.Discard{},
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.seq == nil {
		c.seq = sequence.New(sequence.WithStaleHook(metrics.RecordStaleResponse))
	}
	return c
}

// Credentials returns the form values store.
func (c *Controller) Credentials() *CredentialStore { return c.creds }

// Otp returns the OTP input group.
func (c *Controller) Otp() *OtpInput { return c.otp }

// State is a read-only view of the modal for rendering.
type State struct {
	Open        bool
	Intent      Intent
	OtpVisible  bool
	Status      model.OtpStatus
	Email       string
	Mode        model.AuthMode
	Role        model.Role
	ServerRole  string
	Destination string
}

// State returns the current view.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		Open:        c.open,
		Intent:      c.intent,
		OtpVisible:  c.otpVisible,
		Status:      model.OtpIdle,
		ServerRole:  c.serverRole,
		Destination: c.destination,
	}
	if c.ch != nil {
		s.Status = c.ch.status
		s.Email = c.ch.email
		s.Mode = c.ch.mode
		s.Role = c.ch.role
	}
	return s
}

// Open shows the modal on the login tab. A known role becomes the intended
// role; otherwise the previous intent is kept. Both panels start on the intended role.
func (c *Controller) Open(role model.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := model.ParseRole(string(role)); ok {
		c.intent.IntendedRole = r
	}
	c.intent.Mode = model.ModeLogin
	c.intent.LoginRole = c.intent.IntendedRole
	c.intent.SignupRole = c.intent.IntendedRole
	c.open = true
}

// Close hides the modal and drops any challenge. In-flight completions are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.otpVisible = false
	c.ch = nil
	c.serverRole = ""
	c.destination = ""
	c.epoch++
	c.seq.Invalidate(opSend)
	c.seq.Invalidate(opVerify)
	c.mu.Unlock()
	c.otp.Reset()
}

// SwitchTab changes the visible panel. Panel roles are untouched.
func (c *Controller) SwitchTab(mode model.AuthMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intent.Mode = model.ParseAuthMode(string(mode))
}

// SelectRole sets the role chip of one panel. Unknown roles are ignored.
func (c *Controller) SelectRole(panel model.AuthMode, role model.Role) bool {
	r, ok := model.ParseRole(string(role))
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intent.setPanelRole(model.ParseAuthMode(string(panel)), r)
	return true
}

// SendOtp starts a login challenge with the login panel values.
func (c *Controller) SendOtp(ctx context.Context) error {
	const op = "auth.SendOtp"
	creds := c.creds.Login()
	if creds.Email == "" || creds.Password == "" {
		return c.reject(ctx, op, "Enter email and password to send OTP")
	}

	c.mu.Lock()
	if c.verifiedLocked() {
		c.mu.Unlock()
		return ErrVerified
	}
	req := portalapi.AuthRequest{
		Mode:     model.ModeLogin,
		Role:     c.intent.loginRole(),
		Email:    creds.Email,
		Password: creds.Password,
	}
	tok, epoch := c.seq.Issue(opSend), c.epoch
	c.mu.Unlock()

	c.log.Info(ctx, "sending otp", logger.String("mode", string(req.Mode)), logger.String("role", string(req.Role)))
	err := c.api.AuthStart(ctx, req)

	c.mu.Lock()
	if derr := c.discardLocked(ctx, tok, epoch); derr != nil {
		c.mu.Unlock()
		return derr
	}
	if err != nil {
		c.mu.Unlock()
		return c.report(ctx, err, "Failed to send OTP", "Network error while sending OTP")
	}
	c.startChallengeLocked(req)
	c.mu.Unlock()

	c.otp.Reset()
	c.otp.FocusFirst()
	c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelInfo, Message: "OTP sent to your email"})
	return nil
}

// ResendOtp repeats the send with the login panel values and the mode of the
// active challenge. Entered digits are kept.
func (c *Controller) ResendOtp(ctx context.Context) error {
	const op = "auth.ResendOtp"
	creds := c.creds.Login()
	if creds.Email == "" || creds.Password == "" {
		return c.reject(ctx, op, "Enter email and password first")
	}

	c.mu.Lock()
	if c.verifiedLocked() {
		c.mu.Unlock()
		return ErrVerified
	}
	req := portalapi.AuthRequest{
		Mode:     c.intent.Mode,
		Role:     c.intent.loginRole(),
		Email:    creds.Email,
		Password: creds.Password,
	}
	if c.ch != nil {
		req.Mode = c.ch.mode
		if req.Mode == model.ModeSignup {
			req.Name = c.ch.name
		}
	}
	tok, epoch := c.seq.Issue(opSend), c.epoch
	c.mu.Unlock()

	c.log.Info(ctx, "resending otp", logger.String("mode", string(req.Mode)), logger.String("role", string(req.Role)))
	err := c.api.AuthStart(ctx, req)

	c.mu.Lock()
	if derr := c.discardLocked(ctx, tok, epoch); derr != nil {
		c.mu.Unlock()
		return derr
	}
	if err != nil {
		c.mu.Unlock()
		return c.report(ctx, err, "Failed to resend OTP", "Network error while resending OTP")
	}
	c.startChallengeLocked(req)
	c.mu.Unlock()

	c.otp.FocusFirst()
	c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelInfo, Message: "OTP resent"})
	return nil
}

// CreateAccount starts a signup challenge. On success the login panel takes
// over the signup role and credentials so verification behaves like a login.
func (c *Controller) CreateAccount(ctx context.Context) error {
	const op = "auth.CreateAccount"
	creds := c.creds.Signup()
	if creds.Name == "" || creds.Email == "" || creds.Password == "" {
		return c.reject(ctx, op, "Fill all signup fields")
	}
	if creds.Password != creds.PasswordConfirm {
		return c.reject(ctx, op, "Passwords don't match")
	}

	c.mu.Lock()
	if c.verifiedLocked() {
		c.mu.Unlock()
		return ErrVerified
	}
	req := portalapi.AuthRequest{
		Mode:     model.ModeSignup,
		Role:     model.RoleOrDefault(c.intent.SignupRole),
		Email:    creds.Email,
		Password: creds.Password,
		Name:     creds.Name,
	}
	tok, epoch := c.seq.Issue(opSend), c.epoch
	c.mu.Unlock()

	c.log.Info(ctx, "creating account", logger.String("role", string(req.Role)))
	err := c.api.AuthStart(ctx, req)

	c.mu.Lock()
	if derr := c.discardLocked(ctx, tok, epoch); derr != nil {
		c.mu.Unlock()
		return derr
	}
	if err != nil {
		c.mu.Unlock()
		return c.report(ctx, err, "Signup failed", "Network error during signup")
	}
	c.intent.Mode = model.ModeLogin
	c.intent.LoginRole = req.Role
	c.creds.SetLogin(req.Email, req.Password)
	c.startChallengeLocked(req)
	c.mu.Unlock()

	c.otp.Reset()
	c.otp.FocusFirst()
	c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelSuccess, Message: "Account created. OTP sent for verification."})
	return nil
}

// VerifyOtp submits the assembled code with the mode, role and credentials of
// the active challenge. The redirect follows the role in the server's reply.
func (c *Controller) VerifyOtp(ctx context.Context) error {
	const op = "auth.VerifyOtp"
	code := c.otp.Assemble()
	if !ValidCode(code) {
		return c.reject(ctx, op, "Enter full 6-digit OTP")
	}

	c.mu.Lock()
	if c.verifiedLocked() {
		c.mu.Unlock()
		return ErrVerified
	}
	if c.ch == nil {
		c.mu.Unlock()
		c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelError, Message: "Send the OTP first"})
		return ErrNoChallenge
	}
	req := portalapi.AuthRequest{
		Mode:     c.ch.mode,
		Role:     c.ch.role,
		Email:    c.ch.email,
		Password: c.ch.password,
		Name:     c.ch.name,
		Code:     code,
	}
	c.setStatusLocked(model.OtpVerifying)
	tok, epoch := c.seq.Issue(opVerify), c.epoch
	c.mu.Unlock()

	c.log.Info(ctx, "verifying otp", logger.String("mode", string(req.Mode)), logger.String("role", string(req.Role)))
	res, err := c.api.AuthVerify(ctx, req)

	c.mu.Lock()
	// A success is honored even when a newer verify is pending: the server has
	// already issued the session, and the terminal state absorbs the later reply.
	honor := err == nil && epoch == c.epoch && c.ch != nil && !c.verifiedLocked()
	if !honor {
		if derr := c.discardLocked(ctx, tok, epoch); derr != nil {
			c.mu.Unlock()
			return derr
		}
	}
	if err != nil {
		c.setStatusLocked(model.OtpFailed)
		c.mu.Unlock()
		return c.report(ctx, err, "OTP verification failed", "Network error while verifying OTP")
	}
	c.setStatusLocked(model.OtpVerified)
	c.ch.password = ""
	c.serverRole = res.Role
	c.destination = res.Destination()
	dest := c.destination
	c.mu.Unlock()

	c.log.Info(ctx, "otp verified", logger.String("server_role", res.Role), logger.String("destination", dest))
	c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelSuccess, Message: "OTP verified. Redirecting…"})
	c.navigator.Navigate(ctx, dest)
	return nil
}

func (c *Controller) startChallengeLocked(req portalapi.AuthRequest) {
	status := model.OtpSent
	if c.ch != nil && c.ch.status == model.OtpVerifying {
		status = model.OtpVerifying
	}
	c.ch = &challenge{
		email:    req.Email,
		password: req.Password,
		name:     req.Name,
		mode:     req.Mode,
		role:     req.Role,
	}
	c.otpVisible = true
	c.setStatusLocked(status)
}

func (c *Controller) setStatusLocked(s model.OtpStatus) {
	if c.ch == nil || c.ch.status == s {
		return
	}
	c.ch.status = s
	metrics.RecordOTPTransition(string(s))
}

func (c *Controller) verifiedLocked() bool {
	return c.ch != nil && c.ch.status.Terminal()
}

// discardLocked reports why a completion must be dropped, or nil to apply it.
func (c *Controller) discardLocked(ctx context.Context, tok sequence.Token, epoch uint64) error {
	if c.verifiedLocked() && epoch == c.epoch {
		metrics.RecordStaleResponse(tok.Op)
		c.log.Debug(ctx, "completion after verification ignored", logger.String("operation", tok.Op))
		return ErrVerified
	}
	if !c.seq.Latest(tok) || epoch != c.epoch {
		c.log.Debug(ctx, "stale completion discarded", logger.String("operation", tok.Op), logger.Uint64("seq", tok.Seq))
		return ErrStale
	}
	return nil
}

func (c *Controller) reject(ctx context.Context, op, message string) error {
	err := portalapi.Validation(op, model.NewValidationError(message))
	c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelError, Message: message})
	return err
}

func (c *Controller) report(ctx context.Context, err error, serverFallback, networkFallback string) error {
	msg := portalapi.Message(err, serverFallback, networkFallback)
	if errors.Is(err, portalapi.ErrTransport) {
		c.log.Warn(ctx, "auth request failed", logger.Error(err))
	}
	c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelError, Message: msg})
	return err
}

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/recruitportal/internal/adapters/http/portalapi"
	"github.com/okian/recruitportal/internal/app/ui"
	"github.com/okian/recruitportal/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeBackend records calls and can hold AuthStart open until released.
type fakeBackend struct {
	mu          sync.Mutex
	starts      []portalapi.AuthRequest
	verifies    []portalapi.AuthRequest
	startErr    error
	verifyErr   error
	verifyRole  string
	gate        chan struct{}
	gateEntered chan struct{}
}

func (f *fakeBackend) AuthStart(ctx context.Context, r portalapi.AuthRequest) error {
	f.mu.Lock()
	f.starts = append(f.starts, r)
	gate, entered, err := f.gate, f.gateEntered, f.startErr
	f.gate = nil
	f.mu.Unlock()
	if gate != nil {
		close(entered)
		<-gate
	}
	return err
}

func (f *fakeBackend) AuthVerify(ctx context.Context, r portalapi.AuthRequest) (portalapi.VerifyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifies = append(f.verifies, r)
	if f.verifyErr != nil {
		return portalapi.VerifyResult{}, f.verifyErr
	}
	return portalapi.VerifyResult{Role: f.verifyRole}, nil
}

// holdNextStart makes the next AuthStart block until the returned release is called.
func (f *fakeBackend) holdNextStart() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.gateEntered = make(chan struct{})
	gate := f.gate
	return f.gateEntered, func() { close(gate) }
}

func (f *fakeBackend) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.starts)
}

func (f *fakeBackend) verifyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.verifies)
}

func newTestController() (*Controller, *fakeBackend, *ui.Recorder) {
	be := &fakeBackend{verifyRole: "candidate"}
	rec := &ui.Recorder{}
	return New(be, WithNotifier(rec), WithNavigator(rec)), be, rec
}

func TestIntent(t *testing.T) {
	Convey("Given a closed modal", t, func() {
		c, _, _ := newTestController()

		Convey("Opening for a role selects login and seeds both panels", func() {
			c.SwitchTab(model.ModeSignup)
			c.Open(model.RoleRecruiter)
			s := c.State()
			So(s.Open, ShouldBeTrue)
			So(s.Intent.Mode, ShouldEqual, model.ModeLogin)
			So(s.Intent.IntendedRole, ShouldEqual, model.RoleRecruiter)
			So(s.Intent.LoginRole, ShouldEqual, model.RoleRecruiter)
			So(s.Intent.SignupRole, ShouldEqual, model.RoleRecruiter)
		})

		Convey("Opening without a role keeps the previous intent", func() {
			c.Open(model.RoleRecruiter)
			c.Close()
			c.Open("")
			So(c.State().Intent.IntendedRole, ShouldEqual, model.RoleRecruiter)
		})

		Convey("Role chips are scoped to their panel", func() {
			c.Open(model.RoleCandidate)
			So(c.SelectRole(model.ModeSignup, model.RoleRecruiter), ShouldBeTrue)
			s := c.State()
			So(s.Intent.SignupRole, ShouldEqual, model.RoleRecruiter)
			So(s.Intent.LoginRole, ShouldEqual, model.RoleCandidate)
			So(s.Intent.IntendedRole, ShouldEqual, model.RoleCandidate)
			So(c.SelectRole(model.ModeLogin, "admin"), ShouldBeFalse)
		})

		Convey("Switching tabs leaves panel roles alone", func() {
			c.Open(model.RoleCandidate)
			c.SelectRole(model.ModeLogin, model.RoleRecruiter)
			c.SwitchTab(model.ModeSignup)
			c.SwitchTab(model.ModeLogin)
			s := c.State()
			So(s.Intent.LoginRole, ShouldEqual, model.RoleRecruiter)
			So(s.Intent.SignupRole, ShouldEqual, model.RoleCandidate)
			So(s.Intent.PanelRole(model.ModeLogin), ShouldEqual, model.RoleRecruiter)
		})
	})
}

func TestSendAndVerify(t *testing.T) {
	Convey("Given an open modal", t, func() {
		ctx := context.Background()
		c, be, rec := newTestController()
		c.Open(model.RoleCandidate)

		Convey("Sending without credentials makes no request", func() {
			err := c.SendOtp(ctx)
			So(errors.Is(err, portalapi.ErrValidation), ShouldBeTrue)
			So(be.startCount(), ShouldEqual, 0)
			So(rec.Last().Message, ShouldEqual, "Enter email and password to send OTP")
		})

		Convey("A successful send opens the challenge", func() {
			c.Credentials().SetLogin(" ada@example.com ", "pw")
			c.Otp().Input(3, "7")
			So(c.SendOtp(ctx), ShouldBeNil)

			s := c.State()
			So(s.Status, ShouldEqual, model.OtpSent)
			So(s.OtpVisible, ShouldBeTrue)
			So(s.Email, ShouldEqual, "ada@example.com")
			So(c.Otp().Focus(), ShouldEqual, 0)
			So(c.Otp().Assemble(), ShouldEqual, "")
			So(be.starts[0].Mode, ShouldEqual, model.ModeLogin)
			So(be.starts[0].Role, ShouldEqual, model.RoleCandidate)
			So(rec.Last().Message, ShouldEqual, "OTP sent to your email")

			Convey("A five digit code is rejected without a network call", func() {
				c.Otp().Type("42105")
				err := c.VerifyOtp(ctx)
				So(errors.Is(err, portalapi.ErrValidation), ShouldBeTrue)
				So(be.verifyCount(), ShouldEqual, 0)
				So(rec.Last().Message, ShouldEqual, "Enter full 6-digit OTP")
			})

			Convey("The server role decides the destination", func() {
				be.verifyRole = "recruiter"
				c.Otp().Type("421059")
				So(c.VerifyOtp(ctx), ShouldBeNil)

				s := c.State()
				So(s.Intent.LoginRole, ShouldEqual, model.RoleCandidate)
				So(s.Status, ShouldEqual, model.OtpVerified)
				So(s.Destination, ShouldEqual, model.RecruiterDashboard)
				So(rec.Destinations(), ShouldResemble, []string{model.RecruiterDashboard})
				So(be.verifies[0].Code, ShouldEqual, "421059")
				So(be.verifies[0].Role, ShouldEqual, model.RoleCandidate)

				Convey("And the challenge is terminal", func() {
					So(errors.Is(c.SendOtp(ctx), ErrVerified), ShouldBeTrue)
					So(errors.Is(c.VerifyOtp(ctx), ErrVerified), ShouldBeTrue)
					So(be.startCount(), ShouldEqual, 1)
				})
			})

			Convey("A failed verify keeps the entered digits", func() {
				be.verifyErr = &portalapi.Error{Op: "x", Kind: portalapi.ErrServer, Message: "Invalid OTP"}
				c.Otp().Type("111111")
				err := c.VerifyOtp(ctx)
				So(errors.Is(err, portalapi.ErrServer), ShouldBeTrue)
				So(c.State().Status, ShouldEqual, model.OtpFailed)
				So(c.Otp().Assemble(), ShouldEqual, "111111")
				So(rec.Last(), ShouldResemble, ui.Notice{Level: ui.LevelError, Message: "Invalid OTP"})
				So(rec.Destinations(), ShouldBeEmpty)
			})

			Convey("A transport failure uses the generic message", func() {
				be.verifyErr = portalapi.WrapKind("x", portalapi.ErrTransport, context.DeadlineExceeded)
				c.Otp().Type("111111")
				So(c.VerifyOtp(ctx), ShouldNotBeNil)
				So(rec.Last().Message, ShouldEqual, "Network error while verifying OTP")
			})

			Convey("Resend keeps the digits and the mode", func() {
				c.Otp().Type("12")
				So(c.ResendOtp(ctx), ShouldBeNil)
				So(c.Otp().Assemble(), ShouldEqual, "12")
				So(c.Otp().Focus(), ShouldEqual, 0)
				So(be.starts[1].Mode, ShouldEqual, model.ModeLogin)
				So(rec.Last().Message, ShouldEqual, "OTP resent")
			})

			Convey("Closing drops the challenge", func() {
				c.Close()
				s := c.State()
				So(s.Open, ShouldBeFalse)
				So(s.Status, ShouldEqual, model.OtpIdle)
				So(s.OtpVisible, ShouldBeFalse)
			})
		})

		Convey("Verifying before any send is refused", func() {
			c.Otp().Type("123456")
			So(errors.Is(c.VerifyOtp(ctx), ErrNoChallenge), ShouldBeTrue)
			So(be.verifyCount(), ShouldEqual, 0)
		})

		Convey("A server send failure is reported verbatim", func() {
			be.startErr = &portalapi.Error{Op: "x", Kind: portalapi.ErrServer, Message: "User not found"}
			c.Credentials().SetLogin("a@b.c", "pw")
			So(c.SendOtp(ctx), ShouldNotBeNil)
			So(rec.Last().Message, ShouldEqual, "User not found")
			So(c.State().Status, ShouldEqual, model.OtpIdle)
		})
	})
}

func TestSignupHandoff(t *testing.T) {
	Convey("Given the signup panel", t, func() {
		ctx := context.Background()
		c, be, rec := newTestController()
		c.Open(model.RoleCandidate)
		c.SwitchTab(model.ModeSignup)
		c.SelectRole(model.ModeSignup, model.RoleRecruiter)

		Convey("Missing fields are rejected", func() {
			c.Credentials().SetSignup("Ada", "", "pw", "pw")
			So(c.CreateAccount(ctx), ShouldNotBeNil)
			So(rec.Last().Message, ShouldEqual, "Fill all signup fields")
			So(be.startCount(), ShouldEqual, 0)
		})

		Convey("Mismatched passwords are rejected", func() {
			c.Credentials().SetSignup("Ada", "a@b.c", "pw", "px")
			So(c.CreateAccount(ctx), ShouldNotBeNil)
			So(rec.Last().Message, ShouldEqual, "Passwords don't match")
			So(be.startCount(), ShouldEqual, 0)
		})

		Convey("A successful signup hands role and credentials to the login panel", func() {
			c.Credentials().SetSignup("Ada", "ada@example.com", "s3cret", "s3cret")
			So(c.CreateAccount(ctx), ShouldBeNil)

			s := c.State()
			So(s.Intent.Mode, ShouldEqual, model.ModeLogin)
			So(s.Intent.LoginRole, ShouldEqual, model.RoleRecruiter)
			So(c.Credentials().Login().Email, ShouldEqual, "ada@example.com")
			So(c.Credentials().Login().Password, ShouldEqual, "s3cret")
			So(s.Status, ShouldEqual, model.OtpSent)
			So(be.starts[0].Mode, ShouldEqual, model.ModeSignup)
			So(be.starts[0].Name, ShouldEqual, "Ada")
			So(rec.Last().Message, ShouldEqual, "Account created. OTP sent for verification.")

			Convey("And verify repeats the signup mode and role", func() {
				be.verifyRole = "recruiter"
				c.Otp().Type("654321")
				So(c.VerifyOtp(ctx), ShouldBeNil)
				So(be.verifies[0].Mode, ShouldEqual, model.ModeSignup)
				So(be.verifies[0].Role, ShouldEqual, model.RoleRecruiter)
				So(be.verifies[0].Email, ShouldEqual, "ada@example.com")
				So(rec.Destinations(), ShouldResemble, []string{model.RecruiterDashboard})
			})

			Convey("And resend keeps the signup mode with the name", func() {
				So(c.ResendOtp(ctx), ShouldBeNil)
				So(be.starts[1].Mode, ShouldEqual, model.ModeSignup)
				So(be.starts[1].Name, ShouldEqual, "Ada")
			})
		})
	})
}

func TestOutOfOrderCompletion(t *testing.T) {
	Convey("Given a pending challenge", t, func() {
		ctx := context.Background()
		c, be, rec := newTestController()
		c.Open(model.RoleCandidate)
		c.Credentials().SetLogin("ada@example.com", "pw")
		So(c.SendOtp(ctx), ShouldBeNil)

		Convey("When a slow resend completes after a successful verify", func() {
			entered, release := be.holdNextStart()
			done := make(chan error, 1)
			go func() { done <- c.ResendOtp(ctx) }()
			<-entered

			c.Otp().Type("421059")
			So(c.VerifyOtp(ctx), ShouldBeNil)
			release()
			resendErr := <-done

			Convey("Then the verified state is not reverted", func() {
				So(errors.Is(resendErr, ErrVerified), ShouldBeTrue)
				So(c.State().Status, ShouldEqual, model.OtpVerified)
				So(c.State().Destination, ShouldEqual, model.CandidateDashboard)
				for _, n := range rec.Notices() {
					So(n.Message, ShouldNotEqual, "OTP resent")
				}
			})
		})

		Convey("When an older send completes after a newer one", func() {
			entered, release := be.holdNextStart()
			done := make(chan error, 1)
			go func() { done <- c.ResendOtp(ctx) }()
			<-entered

			c.Credentials().SetLogin("grace@example.com", "pw")
			So(c.ResendOtp(ctx), ShouldBeNil)
			release()

			Convey("Then the older completion is discarded", func() {
				So(errors.Is(<-done, ErrStale), ShouldBeTrue)
				So(c.State().Email, ShouldEqual, "grace@example.com")
			})
		})

		Convey("When the modal closes while a send is in flight", func() {
			entered, release := be.holdNextStart()
			done := make(chan error, 1)
			go func() { done <- c.ResendOtp(ctx) }()
			<-entered
			c.Close()
			release()

			Convey("Then the completion does not reopen the challenge", func() {
				So(errors.Is(<-done, ErrStale), ShouldBeTrue)
				So(c.State().Status, ShouldEqual, model.OtpIdle)
				So(c.State().OtpVisible, ShouldBeFalse)
			})
		})
	})
}

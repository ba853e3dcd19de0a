package auth

import (
	"github.com/okian/recruitportal/internal/app/ui"
	"github.com/okian/recruitportal/internal/domain/sequence"
	"github.com/okian/recruitportal/pkg/logger"
)

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where notices go.
func WithNotifier(n ui.Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithNavigator sets the redirect target after verification.
func WithNavigator(n ui.Navigator) Option {
	return func(c *Controller) {
		if n != nil {
			c.navigator = n
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTracker shares a request sequence tracker.
func WithTracker(t sequence.Tracker) Option {
	return func(c *Controller) {
		if t != nil {
			c.seq = t
		}
	}
}

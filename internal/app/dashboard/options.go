package dashboard

import (
	"time"

	"github.com/okian/recruitportal/internal/adapters/ledger"
	"github.com/okian/recruitportal/internal/app/ui"
	"github.com/okian/recruitportal/internal/domain/sequence"
	"github.com/okian/recruitportal/pkg/logger"
	"github.com/okian/recruitportal/pkg/metrics"
)

// common holds the collaborators both dashboards share.
type common struct {
	notifier ui.Notifier
	log      logger.Logger
	seq      sequence.Tracker
	now      func() time.Time
	ledger   ledger.Store
}

// Option configures a dashboard.
type Option func(*common)

func newCommon(opts []Option) common {
	c := common{
		notifier: ui.Discard{},
		log:      logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.seq == nil {
		c.seq = sequence.New(sequence.WithStaleHook(metrics.RecordStaleResponse))
	}
	if c.ledger == nil {
		c.ledger = ledger.NewMemoryStore()
	}
	return c
}

// WithNotifier sets where notices go.
func WithNotifier(n ui.Notifier) Option {
	return func(c *common) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger sets the dashboard logger.
func WithLogger(l logger.Logger) Option {
	return func(c *common) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTracker shares a request sequence tracker.
func WithTracker(t sequence.Tracker) Option {
	return func(c *common) {
		if t != nil {
			c.seq = t
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *common) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLedger sets the local application ledger used by the candidate dashboard.
func WithLedger(s ledger.Store) Option {
	return func(c *common) {
		if s != nil {
			c.ledger = s
		}
	}
}

// Package service wires the portal client, the auth modal controller and both
// dashboards into one session-scoped object.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/recruitportal/internal/adapters/http/portalapi"
	"github.com/okian/recruitportal/internal/adapters/ledger"
	"github.com/okian/recruitportal/internal/app/auth"
	"github.com/okian/recruitportal/internal/app/dashboard"
	"github.com/okian/recruitportal/internal/app/ui"
	"github.com/okian/recruitportal/internal/config"
	"github.com/okian/recruitportal/internal/domain/sequence"
	"github.com/okian/recruitportal/pkg/logger"
	"github.com/okian/recruitportal/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// ErrNotStarted is returned by accessors used before Start.
var ErrNotStarted = errors.New("session not started")

// Session holds everything one signed-in user interacts with.
type Session struct {
	mu sync.RWMutex

	cfg       *config.Config
	notifier  ui.Notifier
	navigator ui.Navigator
	client    *portalapi.Client
	store     ledger.Store
	rdb       *redis.Client

	seq       sequence.Tracker
	auth      *auth.Controller
	candidate *dashboard.Candidate
	recruiter *dashboard.Recruiter

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithConfig sets the configuration. Defaults to config.New().
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets where every controller sends notices.
func WithNotifier(n ui.Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithNavigator sets the post-login redirect target.
func WithNavigator(n ui.Navigator) Option {
	return func(s *Session) {
		if n != nil {
			s.navigator = n
		}
	}
}

// WithClient uses a preconfigured API client instead of building one from config.
func WithClient(c *portalapi.Client) Option {
	return func(s *Session) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLedger uses the given ledger instead of the configured backend.
func WithLedger(store ledger.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a Session. Nothing is connected until Start.
func New(opts ...Option) *Session {
	s := &Session{
		cfg:       config.New(),
		notifier:  ui.Discard{},
		navigator: ui.Discard{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the client and ledger, restores the saved cookies and creates
// the controllers.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.client == nil {
		client, err := portalapi.New(s.cfg.BaseURL,
			portalapi.WithTimeout(s.cfg.RequestTimeout),
			portalapi.WithCSRF(portalapi.StaticToken(s.cfg.CSRFToken)),
			portalapi.WithLogger(s.logger.Named("portalapi")),
		)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		s.client = client
	}
	if s.cfg.SessionFile != "" {
		if err := s.client.LoadSession(s.cfg.SessionFile); err != nil {
			s.logger.Warn(ctx, "saved session ignored", logger.Error(err))
		}
	}

	if s.store == nil {
		store, err := s.openLedger(ctx)
		if err != nil {
			return err
		}
		s.store = store
	}

	s.seq = sequence.New(sequence.WithStaleHook(metrics.RecordStaleResponse))
	s.auth = auth.New(s.client,
		auth.WithNotifier(s.notifier),
		auth.WithNavigator(s.navigator),
		auth.WithLogger(s.logger.Named("auth")),
		auth.WithTracker(s.seq),
	)
	common := []dashboard.Option{
		dashboard.WithNotifier(s.notifier),
		dashboard.WithTracker(s.seq),
		dashboard.WithLedger(s.store),
	}
	s.candidate = dashboard.NewCandidate(s.client, append(common, dashboard.WithLogger(s.logger.Named("candidate")))...)
	s.recruiter = dashboard.NewRecruiter(s.client, append(common, dashboard.WithLogger(s.logger.Named("recruiter")))...)

	s.started = true
	s.logger.Info(ctx, "portal session started",
		logger.String("baseURL", s.client.BaseURL().String()),
		logger.String("ledger", s.cfg.LedgerBackend),
		logger.Duration("timeout", s.cfg.RequestTimeout),
	)
	return nil
}

func (s *Session) openLedger(ctx context.Context) (ledger.Store, error) {
	switch s.cfg.LedgerBackend {
	case config.LedgerRedis:
		s.rdb = redis.NewClient(&redis.Options{Addr: s.cfg.RedisAddr})
		store := ledger.NewRedisStore(s.rdb, s.cfg.RedisKey)
		if err := store.Ping(ctx); err != nil {
			_ = s.rdb.Close()
			s.rdb = nil
			return nil, fmt.Errorf("open redis ledger at %s: %w", s.cfg.RedisAddr, err)
		}
		return store, nil
	case config.LedgerFile, "":
		return ledger.NewFileStore(s.cfg.LedgerPath), nil
	}
	return nil, fmt.Errorf("unknown ledger backend %q", s.cfg.LedgerBackend)
}

// Stop persists the cookie jar and closes the ledger connection.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	if s.cfg.SessionFile != "" {
		if err := s.client.SaveSession(s.cfg.SessionFile); err != nil {
			s.logger.Warn(ctx, "session not saved", logger.Error(err))
		}
	}
	if s.rdb != nil {
		_ = s.rdb.Close()
		s.rdb = nil
	}
	s.started = false
	s.logger.Info(ctx, "portal session stopped")
}

// Logout forgets the saved session. The controllers stay usable.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if s.auth != nil {
		s.auth.Close()
	}
	if s.cfg.SessionFile == "" {
		return nil
	}
	if err := s.client.ClearSession(s.cfg.SessionFile); err != nil {
		return err
	}
	// Stop would otherwise write the cookies back.
	s.cfg.SessionFile = ""
	s.logger.Info(ctx, "session cleared")
	return nil
}

// Auth returns the auth modal controller.
func (s *Session) Auth() *auth.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

// Candidate returns the candidate dashboard.
func (s *Session) Candidate() *dashboard.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidate
}

// Recruiter returns the recruiter dashboard.
func (s *Session) Recruiter() *dashboard.Recruiter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recruiter
}

// Client returns the API client.
func (s *Session) Client() *portalapi.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Ledger returns the local application ledger.
func (s *Session) Ledger() ledger.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Stats returns session details for diagnostics.
func (s *Session) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
		"ledger":  s.cfg.LedgerBackend,
		"baseURL": s.cfg.BaseURL,
	}
	if s.started {
		stats["otpStatus"] = string(s.auth.State().Status)
		if snap, err := s.store.Snapshot(ctx); err == nil {
			stats["ledgerEntries"] = len(snap.Entries)
		}
	}
	return stats
}

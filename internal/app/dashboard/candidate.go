package dashboard

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/okian/recruitportal/internal/adapters/http/portalapi"
	"github.com/okian/recruitportal/internal/app/ui"
	"github.com/okian/recruitportal/internal/domain/jobfilter"
	"github.com/okian/recruitportal/internal/domain/model"
	"github.com/okian/recruitportal/pkg/logger"
)

// CandidateBackend is the part of the portal API the candidate dashboard uses.
type CandidateBackend interface {
	Jobs(ctx context.Context) ([]model.JobRecord, error)
	Apply(ctx context.Context, f model.ApplyForm) (portalapi.Applied, error)
}

// Candidate is the candidate dashboard: job listing with local filters,
// applications and the locally recorded status summary.
type Candidate struct {
	common
	api  CandidateBackend
	jobs *Cache[model.JobRecord]

	mu     sync.RWMutex
	filter jobfilter.Filter
}

// NewCandidate creates a candidate dashboard.
func NewCandidate(api CandidateBackend, opts ...Option) *Candidate {
	c := &Candidate{common: newCommon(opts), api: api}
	c.jobs = NewCache[model.JobRecord]("candidate.jobs", c.seq)
	return c
}

// Jobs exposes the job cache.
func (c *Candidate) Jobs() *Cache[model.JobRecord] { return c.jobs }

// LoadJobs refreshes the job list. Failures keep the previous data and are reported.
func (c *Candidate) LoadJobs(ctx context.Context) error {
	res := c.jobs.Refresh(ctx, c.api.Jobs)
	if err := res.Err(); err != nil {
		if errors.Is(err, ErrStale) {
			return err
		}
		c.log.Warn(ctx, "job refresh failed", logger.Error(err))
		c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelError, Message: "Failed to load jobs"})
		return err
	}
	c.log.Debug(ctx, "jobs loaded", logger.Int("count", len(res.Value())))
	return nil
}

// SetFilter replaces the active filter.
func (c *Candidate) SetFilter(f jobfilter.Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

// Filter returns the active filter.
func (c *Candidate) Filter() jobfilter.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// JobsView is the filtered job list ready for rendering.
type JobsView struct {
	Jobs  []model.JobRecord
	Cards []model.JobCard
	// Total is the number of jobs before filtering.
	Total int
	Empty bool
}

// View applies the active filter to the visible jobs.
func (c *Candidate) View() JobsView {
	visible := c.jobs.Visible()
	jobs := jobfilter.Apply(visible, c.Filter())
	cards := make([]model.JobCard, 0, len(jobs))
	for _, j := range jobs {
		cards = append(cards, j.Card())
	}
	return JobsView{Jobs: jobs, Cards: cards, Total: len(visible), Empty: len(jobs) == 0}
}

// Job looks up a cached job by id.
func (c *Candidate) Job(id model.ID) (model.JobRecord, bool) {
	for _, j := range c.jobs.Items() {
		if j.ID == id {
			return j, true
		}
	}
	return model.JobRecord{}, false
}

// Apply submits an application and records it in the local ledger.
func (c *Candidate) Apply(ctx context.Context, f model.ApplyForm) (portalapi.Applied, error) {
	const op = "dashboard.Apply"
	if err := f.Validate(); err != nil {
		verr := portalapi.Validation(op, err)
		c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelError, Message: portalapi.Message(verr, "", "")})
		return portalapi.Applied{}, verr
	}

	res, err := c.api.Apply(ctx, f)
	if err != nil {
		c.notifier.Notify(ctx, ui.Notice{
			Level:   ui.LevelError,
			Message: portalapi.Message(err, "Failed to submit application", "Network error while applying"),
		})
		return portalapi.Applied{}, err
	}

	id := res.ApplicationID
	if id == "" {
		id = model.ID(strconv.FormatInt(c.now().UnixMilli(), 10))
	}
	if lerr := c.ledger.Append(ctx, model.LedgerEntry{ID: id, Status: model.StatusApplied}); lerr != nil {
		c.log.Error(ctx, "ledger append failed", logger.String("application_id", id.String()), logger.Error(lerr))
	}
	c.log.Info(ctx, "application submitted", logger.String("job_id", f.JobID.String()), logger.String("application_id", id.String()))
	c.notifier.Notify(ctx, ui.Notice{Level: ui.LevelSuccess, Message: "Application submitted"})
	return res, nil
}

// Summary returns the status counts recorded locally. It is never reconciled
// with the backend, so it reflects what this client last recorded.
func (c *Candidate) Summary(ctx context.Context) (model.ApplicationSummary, error) {
	snap, err := c.ledger.Snapshot(ctx)
	if err != nil {
		c.log.Warn(ctx, "ledger read failed", logger.Error(err))
		return model.ApplicationSummary{}, err
	}
	return snap.Summary(), nil
}

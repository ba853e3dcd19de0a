package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/recruitportal/internal/adapters/http/portalapi"
	"github.com/okian/recruitportal/internal/app/ui"
	"github.com/okian/recruitportal/internal/domain/model"
	"github.com/okian/recruitportal/internal/domain/score"
	"github.com/okian/recruitportal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// RecruiterBackend is the part of the portal API the recruiter dashboard uses.
type RecruiterBackend interface {
	RecruiterJobs(ctx context.Context) ([]model.JobRecord, error)
	CreateJob(ctx context.Context, d model.JobDraft) (portalapi.CreatedJob, error)
	DeleteJob(ctx context.Context, id model.ID) error
	Applications(ctx context.Context, jobID model.ID) ([]model.ApplicationRecord, error)
	Application(ctx context.Context, id model.ID) (model.ApplicationDetail, error)
	SendEmail(ctx context.Context, d model.EmailDraft, quick bool) error
	Stats(ctx context.Context) (model.RecruiterStats, error)
	Ranking(ctx context.Context) ([]model.RankedCandidate, error)
}

// Tab is a recruiter dashboard section.
type Tab string

// Recruiter dashboard tabs.
const (
	TabOverview   Tab = "overview"
	TabJobs       Tab = "jobs"
	TabApplicants Tab = "applicants"
	TabPost       Tab = "post"
)

// ParseTab maps a tab name, defaulting to the overview.
func ParseTab(s string) Tab {
	switch t := Tab(s); t {
	case TabJobs, TabApplicants, TabPost:
		return t
	}
	return TabOverview
}

const opStats = "recruiter.stats"

// EditNotice is shown for the job edit action, which the backend does not support yet.
const EditNotice = "Edit functionality coming soon!"

// Recruiter is the recruiter dashboard.
type Recruiter struct {
	common
	api     RecruiterBackend
	jobs    *Cache[model.JobRecord]
	apps    *Cache[model.ApplicationRecord]
	ranking *Cache[model.RankedCandidate]

	mu        sync.RWMutex
	tab       Tab
	jobFilter model.ID
	stats     model.RecruiterStats
}

// NewRecruiter creates a recruiter dashboard on the overview tab.
func NewRecruiter(api RecruiterBackend, opts ...Option) *Recruiter {
	r := &Recruiter{common: newCommon(opts), api: api, tab: TabOverview}
	r.jobs = NewCache[model.JobRecord]("recruiter.jobs", r.seq)
	r.apps = NewCache[model.ApplicationRecord]("recruiter.applications", r.seq)
	r.ranking = NewCache[model.RankedCandidate]("recruiter.ranking", r.seq)
	return r
}

// Jobs exposes the recruiter job cache.
func (r *Recruiter) Jobs() *Cache[model.JobRecord] { return r.jobs }

// Applications exposes the application cache.
func (r *Recruiter) Applications() *Cache[model.ApplicationRecord] { return r.apps }

// Tab returns the active tab.
func (r *Recruiter) Tab() Tab {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tab
}

// JobFilter returns the job id applications are filtered by, or "".
func (r *Recruiter) JobFilter() model.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jobFilter
}

// Stats returns the last fetched overview counters.
func (r *Recruiter) Stats() model.RecruiterStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// Load fetches everything the dashboard shows on first open.
func (r *Recruiter) Load(ctx context.Context) error {
	return r.refetch(ctx, true, true, true)
}

// SwitchTab activates a tab. The jobs and applicants tabs drop their cache and refetch.
func (r *Recruiter) SwitchTab(ctx context.Context, t Tab) error {
	r.mu.Lock()
	r.tab = t
	r.mu.Unlock()
	switch t {
	case TabJobs:
		r.jobs.Invalidate()
		return r.RefreshJobs(ctx)
	case TabApplicants:
		r.apps.Invalidate()
		return r.RefreshApplications(ctx)
	}
	return nil
}

// RefreshJobs refetches the recruiter's jobs.
func (r *Recruiter) RefreshJobs(ctx context.Context) error {
	res := r.jobs.Refresh(ctx, r.api.RecruiterJobs)
	return r.reportRefresh(ctx, res.Err(), "Error loading jobs")
}

// RefreshApplications refetches applications for the active job filter.
func (r *Recruiter) RefreshApplications(ctx context.Context) error {
	jobID := r.JobFilter()
	res := r.apps.Refresh(ctx, func(ctx context.Context) ([]model.ApplicationRecord, error) {
		return r.api.Applications(ctx, jobID)
	})
	return r.reportRefresh(ctx, res.Err(), "Error loading applications")
}

// RefreshStats refetches the overview counters. Failures keep the old counters silently.
func (r *Recruiter) RefreshStats(ctx context.Context) error {
	tok := r.seq.Issue(opStats)
	stats, err := r.api.Stats(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.seq.Latest(tok) {
		return ErrStale
	}
	if err != nil {
		r.log.Warn(ctx, "stats refresh failed", logger.Error(err))
		return err
	}
	r.stats = stats
	return nil
}

// SetJobFilter shows the applicants tab filtered by job id ("" for all) and refetches.
func (r *Recruiter) SetJobFilter(ctx context.Context, jobID model.ID) error {
	r.mu.Lock()
	r.tab = TabApplicants
	r.jobFilter = jobID
	r.mu.Unlock()
	r.apps.Invalidate()
	return r.RefreshApplications(ctx)
}

// ShowApplicationsForJob is the "view applications" action of a job row.
func (r *Recruiter) ShowApplicationsForJob(ctx context.Context, jobID model.ID) error {
	return r.SetJobFilter(ctx, jobID)
}

// CreateJob posts a job, then shows the jobs tab with fresh jobs and stats.
func (r *Recruiter) CreateJob(ctx context.Context, d model.JobDraft) (portalapi.CreatedJob, error) {
	return r.postJob(ctx, d, "Error posting job. Please try again.")
}

func (r *Recruiter) postJob(ctx context.Context, d model.JobDraft, networkFallback string) (portalapi.CreatedJob, error) {
	if err := d.Validate(); err != nil {
		verr := portalapi.Validation("dashboard.CreateJob", err)
		r.notifier.Notify(ctx, ui.Notice{Level: ui.LevelError, Message: portalapi.Message(verr, "", "")})
		return portalapi.CreatedJob{}, verr
	}
	created, err := r.api.CreateJob(ctx, d)
	if err != nil {
		r.notifier.Notify(ctx, ui.Notice{
			Level:   ui.LevelError,
			Message: portalapi.Message(err, "Failed to post job", networkFallback),
		})
		return portalapi.CreatedJob{}, err
	}
	r.log.Info(ctx, "job posted", logger.String("job_id", created.JobID.String()))
	r.notifier.Notify(ctx, ui.Notice{Level: ui.LevelSuccess, Message: "Job posted successfully!"})

	r.mu.Lock()
	r.tab = TabJobs
	r.mu.Unlock()
	r.jobs.Invalidate()
	return created, r.refetch(ctx, true, false, true)
}

// QuickPost creates a job from the reduced form with its defaults.
func (r *Recruiter) QuickPost(ctx context.Context, title, description, company string) (portalapi.CreatedJob, error) {
	d, err := model.QuickJobDraft(title, description, company)
	if err != nil {
		verr := portalapi.Validation("dashboard.QuickPost", err)
		r.notifier.Notify(ctx, ui.Notice{Level: ui.LevelError, Message: portalapi.Message(verr, "", "")})
		return portalapi.CreatedJob{}, verr
	}
	return r.postJob(ctx, d, "Network error")
}

// EditJob is not supported by the backend yet; it only shows a notice.
func (r *Recruiter) EditJob(ctx context.Context, _ model.ID) {
	r.notifier.Notify(ctx, ui.Notice{Level: ui.LevelInfo, Message: EditNotice})
}

// DeleteJob removes a job after confirmation, then refetches jobs and stats.
// It reports false without a request when the user declines.
func (r *Recruiter) DeleteJob(ctx context.Context, id model.ID, confirm ui.Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(ctx, "Are you sure you want to delete this job?") {
		return false, nil
	}
	if err := r.api.DeleteJob(ctx, id); err != nil {
		r.notifier.Notify(ctx, ui.Notice{
			Level:   ui.LevelError,
			Message: portalapi.Message(err, "Failed to delete job", "Error deleting job"),
		})
		return false, err
	}
	r.log.Info(ctx, "job deleted", logger.String("job_id", id.String()))
	r.notifier.Notify(ctx, ui.Notice{Level: ui.LevelSuccess, Message: "Job deleted successfully!"})
	r.jobs.Invalidate()
	return true, r.refetch(ctx, true, false, true)
}

// Accept sends the acceptance template straight away.
func (r *Recruiter) Accept(ctx context.Context, applicationID model.ID) error {
	d := model.EmailTemplate(model.EmailAccept, applicationID)
	if err := r.api.SendEmail(ctx, d, true); err != nil {
		r.notifier.Notify(ctx, ui.Notice{
			Level:   ui.LevelError,
			Message: portalapi.Message(err, "Failed to send email", "Network error while sending email"),
		})
		return err
	}
	r.notifier.Notify(ctx, ui.Notice{Level: ui.LevelSuccess, Message: "Confirmation email sent!"})
	return r.afterEmail(ctx)
}

// ScheduleInterview sends the interview template.
func (r *Recruiter) ScheduleInterview(ctx context.Context, applicationID model.ID) error {
	return r.SendEmail(ctx, model.EmailTemplate(model.EmailInterview, applicationID))
}

// SendEmail sends an edited template from the email dialog.
func (r *Recruiter) SendEmail(ctx context.Context, d model.EmailDraft) error {
	if err := r.api.SendEmail(ctx, d, false); err != nil {
		r.notifier.Notify(ctx, ui.Notice{
			Level:   ui.LevelError,
			Message: portalapi.Message(err, "Failed to send email", "Error sending email"),
		})
		return err
	}
	r.notifier.Notify(ctx, ui.Notice{Level: ui.LevelSuccess, Message: "Email sent successfully!"})
	return r.afterEmail(ctx)
}

// ApplicationView is a single application prepared for the details dialog.
type ApplicationView struct {
	model.ApplicationDetail
	Initials   string
	Match      int
	Experience string
	Salary     string
	ResumeLink string
}

// ApplicationDetails fetches and prepares one application.
func (r *Recruiter) ApplicationDetails(ctx context.Context, id model.ID) (ApplicationView, error) {
	d, err := r.api.Application(ctx, id)
	if err != nil {
		r.notifier.Notify(ctx, ui.Notice{Level: ui.LevelError, Message: "Error loading application details"})
		return ApplicationView{}, err
	}
	return ApplicationView{
		ApplicationDetail: d,
		Initials:          model.ApplicationRecord{CandidateName: d.CandidateName}.Initials(),
		Match:             score.Normalize(d.SimilarityScore.Float()),
		Experience:        d.ExperienceText(),
		Salary:            d.SalaryText(),
		ResumeLink:        d.ResumeLink(),
	}, nil
}

// ApplicantRow is an application list entry with its display percent.
type ApplicantRow struct {
	model.ApplicationRecord
	Initials string
	Match    int
}

// Applicants returns the visible applications with normalized scores.
func (r *Recruiter) Applicants() []ApplicantRow {
	apps := r.apps.Visible()
	rows := make([]ApplicantRow, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, ApplicantRow{
			ApplicationRecord: a,
			Initials:          a.Initials(),
			Match:             score.Normalize(a.SimilarityScore.Float()),
		})
	}
	return rows
}

// RankingView is the ranking table with the best row marked.
type RankingView struct {
	Candidates []model.RankedCandidate
	// Best is the index of the highest score, -1 when none is scored.
	Best  int
	Empty bool
}

// Ranking fetches the candidate ranking.
func (r *Recruiter) Ranking(ctx context.Context) (RankingView, error) {
	res := r.ranking.Refresh(ctx, r.api.Ranking)
	if err := res.Err(); err != nil {
		if !errors.Is(err, ErrStale) {
			r.log.Warn(ctx, "ranking unavailable", logger.Error(err))
		}
		return RankingView{Best: -1, Empty: true}, err
	}
	list := res.Value()
	scores := make([]*float64, 0, len(list))
	for _, c := range list {
		scores = append(scores, c.Score)
	}
	return RankingView{Candidates: list, Best: score.Best(scores), Empty: len(list) == 0}, nil
}

// afterEmail refreshes applications and jobs so counts and statuses are current.
func (r *Recruiter) afterEmail(ctx context.Context) error {
	r.apps.Invalidate()
	r.jobs.Invalidate()
	return r.refetch(ctx, true, true, false)
}

// refetch runs the selected refreshes concurrently and returns the first
// non-stale error. Each refresh reports its own failure.
func (r *Recruiter) refetch(ctx context.Context, jobs, apps, stats bool) error {
	var g errgroup.Group
	if jobs {
		g.Go(func() error { return ignoreStale(r.RefreshJobs(ctx)) })
	}
	if apps {
		g.Go(func() error { return ignoreStale(r.RefreshApplications(ctx)) })
	}
	if stats {
		g.Go(func() error { return ignoreStale(r.RefreshStats(ctx)) })
	}
	return g.Wait()
}

func (r *Recruiter) reportRefresh(ctx context.Context, err error, message string) error {
	if err == nil || errors.Is(err, ErrStale) {
		return err
	}
	r.log.Warn(ctx, "refresh failed", logger.Error(err))
	r.notifier.Notify(ctx, ui.Notice{Level: ui.LevelError, Message: message})
	return err
}

func ignoreStale(err error) error {
	if errors.Is(err, ErrStale) {
		return nil
	}
	return err
}

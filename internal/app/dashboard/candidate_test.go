package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/recruitportal/internal/adapters/http/portalapi"
	"github.com/okian/recruitportal/internal/adapters/ledger"
	"github.com/okian/recruitportal/internal/app/ui"
	"github.com/okian/recruitportal/internal/domain/jobfilter"
	"github.com/okian/recruitportal/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeCandidateAPI struct {
	mu       sync.Mutex
	jobs     []model.JobRecord
	jobsErr  error
	applied  []model.ApplyForm
	applyRes portalapi.Applied
	applyErr error
}

func (f *fakeCandidateAPI) Jobs(context.Context) ([]model.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.jobsErr != nil {
		return nil, f.jobsErr
	}
	return append([]model.JobRecord(nil), f.jobs...), nil
}

func (f *fakeCandidateAPI) Apply(_ context.Context, form model.ApplyForm) (portalapi.Applied, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, form)
	return f.applyRes, f.applyErr
}

func sampleJobs() []model.JobRecord {
	return []model.JobRecord{
		{ID: "1", Title: "Go Engineer", Location: "Remote", Skills: "go, grpc"},
		{ID: "2", Title: "Designer", Location: "Goa, India", Type: "Onsite"},
		{ID: "3", Title: "Data Analyst", Location: "Pune (Hybrid)", Skills: "sql"},
	}
}

func validForm() model.ApplyForm {
	return model.ApplyForm{
		JobID:      "1",
		FullName:   "Ada Lovelace",
		Email:      "ada@example.com",
		ResumeName: "cv.pdf",
		Resume:     strings.NewReader("%PDF"),
	}
}

func TestCandidateJobs(t *testing.T) {
	Convey("Given a candidate dashboard", t, func() {
		ctx := context.Background()
		api := &fakeCandidateAPI{jobs: sampleJobs()}
		rec := &ui.Recorder{}
		c := NewCandidate(api, WithNotifier(rec))

		So(c.LoadJobs(ctx), ShouldBeNil)

		Convey("The unfiltered view lists every job as a card", func() {
			v := c.View()
			So(v.Total, ShouldEqual, 3)
			So(len(v.Cards), ShouldEqual, 3)
			So(v.Cards[0].Category, ShouldEqual, "go")
			So(v.Empty, ShouldBeFalse)
		})

		Convey("Filters narrow the view without refetching", func() {
			c.SetFilter(jobfilter.Filter{Remote: true})
			v := c.View()
			So(len(v.Jobs), ShouldEqual, 1)
			So(v.Jobs[0].ID, ShouldEqual, model.ID("1"))
			So(v.Total, ShouldEqual, 3)

			c.SetFilter(jobfilter.Filter{Query: "nothing matches this"})
			So(c.View().Empty, ShouldBeTrue)
		})

		Convey("Job finds cached jobs by id", func() {
			j, ok := c.Job("2")
			So(ok, ShouldBeTrue)
			So(j.Title, ShouldEqual, "Designer")
			_, ok = c.Job("404")
			So(ok, ShouldBeFalse)
		})

		Convey("A failed reload hides the list and notifies", func() {
			api.jobsErr = portalapi.NewKind("test", portalapi.ErrTransport)
			So(c.LoadJobs(ctx), ShouldNotBeNil)
			So(c.View().Empty, ShouldBeTrue)
			So(len(c.Jobs().Items()), ShouldEqual, 3)
			So(rec.Last(), ShouldResemble, ui.Notice{Level: ui.LevelError, Message: "Failed to load jobs"})
		})
	})
}

func TestCandidateApply(t *testing.T) {
	Convey("Given a candidate dashboard with a memory ledger", t, func() {
		ctx := context.Background()
		api := &fakeCandidateAPI{}
		rec := &ui.Recorder{}
		store := ledger.NewMemoryStore()
		now := time.UnixMilli(1700000000123)
		c := NewCandidate(api, WithNotifier(rec), WithLedger(store), WithClock(func() time.Time { return now }))

		Convey("Invalid forms never reach the backend", func() {
			_, err := c.Apply(ctx, model.ApplyForm{FullName: "Ada"})
			So(errors.Is(err, portalapi.ErrValidation), ShouldBeTrue)
			So(api.applied, ShouldBeEmpty)
			So(rec.Last().Message, ShouldEqual, "Please attach a resume (.pdf or .doc/.docx)")
		})

		Convey("A successful application is recorded with the server id", func() {
			api.applyRes = portalapi.Applied{ApplicationID: "77", Score: 0.9}
			res, err := c.Apply(ctx, validForm())
			So(err, ShouldBeNil)
			So(res.Score.Float(), ShouldAlmostEqual, 0.9)
			So(rec.Last(), ShouldResemble, ui.Notice{Level: ui.LevelSuccess, Message: "Application submitted"})

			snap, _ := store.Snapshot(ctx)
			So(snap.Entries, ShouldResemble, []model.LedgerEntry{{ID: "77", Status: model.StatusApplied}})

			sum, err := c.Summary(ctx)
			So(err, ShouldBeNil)
			So(sum.Applied, ShouldEqual, 1)
		})

		Convey("A missing application id falls back to the clock", func() {
			_, err := c.Apply(ctx, validForm())
			So(err, ShouldBeNil)
			snap, _ := store.Snapshot(ctx)
			So(snap.Entries[0].ID, ShouldEqual, model.ID("1700000000123"))
		})

		Convey("Server and network failures use their fallbacks and record nothing", func() {
			api.applyErr = portalapi.NewKind("test", portalapi.ErrServer)
			_, err := c.Apply(ctx, validForm())
			So(err, ShouldNotBeNil)
			So(rec.Last().Message, ShouldEqual, "Failed to submit application")

			api.applyErr = portalapi.NewKind("test", portalapi.ErrTransport)
			_, _ = c.Apply(ctx, validForm())
			So(rec.Last().Message, ShouldEqual, "Network error while applying")

			snap, _ := store.Snapshot(ctx)
			So(snap.Entries, ShouldBeEmpty)
		})
	})
}

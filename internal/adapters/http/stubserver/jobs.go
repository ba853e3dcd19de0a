package stubserver

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/okian/recruitportal/pkg/logger"
)

func (s *Server) jobJSON(j job) render.M {
	recruiter := s.store.users[j.Recruiter]
	return render.M{
		"id":                j.ID,
		"title":             j.Title,
		"description":       j.Description,
		"skills":            j.Skills,
		"experience":        j.Experience,
		"location":          j.Location,
		"salary":            j.Salary,
		"type":              j.Type,
		"category":          j.Category,
		"company_name":      j.CompanyName,
		"recruiter_name":    recruiter.Name,
		"application_count": s.store.applicationCount(j.ID),
		"created_at":        j.CreatedAt.Format(time.RFC3339),
	}
}

// jobsJSON lists the jobs matching keep, newest first. Callers hold the store lock.
func (s *Server) jobsJSON(keep func(job) bool) []render.M {
	out := make([]render.M, 0, len(s.store.jobs))
	for i := len(s.store.jobs) - 1; i >= 0; i-- {
		if j := s.store.jobs[i]; keep(j) {
			out = append(out, s.jobJSON(j))
		}
	}
	return out
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	ok(w, r, render.M{"jobs": s.jobsJSON(func(job) bool { return true })})
}

func (s *Server) handleRecruiterJobs(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r).Email
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	ok(w, r, render.M{"jobs": s.jobsJSON(func(j job) bool { return j.Recruiter == me })})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		fail(w, r, ErrBadForm)
		return
	}
	j := job{
		Recruiter:   userFrom(r).Email,
		CompanyName: formValue(r, "company_name"),
		Title:       formValue(r, "title"),
		Type:        formValue(r, "type"),
		Location:    formValue(r, "location"),
		Salary:      formValue(r, "salary"),
		Description: formValue(r, "description"),
		Skills:      formValue(r, "skills"),
		Experience:  formValue(r, "experience"),
		Category:    formValue(r, "category"),
		CreatedAt:   time.Now(),
	}
	if j.CompanyName == "" || j.Title == "" || j.Description == "" {
		fail(w, r, ErrJobFields)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	j.ID = s.store.nextJob
	s.store.nextJob++
	s.store.jobs = append(s.store.jobs, j)
	s.log.Info(r.Context(), "job created", logger.Int("jobID", j.ID), logger.String("recruiter", j.Recruiter))
	ok(w, r, render.M{"job_id": j.ID, "company_name": j.CompanyName})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := atoi(chi.URLParam(r, "id"))
	me := userFrom(r).Email

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	j, found := s.store.jobByID(id)
	if !found || j.Recruiter != me {
		fail(w, r, ErrJobNotFound)
		return
	}
	jobs := s.store.jobs[:0]
	for _, other := range s.store.jobs {
		if other.ID != id {
			jobs = append(jobs, other)
		}
	}
	s.store.jobs = jobs
	apps := s.store.apps[:0]
	for _, a := range s.store.apps {
		if a.JobID != id {
			apps = append(apps, a)
		}
	}
	s.store.apps = apps
	ok(w, r, render.M{"message": "Job deleted"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r).Email
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	active := 0
	for _, j := range s.store.jobs {
		if j.Recruiter == me {
			active++
		}
	}
	apps := s.store.recruiterApps(me, 0)
	pendingReviews, hired := 0, 0
	for _, a := range apps {
		switch a.Status {
		case "applied", "":
			pendingReviews++
		case "accepted":
			hired++
		}
	}
	ok(w, r, render.M{"stats": render.M{
		"activeJobs":        active,
		"totalApplications": len(apps),
		"pendingReviews":    pendingReviews,
		"hiredCandidates":   hired,
	}})
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r).Email
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	apps := s.store.recruiterApps(me, 0)
	sort.SliceStable(apps, func(i, j int) bool {
		a, b := apps[i].Score, apps[j].Score
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a > *b
	})
	out := make([]render.M, 0, len(apps))
	for _, a := range apps {
		j, _ := s.store.jobByID(a.JobID)
		out = append(out, render.M{
			"id":        a.ID,
			"name":      a.FullName,
			"email":     strings.ToLower(a.Email),
			"score":     a.Score,
			"job_id":    a.JobID,
			"job_title": j.Title,
		})
	}
	ok(w, r, render.M{"candidates": out})
}

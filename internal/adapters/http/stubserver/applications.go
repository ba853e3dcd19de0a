package stubserver

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/okian/recruitportal/pkg/logger"
)

const uploadDir = "/srv/portal/uploads"

// handleApply stores an application. The resume body is read and discarded;
// only its stored path is kept, with the "::" metadata suffix the real backend appends.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		fail(w, r, ErrBadForm)
		return
	}
	resume, hdr, err := r.FormFile("resume")
	if err != nil {
		fail(w, r, ErrApplyFields)
		return
	}
	size, err := io.Copy(io.Discard, resume)
	_ = resume.Close()
	if err != nil {
		fail(w, r, ErrBadForm)
		return
	}
	a := application{
		JobID:          atoi(formValue(r, "job_id")),
		Candidate:      userFrom(r).Email,
		FullName:       formValue(r, "full_name"),
		Email:          formValue(r, "email"),
		Phone:          formValue(r, "phone"),
		Experience:     formValue(r, "experience"),
		Skills:         formValue(r, "skills"),
		ExpectedSalary: formValue(r, "expected_salary"),
		CoverLetter:    formValue(r, "cover_letter"),
		Status:         "applied",
		CreatedAt:      time.Now(),
	}
	if a.FullName == "" || a.Email == "" {
		fail(w, r, ErrApplyFields)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	j, found := s.store.jobByID(a.JobID)
	if !found {
		fail(w, r, ErrJobNotFound)
		return
	}
	a.ID = s.store.nextApp
	s.store.nextApp++
	a.ResumePath = fmt.Sprintf("%s/%d_%s::phone:%s|exp:%s",
		uploadDir, a.ID, filepath.Base(hdr.Filename), a.Phone, a.Experience)
	a.Score = matchScore(j.Skills, a.Skills+" "+a.CoverLetter)
	s.store.apps = append(s.store.apps, a)

	s.log.Info(r.Context(), "application received",
		logger.Int("applicationID", a.ID), logger.Int("jobID", a.JobID), logger.Int("resumeBytes", int(size)))
	ok(w, r, render.M{"application_id": a.ID, "score": a.Score})
}

func (s *Server) handleApplications(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r).Email
	jobID := atoi(r.URL.Query().Get("job_id"))

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	apps := s.store.recruiterApps(me, jobID)
	out := make([]render.M, 0, len(apps))
	for _, a := range apps {
		j, _ := s.store.jobByID(a.JobID)
		out = append(out, render.M{
			"id":               a.ID,
			"job_id":           a.JobID,
			"candidate_name":   a.FullName,
			"candidate_email":  a.Email,
			"job_title":        j.Title,
			"similarity_score": a.Score,
			"experience":       a.Experience,
			"expected_salary":  a.ExpectedSalary,
			"resume_path":      a.ResumePath,
			"status":           a.Status,
			"created_at":       a.CreatedAt.Format(time.RFC3339),
		})
	}
	ok(w, r, render.M{"applications": out})
}

// handleApplication uses the alternate field spellings some backend versions
// return, so clients must decode defensively.
func (s *Server) handleApplication(w http.ResponseWriter, r *http.Request) {
	id := atoi(chi.URLParam(r, "id"))
	me := userFrom(r).Email

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	a, found := s.ownedApp(me, id)
	if !found {
		fail(w, r, ErrApplicationMissing)
		return
	}
	var experience any = a.Experience
	if n, err := strconv.Atoi(a.Experience); err == nil {
		experience = n
	}
	ok(w, r, render.M{"application": render.M{
		"id":                 a.ID,
		"candidate_name":     a.FullName,
		"candidate_email":    a.Email,
		"experience":         experience,
		"skills":             splitSkills(a.Skills),
		"salary_expectation": a.ExpectedSalary,
		"resume":             a.ResumePath,
		"similarity_score":   a.Score,
		"applied_date":       a.CreatedAt.Format("2006-01-02"),
		"status":             a.Status,
	}})
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		fail(w, r, ErrBadForm)
		return
	}
	kind := formValue(r, "email_type")
	if kind == "" {
		kind = formValue(r, "type")
	}
	e := SentEmail{
		ApplicationID: atoi(formValue(r, "application_id")),
		Kind:          kind,
		Subject:       formValue(r, "subject"),
		Message:       formValue(r, "message"),
	}
	if e.ApplicationID == 0 || e.Subject == "" || e.Message == "" {
		fail(w, r, ErrEmailFields)
		return
	}
	me := userFrom(r).Email

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, found := s.ownedApp(me, e.ApplicationID); !found {
		fail(w, r, ErrApplicationMissing)
		return
	}
	for i := range s.store.apps {
		if s.store.apps[i].ID != e.ApplicationID {
			continue
		}
		switch kind {
		case "accept":
			s.store.apps[i].Status = "accepted"
		case "interview":
			s.store.apps[i].Status = "interview"
		}
	}
	s.store.outbox = append(s.store.outbox, e)
	ok(w, r, render.M{"message": "Email sent"})
}

// ownedApp finds an application to one of recruiter's jobs. Callers hold the store lock.
func (s *Server) ownedApp(recruiter string, id int) (application, bool) {
	for _, a := range s.store.recruiterApps(recruiter, 0) {
		if a.ID == id {
			return a, true
		}
	}
	return application{}, false
}

func splitSkills(csv string) []string {
	return append([]string{}, splitCSV(csv)...)
}

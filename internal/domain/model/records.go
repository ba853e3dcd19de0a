package model

import (
	"path"
	"strings"
	"time"
)

// JobRecord is a job posting as returned by the backend. The client only ever
// holds read-only cached copies.
type JobRecord struct {
	ID               ID         `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Skills           FlexString `json:"skills"`
	Experience       FlexString `json:"experience,omitempty"`
	Location         string     `json:"location,omitempty"`
	Salary           string     `json:"salary,omitempty"`
	Type             string     `json:"type,omitempty"`
	Category         string     `json:"category,omitempty"`
	CompanyName      string     `json:"company_name,omitempty"`
	RecruiterName    string     `json:"recruiter_name,omitempty"`
	ApplicationCount int        `json:"application_count,omitempty"`
}

// SkillList splits the comma separated skills, dropping blanks.
func (j JobRecord) SkillList() []string {
	return splitCSV(string(j.Skills))
}

// Job card display fallbacks used when the backend omits a field.
const (
	DefaultCompany  = "Company"
	DefaultJobType  = "Full Time"
	DefaultSalary   = "30,000-40,000"
	DefaultLocation = "Goa, India"
	DefaultCategory = "General"
	DefaultTitle    = "Untitled Role"
)

// JobCard is the presentation-ready view of a JobRecord.
type JobCard struct {
	ID       ID
	Title    string
	Company  string
	Initials string
	Category string
	Type     string
	Salary   string
	Location string
}

// Card applies the display fallbacks.
func (j JobRecord) Card() JobCard {
	company := DefaultCompany
	if fields := strings.Fields(j.RecruiterName); len(fields) > 0 {
		company = fields[0]
	}
	short := []rune(company)
	if len(short) > 2 {
		short = short[:2]
	}
	c := JobCard{
		ID:       j.ID,
		Title:    firstNonEmpty(j.Title, DefaultTitle),
		Company:  firstNonEmpty(j.CompanyName, company),
		Initials: strings.ToUpper(string(short)),
		Type:     firstNonEmpty(j.Type, DefaultJobType),
		Salary:   firstNonEmpty(j.Salary, DefaultSalary),
		Location: firstNonEmpty(j.Location, DefaultLocation),
	}
	category := j.Category
	if category == "" {
		if skills := j.SkillList(); len(skills) > 0 {
			category = skills[0]
		}
	}
	c.Category = firstNonEmpty(category, DefaultCategory)
	return c
}

// ApplicationRecord is a candidate application as listed on the recruiter dashboard.
type ApplicationRecord struct {
	ID              ID         `json:"id"`
	JobID           ID         `json:"job_id,omitempty"`
	CandidateName   string     `json:"candidate_name"`
	CandidateEmail  string     `json:"candidate_email"`
	JobTitle        string     `json:"job_title"`
	SimilarityScore RawScore   `json:"similarity_score"`
	Experience      FlexString `json:"experience"`
	ExpectedSalary  string     `json:"expected_salary"`
	ResumePath      string     `json:"resume_path"`
	Status          string     `json:"status,omitempty"`
	CreatedAt       string     `json:"created_at"`
}

// Initials returns the upper-cased first letters of the candidate name, or "NA".
func (a ApplicationRecord) Initials() string {
	return initials(a.CandidateName)
}

// ApplicationDetail is the single application view. The backend is loose about
// field names, so alternatives are merged by the decoder into the canonical ones.
type ApplicationDetail struct {
	ID              ID
	CandidateName   string
	CandidateEmail  string
	Experience      string
	Skills          []string
	ExpectedSalary  string
	ResumePath      string
	SimilarityScore RawScore
	AppliedDate     string
	Status          string
}

// ExperienceText renders experience the way the dashboard shows it.
func (d ApplicationDetail) ExperienceText() string {
	e := strings.TrimSpace(d.Experience)
	switch {
	case e == "":
		return "Not specified"
	case isNumber(e):
		return e + " years experience"
	}
	return e
}

// SalaryText falls back to "Not specified".
func (d ApplicationDetail) SalaryText() string {
	return firstNonEmpty(strings.TrimSpace(d.ExpectedSalary), "Not specified")
}

// ResumeLink derives the download URL from the stored resume path. The backend
// appends "::extra" metadata after the file path; only the file name is kept.
func (d ApplicationDetail) ResumeLink() string {
	p := strings.TrimSpace(d.ResumePath)
	if p == "" {
		return ""
	}
	p, _, _ = strings.Cut(p, "::")
	name := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return "/uploads/" + name
}

// RankedCandidate is one row of the recruiter ranking table.
type RankedCandidate struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Score    *float64 `json:"score"`
	JobID    ID       `json:"job_id"`
	JobTitle string   `json:"job_title"`
}

// RecruiterStats are the overview counters.
type RecruiterStats struct {
	ActiveJobs        int `json:"active_jobs"`
	TotalApplications int `json:"total_applications"`
	PendingReviews    int `json:"pending_reviews"`
	HiredCandidates   int `json:"hired_candidates"`
}

// Ledger statuses. Only "applied" is ever written locally; the others are
// counted if a ledger was seeded elsewhere.
const (
	StatusApplied     = "applied"
	StatusShortlisted = "shortlisted"
	StatusInterview   = "interview"
	StatusRejected    = "rejected"
	StatusOffer       = "offer"
)

// LedgerEntry is one locally recorded application.
type LedgerEntry struct {
	ID     ID     `json:"id"`
	Status string `json:"status"`
}

// ApplicationSummary is the candidate status card set. It reflects what was
// last recorded locally, not the backend's view.
type ApplicationSummary struct {
	Applied     int
	Shortlisted int
	Interviews  int
	Rejected    int
	Offers      int
	// UpdatedAt is when the ledger was last written; zero if never.
	UpdatedAt time.Time
}

// Summarize counts ledger entries by status.
func Summarize(entries []LedgerEntry, updatedAt time.Time) ApplicationSummary {
	s := ApplicationSummary{Applied: len(entries), UpdatedAt: updatedAt}
	for _, e := range entries {
		switch e.Status {
		case StatusShortlisted:
			s.Shortlisted++
		case StatusInterview:
			s.Interviews++
		case StatusRejected:
			s.Rejected++
		case StatusOffer:
			s.Offers++
		}
	}
	return s
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func initials(name string) string {
	var b strings.Builder
	for _, f := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(f)[0])))
	}
	if b.Len() == 0 {
		return "NA"
	}
	return b.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

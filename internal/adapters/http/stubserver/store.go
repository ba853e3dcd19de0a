package stubserver

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type user struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// pending is an OTP challenge waiting for verification.
type pending struct {
	Mode     string
	Role     string
	Name     string
	Password string
}

type job struct {
	ID          int
	Recruiter   string
	CompanyName string
	Title       string
	Type        string
	Location    string
	Salary      string
	Description string
	Skills      string
	Experience  string
	Category    string
	CreatedAt   time.Time
}

type application struct {
	ID             int
	JobID          int
	Candidate      string
	FullName       string
	Email          string
	Phone          string
	Experience     string
	Skills         string
	ExpectedSalary string
	CoverLetter    string
	ResumePath     string
	Score          *float64
	Status         string
	CreatedAt      time.Time
}

// SentEmail is a recruiter email captured instead of being delivered.
type SentEmail struct {
	ApplicationID int
	Kind          string
	Subject       string
	Message       string
}

// store is the stub backend's whole state.
type store struct {
	mu       sync.Mutex
	users    map[string]user
	pending  map[string]pending
	sessions map[string]string
	jobs     []job
	apps     []application
	outbox   []SentEmail
	nextJob  int
	nextApp  int
}

func newStore() *store {
	return &store{
		users:    make(map[string]user),
		pending:  make(map[string]pending),
		sessions: make(map[string]string),
		nextJob:  1,
		nextApp:  1,
	}
}

func (s *store) jobByID(id int) (job, bool) {
	for _, j := range s.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return job{}, false
}

func (s *store) applicationCount(jobID int) int {
	n := 0
	for _, a := range s.apps {
		if a.JobID == jobID {
			n++
		}
	}
	return n
}

// recruiterApps returns applications to jobs owned by recruiter, newest first.
func (s *store) recruiterApps(recruiter string, jobID int) []application {
	owned := make(map[int]bool)
	for _, j := range s.jobs {
		if j.Recruiter == recruiter {
			owned[j.ID] = true
		}
	}
	var out []application
	for _, a := range s.apps {
		if owned[a.JobID] && (jobID == 0 || a.JobID == jobID) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
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

// matchScore is the share of the job's skills mentioned by the applicant, in [0,1].
// Jobs without skills yield no score.
func matchScore(jobSkills, applicant string) *float64 {
	wanted := splitCSV(strings.ToLower(jobSkills))
	if len(wanted) == 0 {
		return nil
	}
	have := strings.ToLower(applicant)
	hit := 0
	for _, w := range wanted {
		if strings.Contains(have, w) {
			hit++
		}
	}
	v := float64(hit) / float64(len(wanted))
	return &v
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Package jobfilter implements the candidate dashboard's client-side job filters.
package jobfilter

import (
	"strings"

	"github.com/okian/recruitportal/internal/domain/model"
)

// Filter holds the free-text inputs and the work-mode facets.
// The zero value matches every job.
type Filter struct {
	Query    string
	Location string
	Remote   bool
	Onsite   bool
	Hybrid   bool
}

// Empty reports whether the filter excludes nothing.
func (f Filter) Empty() bool {
	return strings.TrimSpace(f.Query) == "" && strings.TrimSpace(f.Location) == "" &&
		!f.Remote && !f.Onsite && !f.Hybrid
}

// Match reports whether a single job passes every condition.
func (f Filter) Match(j model.JobRecord) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	loc := strings.ToLower(strings.TrimSpace(f.Location))
	jobLoc := strings.ToLower(j.Location)

	if q != "" &&
		!strings.Contains(strings.ToLower(j.Title), q) &&
		!strings.Contains(strings.ToLower(j.Description), q) &&
		!strings.Contains(strings.ToLower(string(j.Skills)), q) {
		return false
	}
	if loc != "" && !strings.Contains(jobLoc, loc) {
		return false
	}
	if f.Remote && !strings.Contains(jobLoc, "remote") {
		return false
	}
	if f.Onsite && !strings.Contains(jobLoc, "on-site") && !strings.Contains(jobLoc, "onsite") {
		return false
	}
	if f.Hybrid && !strings.Contains(jobLoc, "hybrid") {
		return false
	}
	return true
}

// Apply returns the jobs matching f, preserving order. The input is not modified.
func Apply(jobs []model.JobRecord, f Filter) []model.JobRecord {
	out := make([]model.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		if f.Match(j) {
			out = append(out, j)
		}
	}
	return out
}

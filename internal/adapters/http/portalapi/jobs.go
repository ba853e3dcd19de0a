package portalapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/okian/recruitportal/internal/domain/model"
)

type jobsReply struct {
	Jobs []model.JobRecord `json:"jobs"`
}

// Jobs lists every open job for candidates.
func (c *Client) Jobs(ctx context.Context) ([]model.JobRecord, error) {
	var out jobsReply
	if err := c.get(ctx, "portalapi.Jobs", "/api/jobs", "/api/jobs", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Jobs), nil
}

// RecruiterJobs lists the signed-in recruiter's jobs.
func (c *Client) RecruiterJobs(ctx context.Context) ([]model.JobRecord, error) {
	var out jobsReply
	if err := c.get(ctx, "portalapi.RecruiterJobs", "/api/recruiter/jobs", "/api/recruiter/jobs", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Jobs), nil
}

// CreatedJob is the reply to a job post.
type CreatedJob struct {
	JobID       model.ID `json:"job_id"`
	CompanyName string   `json:"company_name"`
}

// CreateJob posts a new job after validating the draft.
func (c *Client) CreateJob(ctx context.Context, d model.JobDraft) (CreatedJob, error) {
	const op = "portalapi.CreateJob"
	if err := d.Validate(); err != nil {
		return CreatedJob{}, Validation(op, err)
	}
	fields := [][2]string{
		{"company_name", d.CompanyName},
		{"title", d.Title},
		{"type", d.Type},
		{"location", d.Location},
		{"salary", d.Salary},
		{"description", d.Description},
		{"skills", d.Skills},
		{"experience", d.Experience},
		{"category", d.Category},
	}
	var out CreatedJob
	if err := c.postForm(ctx, op, "/api/recruiter/jobs", fields, nil, &out); err != nil {
		return CreatedJob{}, err
	}
	return out, nil
}

// DeleteJob removes one of the recruiter's jobs.
func (c *Client) DeleteJob(ctx context.Context, id model.ID) error {
	const op = "portalapi.DeleteJob"
	if id == "" {
		return Validation(op, model.NewValidationError("Could not find job details"))
	}
	return c.do(ctx, call{
		op:       op,
		method:   http.MethodDelete,
		endpoint: "/api/recruiter/jobs/{id}",
		path:     "/api/recruiter/jobs/" + url.PathEscape(string(id)),
		mutating: true,
	}, nil)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package portalapi

import (
	"context"
	"net/url"

	"github.com/okian/recruitportal/internal/domain/model"
)

type applicationsReply struct {
	Applications []model.ApplicationRecord `json:"applications"`
}

// Applications lists applications to the recruiter's jobs, optionally for one job.
func (c *Client) Applications(ctx context.Context, jobID model.ID) ([]model.ApplicationRecord, error) {
	var q url.Values
	if jobID != "" {
		q = url.Values{"job_id": {string(jobID)}}
	}
	var out applicationsReply
	if err := c.get(ctx, "portalapi.Applications", "/api/recruiter/applications", "/api/recruiter/applications", q, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Applications), nil
}

// applicationWire accepts every field spelling the backend has used.
type applicationWire struct {
	ID                model.ID         `json:"id"`
	CandidateName     model.FlexString `json:"candidate_name"`
	CandidateEmail    model.FlexString `json:"candidate_email"`
	Experience        model.FlexString `json:"experience"`
	Skills            model.FlexString `json:"skills"`
	ExpectedSalary    model.FlexString `json:"expected_salary"`
	SalaryExpectation model.FlexString `json:"salary_expectation"`
	ResumeURL         model.FlexString `json:"resume_url"`
	ResumePath        model.FlexString `json:"resume_path"`
	Resume            model.FlexString `json:"resume"`
	SimilarityScore   *model.RawScore  `json:"similarity_score"`
	AppliedDate       model.FlexString `json:"applied_date"`
	CreatedAt         model.FlexString `json:"created_at"`
	Status            model.FlexString `json:"status"`
}

func (w applicationWire) detail() model.ApplicationDetail {
	d := model.ApplicationDetail{
		ID:             w.ID,
		CandidateName:  w.CandidateName.String(),
		CandidateEmail: w.CandidateEmail.String(),
		Experience:     w.Experience.String(),
		Skills:         (model.JobRecord{Skills: w.Skills}).SkillList(),
		ExpectedSalary: first(w.ExpectedSalary, w.SalaryExpectation),
		ResumePath:     first(w.ResumeURL, w.ResumePath, w.Resume),
		AppliedDate:    first(w.AppliedDate, w.CreatedAt),
		Status:         w.Status.String(),
	}
	if w.SimilarityScore != nil {
		d.SimilarityScore = *w.SimilarityScore
	}
	return d
}

func first(vals ...model.FlexString) string {
	for _, v := range vals {
		if v != "" {
			return v.String()
		}
	}
	return ""
}

// Application fetches one application with defensive decoding.
func (c *Client) Application(ctx context.Context, id model.ID) (model.ApplicationDetail, error) {
	const op = "portalapi.Application"
	var out struct {
		Application *applicationWire `json:"application"`
	}
	path := "/api/recruiter/applications/" + url.PathEscape(string(id))
	if err := c.get(ctx, op, "/api/recruiter/applications/{id}", path, nil, &out); err != nil {
		return model.ApplicationDetail{}, err
	}
	if out.Application == nil {
		return model.ApplicationDetail{}, serverError(op, "")
	}
	d := out.Application.detail()
	if d.ID == "" {
		d.ID = id
	}
	return d, nil
}

// SendEmail posts a templated message about an application. Quick accept uses
// the email_type field name; the modal flow uses type.
func (c *Client) SendEmail(ctx context.Context, d model.EmailDraft, quick bool) error {
	const op = "portalapi.SendEmail"
	if err := d.Validate(); err != nil {
		return Validation(op, err)
	}
	kindField := "type"
	if quick {
		kindField = "email_type"
	}
	fields := [][2]string{
		{"application_id", string(d.ApplicationID)},
		{kindField, string(d.Kind)},
		{"subject", d.Subject},
		{"message", d.Message},
	}
	return c.postForm(ctx, op, "/api/recruiter/send-email", fields, nil, nil)
}

// Applied is the reply to a candidate application.
type Applied struct {
	ApplicationID model.ID       `json:"application_id"`
	Score         model.RawScore `json:"score"`
}

// Apply submits a candidate application with the resume as a file part.
func (c *Client) Apply(ctx context.Context, f model.ApplyForm) (Applied, error) {
	const op = "portalapi.Apply"
	if err := f.Validate(); err != nil {
		return Applied{}, Validation(op, err)
	}
	fields := [][2]string{
		{"job_id", string(f.JobID)},
		{"full_name", f.FullName},
		{"email", f.Email},
		{"phone", f.Phone},
		{"experience", f.Experience},
		{"skills", f.Skills},
		{"expected_salary", f.ExpectedSalary},
		{"cover_letter", f.CoverLetter},
	}
	var out Applied
	file := &formFile{field: "resume", name: f.ResumeName, r: f.Resume}
	if err := c.postForm(ctx, op, "/api/candidate/apply", fields, file, &out); err != nil {
		return Applied{}, err
	}
	return out, nil
}

package portalapi

import (
	"context"

	"github.com/okian/recruitportal/internal/domain/model"
)

// statsWire accepts both the nested camelCase and the flat snake_case shapes.
type statsWire struct {
	Stats *struct {
		ActiveJobs        int `json:"activeJobs"`
		TotalApplications int `json:"totalApplications"`
		PendingReviews    int `json:"pendingReviews"`
		HiredCandidates   int `json:"hiredCandidates"`
	} `json:"stats"`
	model.RecruiterStats
}

// Stats fetches the overview counters. Missing counters are zero.
func (c *Client) Stats(ctx context.Context) (model.RecruiterStats, error) {
	var out statsWire
	if err := c.get(ctx, "portalapi.Stats", "/api/recruiter/stats", "/api/recruiter/stats", nil, &out); err != nil {
		return model.RecruiterStats{}, err
	}
	if s := out.Stats; s != nil {
		return model.RecruiterStats{
			ActiveJobs:        s.ActiveJobs,
			TotalApplications: s.TotalApplications,
			PendingReviews:    s.PendingReviews,
			HiredCandidates:   s.HiredCandidates,
		}, nil
	}
	return out.RecruiterStats, nil
}

// Ranking lists candidates by match score; a candidate's score may be absent.
func (c *Client) Ranking(ctx context.Context) ([]model.RankedCandidate, error) {
	var out struct {
		Candidates []model.RankedCandidate `json:"candidates"`
	}
	if err := c.get(ctx, "portalapi.Ranking", "/api/recruiter/ranking", "/api/recruiter/ranking", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Candidates), nil
}

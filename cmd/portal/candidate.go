package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/okian/recruitportal/internal/domain/jobfilter"
	"github.com/okian/recruitportal/internal/domain/model"
	"github.com/okian/recruitportal/internal/domain/score"
	"github.com/spf13/cobra"
)

func jobsCmd(a *cliApp) *cobra.Command {
	var f jobfilter.Filter
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List open jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.session.Candidate()
			if err := c.LoadJobs(cmd.Context()); err != nil {
				return err
			}
			c.SetFilter(f)
			v := c.View()
			out := cmd.OutOrStdout()
			if v.Empty {
				fmt.Fprintln(out, "No jobs match your filters.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE\tSALARY\tCATEGORY")
			for _, card := range v.Cards {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					card.ID, card.Title, card.Company, card.Location, card.Type, card.Salary, card.Category)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d of %d jobs\n", len(v.Cards), v.Total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "Match title, description or skills")
	cmd.Flags().StringVar(&f.Location, "location", "", "Match location")
	cmd.Flags().BoolVar(&f.Remote, "remote", false, "Remote jobs only")
	cmd.Flags().BoolVar(&f.Onsite, "onsite", false, "On-site jobs only")
	cmd.Flags().BoolVar(&f.Hybrid, "hybrid", false, "Hybrid jobs only")
	return cmd
}

func applyCmd(a *cliApp) *cobra.Command {
	var form model.ApplyForm
	var jobID, resume string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply to a job with a resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.JobID = model.ID(jobID)
			if resume != "" {
				f, err := os.Open(resume)
				if err != nil {
					return fmt.Errorf("open resume: %w", err)
				}
				defer f.Close()
				form.Resume = f
				form.ResumeName = filepath.Base(resume)
			}
			res, err := a.session.Candidate().Apply(cmd.Context(), form)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.ApplicationID != "" {
				fmt.Fprintf(out, "Application %s\n", res.ApplicationID)
			}
			fmt.Fprintf(out, "Match score: %d%%\n", score.Normalize(res.Score.Float()))
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "Job id")
	cmd.Flags().StringVar(&form.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "Phone")
	cmd.Flags().StringVar(&form.Experience, "experience", "", "Years of experience")
	cmd.Flags().StringVar(&form.Skills, "skills", "", "Comma separated skills")
	cmd.Flags().StringVar(&form.ExpectedSalary, "salary", "", "Expected salary")
	cmd.Flags().StringVar(&form.CoverLetter, "cover-letter", "", "Cover letter")
	cmd.Flags().StringVar(&resume, "resume", "", "Resume file (.pdf, .doc, .docx)")
	return cmd
}

func summaryCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show application counts recorded on this machine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session.Candidate().Summary(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Applied\t%d\n", s.Applied)
			fmt.Fprintf(tw, "Shortlisted\t%d\n", s.Shortlisted)
			fmt.Fprintf(tw, "Interviews\t%d\n", s.Interviews)
			fmt.Fprintf(tw, "Rejected\t%d\n", s.Rejected)
			fmt.Fprintf(tw, "Offers\t%d\n", s.Offers)
			if err := tw.Flush(); err != nil {
				return err
			}
			if s.UpdatedAt.IsZero() {
				fmt.Fprintln(out, "Nothing recorded locally yet.")
			} else {
				fmt.Fprintf(out, "Last known locally, updated %s\n", s.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

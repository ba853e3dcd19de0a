package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/recruitportal/internal/app/dashboard"
	"github.com/okian/recruitportal/internal/domain/model"
	"github.com/okian/recruitportal/internal/domain/score"
	"github.com/spf13/cobra"
)

func recruiterCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recruiter",
		Aliases: []string{"r"},
		Short:   "Recruiter dashboard",
	}
	cmd.AddCommand(
		recruiterJobsCmd(a),
		postJobCmd(a),
		quickPostCmd(a),
		editJobCmd(a),
		deleteJobCmd(a),
		applicationsCmd(a),
		applicationCmd(a),
		acceptCmd(a),
		interviewCmd(a),
		emailCmd(a),
		statsCmd(a),
		rankingCmd(a),
	)
	return cmd
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func recruiterJobsCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List your job posts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := a.session.Recruiter()
			if err := r.SwitchTab(cmd.Context(), dashboard.TabJobs); err != nil {
				return err
			}
			jobs := r.Jobs().Visible()
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No jobs posted yet.")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tTITLE\tLOCATION\tTYPE\tAPPLICATIONS")
			for _, j := range jobs {
				c := j.Card()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", j.ID, c.Title, c.Location, c.Type, j.ApplicationCount)
			}
			return tw.Flush()
		},
	}
}

func postJobCmd(a *cliApp) *cobra.Command {
	var d model.JobDraft
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.session.Recruiter().CreateJob(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s\n", res.JobID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&d.CompanyName, "company", "", "Company name")
	f.StringVar(&d.Title, "title", "", "Job title")
	f.StringVar(&d.Type, "type", "", "Employment type")
	f.StringVar(&d.Location, "location", "", "Location")
	f.StringVar(&d.Salary, "salary", "", "Salary range")
	f.StringVar(&d.Description, "description", "", "Description")
	f.StringVar(&d.Skills, "skills", "", "Comma separated skills")
	f.StringVar(&d.Experience, "experience", "", "Required experience")
	f.StringVar(&d.Category, "category", "", "Category")
	return cmd
}

func quickPostCmd(a *cliApp) *cobra.Command {
	var title, description, company string
	cmd := &cobra.Command{
		Use:   "quick-post",
		Short: "Post a remote full time job from a title and description",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.session.Recruiter().QuickPost(cmd.Context(), title, description, company)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s\n", res.JobID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Job title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&company, "company", "", "Company name")
	return cmd
}

func editJobCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <job-id>",
		Short: "Edit a job post",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a.session.Recruiter().EditJob(cmd.Context(), model.ID(args[0]))
		},
	}
}

func deleteJobCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job post and its applications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := a.session.Recruiter().DeleteJob(cmd.Context(), model.ID(args[0]), a.term)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			}
			return nil
		},
	}
}

func applicationsCmd(a *cliApp) *cobra.Command {
	var jobID string
	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List applications, optionally for one job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := a.session.Recruiter()
			var err error
			if jobID != "" {
				err = r.ShowApplicationsForJob(cmd.Context(), model.ID(jobID))
			} else {
				err = r.SwitchTab(cmd.Context(), dashboard.TabApplicants)
			}
			if err != nil {
				return err
			}
			rows := r.Applicants()
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No applications yet.")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tCANDIDATE\tEMAIL\tJOB\tMATCH\tSTATUS")
			for _, row := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
					row.ID, row.CandidateName, row.CandidateEmail, row.JobTitle, row.Match, row.Status)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "Only applications for this job")
	return cmd
}

func applicationCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "application <application-id>",
		Short: "Show one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.session.Recruiter().ApplicationDetails(cmd.Context(), model.ID(args[0]))
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Candidate\t%s (%s)\n", v.CandidateName, v.Initials)
			fmt.Fprintf(tw, "Email\t%s\n", v.CandidateEmail)
			fmt.Fprintf(tw, "Experience\t%s\n", v.Experience)
			fmt.Fprintf(tw, "Expected salary\t%s\n", v.Salary)
			fmt.Fprintf(tw, "Match\t%d%%\n", v.Match)
			if len(v.Skills) > 0 {
				fmt.Fprintf(tw, "Skills\t%v\n", v.Skills)
			}
			if v.ResumeLink != "" {
				fmt.Fprintf(tw, "Resume\t%s\n", v.ResumeLink)
			}
			if v.AppliedDate != "" {
				fmt.Fprintf(tw, "Applied\t%s\n", v.AppliedDate)
			}
			if v.Status != "" {
				fmt.Fprintf(tw, "Status\t%s\n", v.Status)
			}
			return tw.Flush()
		},
	}
}

func acceptCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <application-id>",
		Short: "Send the acceptance email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session.Recruiter().Accept(cmd.Context(), model.ID(args[0]))
		},
	}
}

func interviewCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "interview <application-id>",
		Short: "Send the interview invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session.Recruiter().ScheduleInterview(cmd.Context(), model.ID(args[0]))
		},
	}
}

func emailCmd(a *cliApp) *cobra.Command {
	var kind, subject, message string
	cmd := &cobra.Command{
		Use:   "email <application-id>",
		Short: "Send a custom email based on a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := model.EmailTemplate(model.EmailKind(kind), model.ID(args[0]))
			if subject != "" {
				d.Subject = subject
			}
			if message != "" {
				d.Message = message
			}
			return a.session.Recruiter().SendEmail(cmd.Context(), d)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.EmailAccept), "Template: accept or interview")
	cmd.Flags().StringVar(&subject, "subject", "", "Override the template subject")
	cmd.Flags().StringVar(&message, "message", "", "Override the template message")
	return cmd
}

func statsCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show overview counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := a.session.Recruiter()
			if err := r.RefreshStats(cmd.Context()); err != nil {
				return err
			}
			s := r.Stats()
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Active jobs\t%d\n", s.ActiveJobs)
			fmt.Fprintf(tw, "Total applications\t%d\n", s.TotalApplications)
			fmt.Fprintf(tw, "Pending reviews\t%d\n", s.PendingReviews)
			fmt.Fprintf(tw, "Hired candidates\t%d\n", s.HiredCandidates)
			return tw.Flush()
		},
	}
}

func rankingCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "ranking",
		Short: "Rank candidates by match score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.session.Recruiter().Ranking(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if v.Empty {
				fmt.Fprintln(out, "No candidates ranked yet.")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "\t#\tCANDIDATE\tEMAIL\tJOB\tSCORE")
			for i, c := range v.Candidates {
				mark := ""
				if i == v.Best {
					mark = "*"
				}
				pct := "-"
				if n, ok := score.NormalizePtr(c.Score); ok {
					pct = fmt.Sprintf("%d%%", n)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", mark, i+1, c.Name, c.Email, c.JobTitle, pct)
			}
			return tw.Flush()
		},
	}
}

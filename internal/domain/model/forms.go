package model

import (
	"io"
	"strings"
)

// ValidationError is raised before any network call when user input is incomplete.
// Message is user-facing and shown verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Credentials are the transient login/signup form values, read at submit time.
type Credentials struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// Trimmed returns a copy with surrounding whitespace removed.
func (c Credentials) Trimmed() Credentials {
	return Credentials{
		Name:            strings.TrimSpace(c.Name),
		Email:           strings.TrimSpace(c.Email),
		Password:        strings.TrimSpace(c.Password),
		PasswordConfirm: strings.TrimSpace(c.PasswordConfirm),
	}
}

// JobDraft is a job post created from the recruiter dashboard.
type JobDraft struct {
	CompanyName string
	Title       string
	Type        string
	Location    string
	Salary      string
	Description string
	Skills      string
	Experience  string
	Category    string
}

// Validate requires company, title and description.
func (d JobDraft) Validate() error {
	if strings.TrimSpace(d.CompanyName) == "" || strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" {
		return NewValidationError("Company name, job title and description are required")
	}
	return nil
}

// QuickJobDraft builds the reduced quick-post form with its fixed defaults.
func QuickJobDraft(title, description, company string) (JobDraft, error) {
	title, description = strings.TrimSpace(title), strings.TrimSpace(description)
	if title == "" || description == "" {
		return JobDraft{}, NewValidationError("Enter title & description")
	}
	return JobDraft{
		CompanyName: firstNonEmpty(strings.TrimSpace(company), DefaultCompany),
		Title:       title,
		Description: description,
		Location:    "Remote",
		Type:        DefaultJobType,
	}, nil
}

// ApplyForm is a candidate application. Resume is streamed into the multipart body.
type ApplyForm struct {
	JobID          ID
	FullName       string
	Email          string
	Phone          string
	Experience     string
	Skills         string
	ExpectedSalary string
	CoverLetter    string
	ResumeName     string
	Resume         io.Reader
}

// Validate requires a resume, a full name and an email, in that order.
func (f ApplyForm) Validate() error {
	if f.Resume == nil || strings.TrimSpace(f.ResumeName) == "" {
		return NewValidationError("Please attach a resume (.pdf or .doc/.docx)")
	}
	if strings.TrimSpace(f.FullName) == "" || strings.TrimSpace(f.Email) == "" {
		return NewValidationError("Full name and email are required")
	}
	return nil
}

// EmailKind selects a recruiter email template.
type EmailKind string

// Email kinds.
const (
	EmailAccept    EmailKind = "accept"
	EmailInterview EmailKind = "interview"
)

// EmailDraft is a templated message sent to a candidate.
type EmailDraft struct {
	ApplicationID ID
	Kind          EmailKind
	Title         string
	Subject       string
	Message       string
}

// EmailTemplate returns the default draft for kind.
func EmailTemplate(kind EmailKind, applicationID ID) EmailDraft {
	d := EmailDraft{ApplicationID: applicationID, Kind: kind}
	switch kind {
	case EmailInterview:
		d.Title = "Schedule Interview Email"
		d.Subject = "Interview Invitation"
		d.Message = "We would like to invite you for an interview. Please let us know your availability."
	default:
		d.Kind = EmailAccept
		d.Title = "Send Acceptance Email"
		d.Subject = "Congratulations! Your application has been accepted"
		d.Message = "We are pleased to inform you that your application has been accepted. Welcome to the team!"
	}
	return d
}

// Validate requires an application id, subject and message.
func (d EmailDraft) Validate() error {
	if strings.TrimSpace(string(d.ApplicationID)) == "" {
		return NewValidationError("Missing application")
	}
	if strings.TrimSpace(d.Subject) == "" || strings.TrimSpace(d.Message) == "" {
		return NewValidationError("Subject and message are required")
	}
	return nil
}

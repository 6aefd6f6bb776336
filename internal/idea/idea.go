package idea

import (
	"strings"
	"time"

	"github.com/frahmantamala/idea-portal/internal"
	ideaDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/idea"
	"github.com/frahmantamala/idea-portal/internal/reaction"
)

type Status string

const (
	StatusDraft       Status = "Draft"
	StatusSubmitted   Status = "Submitted"
	StatusUnderReview Status = "Under Review"
	StatusShortlisted Status = "Shortlisted"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
	StatusImplemented Status = "Implemented"
)

var Statuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusShortlisted,
	StatusApproved,
	StatusRejected,
	StatusImplemented,
}

// ParseStatus matches case-insensitively against the closed status set.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", internal.ErrInvalidStatus
}

// StatusForVerdict maps an executive verdict to the status it imposes.
func StatusForVerdict(v reaction.Verdict) Status {
	if v == reaction.VerdictApprove {
		return StatusApproved
	}
	return StatusRejected
}

type Idea struct {
	ID                     int64     `json:"id"`
	UserID                 int64     `json:"user_id"`
	EmployeeName           string    `json:"employee_name"`
	Company                string    `json:"company"`
	Title                  string    `json:"title"`
	Category               string    `json:"category"`
	ProblemStatement       string    `json:"problem_statement"`
	ProposedSolution       string    `json:"proposed_solution"`
	ExpectedBenefits       string    `json:"expected_benefits"`
	DepartmentsImpacted    []string  `json:"departments_impacted"`
	AvailabilityOfData     string    `json:"availability_of_data"`
	DataSources            string    `json:"data_sources"`
	EstimatedCost          string    `json:"estimated_cost"`
	ImplementationTimeline string    `json:"implementation_timeline"`
	Status                 Status    `json:"status"`
	SubmissionDate         time.Time `json:"submission_date"`
	LastEditedAt           time.Time `json:"last_edited_at"`
	CreatedAt              time.Time `json:"created_at"`
}

// NewIdea builds an idea owned by ownerID. The payload must already be validated.
func NewIdea(ownerID int64, dto IdeaDTO, status Status, now time.Time) *Idea {
	i := &Idea{UserID: ownerID, CreatedAt: now}
	i.apply(dto, status, now)
	if i.SubmissionDate.IsZero() {
		i.SubmissionDate = now
	}
	return i
}

// ApplyEdit replaces every mutable field. The owner never changes.
func (i *Idea) ApplyEdit(dto IdeaDTO, status Status, now time.Time) {
	submitted := i.SubmissionDate
	i.apply(dto, status, now)
	if i.SubmissionDate.IsZero() {
		i.SubmissionDate = submitted
	}
}

func (i *Idea) apply(dto IdeaDTO, status Status, now time.Time) {
	i.EmployeeName = strings.TrimSpace(dto.EmployeeName)
	i.Company = strings.TrimSpace(dto.Company)
	i.Title = strings.TrimSpace(dto.Title)
	i.Category = strings.TrimSpace(dto.Category)
	i.ProblemStatement = dto.ProblemStatement
	i.ProposedSolution = dto.ProposedSolution
	i.ExpectedBenefits = dto.ExpectedBenefits
	i.DepartmentsImpacted = append([]string(nil), dto.DepartmentsImpacted...)
	i.AvailabilityOfData = dto.AvailabilityOfData
	i.DataSources = dto.DataSources
	i.EstimatedCost = dto.EstimatedCost
	i.ImplementationTimeline = dto.ImplementationTimeline
	i.Status = status
	i.SubmissionDate = dto.SubmissionDate.UTC()
	i.LastEditedAt = now
}

// ChangeStatus moves the idea to s. It reports false and leaves the idea
// untouched when s equals the current status.
func (i *Idea) ChangeStatus(s Status, now time.Time) bool {
	if i.Status == s {
		return false
	}
	i.Status = s
	i.LastEditedAt = now
	return true
}

func (i *Idea) Touch(now time.Time) {
	i.LastEditedAt = now
}

func (i *Idea) IsDraft() bool {
	return i.Status == StatusDraft
}

// VisibleTo reports whether userID may see the idea. Drafts are private to their owner.
func (i *Idea) VisibleTo(userID int64) bool {
	return !i.IsDraft() || i.UserID == userID
}

func (i *Idea) ToDataModel() *ideaDatamodel.Idea {
	return &ideaDatamodel.Idea{
		ID:                     i.ID,
		UserID:                 i.UserID,
		EmployeeName:           i.EmployeeName,
		Company:                i.Company,
		Title:                  i.Title,
		Category:               i.Category,
		ProblemStatement:       i.ProblemStatement,
		ProposedSolution:       i.ProposedSolution,
		ExpectedBenefits:       i.ExpectedBenefits,
		DepartmentsImpacted:    i.DepartmentsImpacted,
		AvailabilityOfData:     i.AvailabilityOfData,
		DataSources:            i.DataSources,
		EstimatedCost:          i.EstimatedCost,
		ImplementationTimeline: i.ImplementationTimeline,
		Status:                 string(i.Status),
		SubmissionDate:         i.SubmissionDate,
		LastEditedAt:           i.LastEditedAt,
		CreatedAt:              i.CreatedAt,
	}
}

func FromDataModel(m *ideaDatamodel.Idea) *Idea {
	departments := m.DepartmentsImpacted
	if departments == nil {
		departments = []string{}
	}
	return &Idea{
		ID:                     m.ID,
		UserID:                 m.UserID,
		EmployeeName:           m.EmployeeName,
		Company:                m.Company,
		Title:                  m.Title,
		Category:               m.Category,
		ProblemStatement:       m.ProblemStatement,
		ProposedSolution:       m.ProposedSolution,
		ExpectedBenefits:       m.ExpectedBenefits,
		DepartmentsImpacted:    departments,
		AvailabilityOfData:     m.AvailabilityOfData,
		DataSources:            m.DataSources,
		EstimatedCost:          m.EstimatedCost,
		ImplementationTimeline: m.ImplementationTimeline,
		Status:                 Status(m.Status),
		SubmissionDate:         m.SubmissionDate,
		LastEditedAt:           m.LastEditedAt,
		CreatedAt:              m.CreatedAt,
	}
}

// Comment is a comment joined with its author.
type Comment struct {
	ID        int64     `json:"id"`
	IdeaID    int64     `json:"idea_id"`
	UserID    int64     `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

func CommentFromDataModel(m *ideaDatamodel.CommentWithAuthor) *Comment {
	return &Comment{
		ID:        m.ID,
		IdeaID:    m.IdeaID,
		UserID:    m.UserID,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
		Email:     m.Email,
		Role:      m.Role,
	}
}

// Author is the subset of a user the lifecycle needs for fan-out.
type Author struct {
	ID       int64
	Email    string
	FullName string
	Role     string
}

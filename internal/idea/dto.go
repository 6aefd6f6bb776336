package idea

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/common/sanitize"
	"github.com/frahmantamala/idea-portal/internal/core/common/validation"
)

const dateLayout = "2006-01-02"

// Date accepts either a calendar date or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(dateLayout, raw)
}

// IdeaDTO is the payload for creating or fully rewriting an idea.
// The owner always comes from the authenticated caller.
type IdeaDTO struct {
	EmployeeName           string   `json:"employee_name"`
	Company                string   `json:"company"`
	Title                  string   `json:"title"`
	Category               string   `json:"category"`
	ProblemStatement       string   `json:"problem_statement"`
	ProposedSolution       string   `json:"proposed_solution"`
	ExpectedBenefits       string   `json:"expected_benefits"`
	DepartmentsImpacted    []string `json:"departments_impacted"`
	AvailabilityOfData     string   `json:"availability_of_data"`
	DataSources            string   `json:"data_sources"`
	EstimatedCost          string   `json:"estimated_cost"`
	ImplementationTimeline string   `json:"implementation_timeline"`
	Status                 string   `json:"status"`
	SubmissionDate         Date     `json:"submission_date"`
}

// Validate checks the payload and returns the parsed status.
// Drafts only need a title; anything past Draft needs the full pitch.
func (dto IdeaDTO) Validate() (Status, error) {
	status, err := ParseStatus(dto.Status)
	if err != nil {
		return "", err
	}

	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(255)
	v.Field("employee_name", dto.EmployeeName).MaxLength(255)
	v.Field("company", dto.Company).MaxLength(255)
	v.Field("category", dto.Category).MaxLength(100)
	if status != StatusDraft {
		v.Field("category", dto.Category).Required()
		v.Field("problem_statement", dto.ProblemStatement).Required()
		v.Field("proposed_solution", dto.ProposedSolution).Required()
	}
	if appErr := v.Validate(); appErr != nil {
		return "", appErr
	}
	return status, nil
}

// Sanitized returns a copy with free-text fields stripped of unsafe markup.
func (dto IdeaDTO) Sanitized() IdeaDTO {
	dto.ProblemStatement = sanitize.Text(dto.ProblemStatement)
	dto.ProposedSolution = sanitize.Text(dto.ProposedSolution)
	dto.ExpectedBenefits = sanitize.Text(dto.ExpectedBenefits)
	dto.DataSources = sanitize.Text(dto.DataSources)
	return dto
}

type StatusUpdate struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type BulkStatusDTO struct {
	Updates []StatusUpdate `json:"updates"`
}

// Validate rejects the whole batch when any entry names an unknown status.
// Entries missing an id or a status are left for the service to skip.
func (dto BulkStatusDTO) Validate() error {
	if len(dto.Updates) == 0 {
		return internal.NewValidationFieldError("updates", "updates must be a non-empty list", internal.ErrCodeValidationFailed)
	}
	for _, u := range dto.Updates {
		if strings.TrimSpace(u.Status) == "" {
			continue
		}
		if _, err := ParseStatus(u.Status); err != nil {
			return internal.NewValidationFieldError("status", "invalid status '"+u.Status+"'", internal.ErrCodeInvalidStatus)
		}
	}
	return nil
}

type BulkStatusResult struct {
	Message   string `json:"message"`
	Applied   int    `json:"applied"`
	Unchanged int    `json:"unchanged"`
	Skipped   int    `json:"skipped"`
}

type ReactDTO struct {
	ReactionType string `json:"reaction_type"`
}

type CommentDTO struct {
	Comment string `json:"comment"`
}

func (dto CommentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("comment", dto.Comment).Required().MaxLength(5000)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ListFilter narrows the idea listing. Zero values mean no constraint.
type ListFilter struct {
	Search    string
	Status    Status
	Category  string
	Company   string
	StartDate *time.Time
	EndDate   *time.Time
}

// ParseListFilter reads filter parameters from a query string.
func ParseListFilter(q url.Values) (ListFilter, error) {
	f := ListFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
		Company:  strings.TrimSpace(q.Get("company")),
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			return ListFilter{}, err
		}
		f.Status = status
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"start_date", &f.StartDate},
		{"end_date", &f.EndDate},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ListFilter{}, internal.NewValidationFieldError(p.name, p.name+" must be formatted as YYYY-MM-DD", internal.ErrCodeInvalidDate)
		}
		*p.dst = &t
	}

	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return ListFilter{}, internal.NewValidationFieldError("end_date", "end_date must not be before start_date", internal.ErrCodeInvalidDate)
	}
	return f, nil
}

// EndExclusive is the first instant after the inclusive end date.
func (f ListFilter) EndExclusive() *time.Time {
	if f.EndDate == nil {
		return nil
	}
	t := f.EndDate.AddDate(0, 0, 1)
	return &t
}

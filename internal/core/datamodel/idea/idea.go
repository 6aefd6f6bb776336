package idea

import "time"

type Idea struct {
	ID                     int64     `gorm:"primaryKey"`
	UserID                 int64     `gorm:"column:user_id;not null;index"`
	EmployeeName           string    `gorm:"column:employee_name"`
	Company                string    `gorm:"column:company;index"`
	Title                  string    `gorm:"column:title;not null"`
	Category               string    `gorm:"column:category;index"`
	ProblemStatement       string    `gorm:"column:problem_statement"`
	ProposedSolution       string    `gorm:"column:proposed_solution"`
	ExpectedBenefits       string    `gorm:"column:expected_benefits"`
	DepartmentsImpacted    []string  `gorm:"column:departments_impacted;type:text;serializer:json"`
	AvailabilityOfData     string    `gorm:"column:availability_of_data"`
	DataSources            string    `gorm:"column:data_sources"`
	EstimatedCost          string    `gorm:"column:estimated_cost"`
	ImplementationTimeline string    `gorm:"column:implementation_timeline"`
	Status                 string    `gorm:"column:status;not null;index"`
	SubmissionDate         time.Time `gorm:"column:submission_date;not null"`
	LastEditedAt           time.Time `gorm:"column:last_edited_at"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Reaction is one user's vote on one idea. The composite unique index keeps it that way.
type Reaction struct {
	ID           int64     `gorm:"primaryKey"`
	IdeaID       int64     `gorm:"column:idea_id;not null;uniqueIndex:idx_reaction_idea_user"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:idx_reaction_idea_user"`
	ReactionType string    `gorm:"column:reaction_type;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Reaction) TableName() string {
	return "idea_reactions"
}

type Comment struct {
	ID        int64     `gorm:"primaryKey"`
	IdeaID    int64     `gorm:"column:idea_id;not null;index"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Comment   string    `gorm:"column:comment;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// ReactionWithRole is a reaction joined with the reacting user's current role.
type ReactionWithRole struct {
	IdeaID       int64  `gorm:"column:idea_id"`
	UserID       int64  `gorm:"column:user_id"`
	ReactionType string `gorm:"column:reaction_type"`
	Role         string `gorm:"column:role"`
}

// CommentWithAuthor is a comment joined with its author.
type CommentWithAuthor struct {
	ID        int64     `gorm:"column:id"`
	IdeaID    int64     `gorm:"column:idea_id"`
	UserID    int64     `gorm:"column:user_id"`
	Comment   string    `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at"`
	Email     string    `gorm:"column:email"`
	Role      string    `gorm:"column:role"`
}

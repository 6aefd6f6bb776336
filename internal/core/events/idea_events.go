package events

import "time"

const (
	EventTypeIdeaSubmitted     = "idea.submitted"
	EventTypeIdeaStatusChanged = "idea.status_changed"
	EventTypeCommentPosted     = "idea.comment_posted"
)

type IdeaSubmittedEvent struct {
	BaseEvent
	IdeaID        int64  `json:"idea_id"`
	OwnerID       int64  `json:"owner_id"`
	Title         string `json:"title"`
	SubmitterName string `json:"submitter_name"`
}

func NewIdeaSubmittedEvent(ideaID, ownerID int64, title, submitterName string, at time.Time) *IdeaSubmittedEvent {
	return &IdeaSubmittedEvent{
		BaseEvent:     newBase(EventTypeIdeaSubmitted, at),
		IdeaID:        ideaID,
		OwnerID:       ownerID,
		Title:         title,
		SubmitterName: submitterName,
	}
}

// IdeaStatusChangedEvent is raised only when the stored status actually changed.
// ByExecutive marks changes driven by a CEO reaction.
type IdeaStatusChangedEvent struct {
	BaseEvent
	IdeaID      int64  `json:"idea_id"`
	OwnerID     int64  `json:"owner_id"`
	Title       string `json:"title"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	ByExecutive bool   `json:"by_executive"`
}

func NewIdeaStatusChangedEvent(ideaID, ownerID int64, title, oldStatus, newStatus string, byExecutive bool, at time.Time) *IdeaStatusChangedEvent {
	return &IdeaStatusChangedEvent{
		BaseEvent:   newBase(EventTypeIdeaStatusChanged, at),
		IdeaID:      ideaID,
		OwnerID:     ownerID,
		Title:       title,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ByExecutive: byExecutive,
	}
}

type CommentPostedEvent struct {
	BaseEvent
	IdeaID           int64  `json:"idea_id"`
	OwnerID          int64  `json:"owner_id"`
	Title            string `json:"title"`
	CommenterID      int64  `json:"commenter_id"`
	CommenterEmail   string `json:"commenter_email"`
	CommenterIsAdmin bool   `json:"commenter_is_admin"`
}

func NewCommentPostedEvent(ideaID, ownerID int64, title string, commenterID int64, commenterEmail string, commenterIsAdmin bool, at time.Time) *CommentPostedEvent {
	return &CommentPostedEvent{
		BaseEvent:        newBase(EventTypeCommentPosted, at),
		IdeaID:           ideaID,
		OwnerID:          ownerID,
		Title:            title,
		CommenterID:      commenterID,
		CommenterEmail:   commenterEmail,
		CommenterIsAdmin: commenterIsAdmin,
	}
}

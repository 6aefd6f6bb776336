package notification

import (
	"fmt"

	"github.com/frahmantamala/idea-portal/internal/core/events"
)

// Derive turns a domain event into the notifications it owes. The result is
// persisted by the caller in the same transaction as the state change.
// reviewers lists the ids of users holding the admin role at the time of the event.
func Derive(ev events.Event, reviewers []int64) []*Notification {
	switch e := ev.(type) {
	case *events.IdeaSubmittedEvent:
		return forSubmission(e, reviewers)
	case *events.IdeaStatusChangedEvent:
		return forStatusChange(e)
	case *events.CommentPostedEvent:
		return forComment(e, reviewers)
	}
	return nil
}

func forSubmission(e *events.IdeaSubmittedEvent, reviewers []int64) []*Notification {
	msg := fmt.Sprintf("New idea submitted by %s: '%s'", e.SubmitterName, e.Title)
	out := make([]*Notification, 0, len(reviewers))
	for _, id := range reviewers {
		out = append(out, newNotification(id, e.IdeaID, msg, e))
	}
	return out
}

func forStatusChange(e *events.IdeaStatusChangedEvent) []*Notification {
	if e.OldStatus == e.NewStatus {
		return nil
	}
	msg := fmt.Sprintf("The status of your idea \"%s\" has been updated to \"%s\".", e.Title, e.NewStatus)
	if e.ByExecutive {
		msg = fmt.Sprintf("The status of your idea \"%s\" has been updated to \"%s\" by the CEO.", e.Title, e.NewStatus)
	}
	return []*Notification{newNotification(e.OwnerID, e.IdeaID, msg, e)}
}

func forComment(e *events.CommentPostedEvent, reviewers []int64) []*Notification {
	var out []*Notification
	if e.CommenterIsAdmin && e.CommenterID != e.OwnerID {
		msg := fmt.Sprintf("An admin commented on your idea: \"%s\".", e.Title)
		out = append(out, newNotification(e.OwnerID, e.IdeaID, msg, e))
	}
	msg := fmt.Sprintf("%s commented on the idea: \"%s\".", e.CommenterEmail, e.Title)
	for _, id := range reviewers {
		if id == e.CommenterID {
			continue
		}
		out = append(out, newNotification(id, e.IdeaID, msg, e))
	}
	return out
}

func newNotification(userID, ideaID int64, message string, ev events.Event) *Notification {
	id := ideaID
	return &Notification{
		UserID:    userID,
		IdeaID:    &id,
		Message:   message,
		CreatedAt: ev.OccurredAt(),
	}
}
